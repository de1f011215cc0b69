package postgres

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DBConfig struct {
	DSN               string
	MaxIdleConnection int
	MaxOpenConnection int
}

// Connect opens the metadata catalog database with pool limits applied.
func Connect(conf DBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(conf.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(conf.MaxIdleConnection)
	sqlDB.SetMaxOpenConns(conf.MaxOpenConnection)
	return db, nil
}

// Migrate brings the metadata catalog schema up to date.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&AppNamespace{})
}
