package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/odpf/meridian/core/namespace"
	"github.com/odpf/meridian/internal/errors"
)

// AppNamespace is the storage record of a declaration in the metadata
// catalog.
type AppNamespace struct {
	ID uuid.UUID `gorm:"primary_key;type:uuid;default:uuid_generate_v4()"`

	AppID    string `gorm:"not null;uniqueIndex:idx_app_namespace_name"`
	Name     string `gorm:"not null;uniqueIndex:idx_app_namespace_name"`
	Format   string `gorm:"not null"`
	IsPublic bool   `gorm:"not null"`
	Comment  string

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	DeletedAt gorm.DeletedAt
}

func NewAppNamespace(spec *namespace.AppNamespace) AppNamespace {
	return AppNamespace{
		AppID:    spec.AppID().String(),
		Name:     spec.Name().String(),
		Format:   spec.Format().String(),
		IsPublic: spec.IsPublic(),
		Comment:  spec.Comment(),
	}
}

func (a AppNamespace) ToAppNamespace() (*namespace.AppNamespace, error) {
	format, err := namespace.FormatFrom(a.Format)
	if err != nil {
		return nil, err
	}
	return namespace.NewAppNamespace(a.AppID, a.Name, format, a.IsPublic, a.Comment)
}

type AppNamespaceRepository struct {
	db *gorm.DB
}

func (r *AppNamespaceRepository) Save(ctx context.Context, spec *namespace.AppNamespace) error {
	record := NewAppNamespace(spec)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return errors.InternalError(namespace.EntityAppNamespace, "unable to save appnamespace "+record.Name, err)
	}
	return nil
}

func (r *AppNamespaceRepository) GetByName(ctx context.Context, appID namespace.AppID, name namespace.Name) (*namespace.AppNamespace, error) {
	var record AppNamespace
	err := r.db.WithContext(ctx).
		Where("app_id = ? and name = ?", appID.String(), name.String()).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound(namespace.EntityAppNamespace,
				"appnamespace "+name.String()+" does not exist for app "+appID.String())
		}
		return nil, errors.InternalError(namespace.EntityAppNamespace, "unable to get appnamespace", err)
	}
	return record.ToAppNamespace()
}

func (r *AppNamespaceRepository) GetAll(ctx context.Context, appID namespace.AppID) ([]*namespace.AppNamespace, error) {
	var records []AppNamespace
	err := r.db.WithContext(ctx).
		Where("app_id = ?", appID.String()).
		Find(&records).Error
	if err != nil {
		return nil, errors.InternalError(namespace.EntityAppNamespace, "unable to list appnamespaces", err)
	}
	return toAppNamespaces(records)
}

func (r *AppNamespaceRepository) GetAllPublic(ctx context.Context) ([]*namespace.AppNamespace, error) {
	var records []AppNamespace
	err := r.db.WithContext(ctx).
		Where("is_public = ?", true).
		Find(&records).Error
	if err != nil {
		return nil, errors.InternalError(namespace.EntityAppNamespace, "unable to list public appnamespaces", err)
	}
	return toAppNamespaces(records)
}

func (r *AppNamespaceRepository) GetPublicByName(ctx context.Context, name namespace.Name) (*namespace.AppNamespace, error) {
	var record AppNamespace
	err := r.db.WithContext(ctx).
		Where("name = ? and is_public = ?", name.String(), true).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound(namespace.EntityAppNamespace,
				"public appnamespace "+name.String()+" does not exist")
		}
		return nil, errors.InternalError(namespace.EntityAppNamespace, "unable to get public appnamespace", err)
	}
	return record.ToAppNamespace()
}

func (r *AppNamespaceRepository) Delete(ctx context.Context, appID namespace.AppID, name namespace.Name) (*namespace.AppNamespace, error) {
	deleted, err := r.GetByName(ctx, appID, name)
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Where("app_id = ? and name = ?", appID.String(), name.String()).
		Delete(&AppNamespace{}).Error
	if err != nil {
		return nil, errors.InternalError(namespace.EntityAppNamespace, "unable to delete appnamespace "+name.String(), err)
	}
	return deleted, nil
}

// GetAllAppIDs lists every application with at least one declaration;
// the metadata catalog's application registry is exactly this set.
func (r *AppNamespaceRepository) GetAllAppIDs(ctx context.Context) ([]namespace.AppID, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&AppNamespace{}).
		Distinct("app_id").
		Order("app_id").
		Pluck("app_id", &ids).Error
	if err != nil {
		return nil, errors.InternalError(namespace.EntityAppNamespace, "unable to list applications", err)
	}

	appIDs := make([]namespace.AppID, 0, len(ids))
	for _, id := range ids {
		appIDs = append(appIDs, namespace.AppID(id))
	}
	return appIDs, nil
}

func toAppNamespaces(records []AppNamespace) ([]*namespace.AppNamespace, error) {
	specs := make([]*namespace.AppNamespace, 0, len(records))
	for _, record := range records {
		spec, err := record.ToAppNamespace()
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func NewAppNamespaceRepository(db *gorm.DB) *AppNamespaceRepository {
	return &AppNamespaceRepository{
		db: db,
	}
}
