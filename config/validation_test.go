package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odpf/meridian/config"
)

func TestValidate(t *testing.T) {
	valid := func() *config.ServerConfig {
		return &config.ServerConfig{
			Log:   config.LogConfig{Level: config.LogLevelInfo},
			Serve: config.Serve{Port: 9100},
			Envs: []config.EnvironmentConfig{
				{Name: "dev", Config: map[string]interface{}{"host": "http://localhost:8080"}},
				{Name: "prod", Config: map[string]interface{}{"host": "http://localhost:8081"}},
			},
		}
	}

	t.Run("accepts a complete config", func(t *testing.T) {
		assert.NoError(t, config.Validate(valid()))
	})

	t.Run("rejects unknown log level", func(t *testing.T) {
		conf := valid()
		conf.Log.Level = "VERBOSE"
		assert.Error(t, config.Validate(conf))
	})

	t.Run("rejects missing port", func(t *testing.T) {
		conf := valid()
		conf.Serve.Port = 0
		assert.Error(t, config.Validate(conf))
	})

	t.Run("rejects empty environment list", func(t *testing.T) {
		conf := valid()
		conf.Envs = nil
		assert.Error(t, config.Validate(conf))
	})

	t.Run("rejects duplicate environment names", func(t *testing.T) {
		conf := valid()
		conf.Envs = append(conf.Envs, config.EnvironmentConfig{Name: "dev"})
		err := config.Validate(conf)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate environments")
	})

	t.Run("rejects environment without a name", func(t *testing.T) {
		conf := valid()
		conf.Envs[0].Name = ""
		assert.Error(t, config.Validate(conf))
	})
}
