package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validate checks a loaded server config before the server boots.
func Validate(conf *ServerConfig) error {
	return validation.ValidateStruct(conf,
		nestedFields(&conf.Log,
			validation.Field(&conf.Log.Level, validation.In(
				LogLevelDebug,
				LogLevelInfo,
				LogLevelWarning,
				LogLevelError,
				LogLevelFatal,
			)),
		),
		nestedFields(&conf.Serve,
			validation.Field(&conf.Serve.Port, validation.Required),
		),
		validation.Field(&conf.Envs, validation.Required, validation.By(validateEnvironments)),
	)
}

func validateEnvironments(value interface{}) error {
	envs, ok := value.([]EnvironmentConfig)
	if !ok {
		return errors.New("can't convert value to environments")
	}

	m := map[string]int{}
	for _, env := range envs {
		if env.Name == "" {
			return errors.New("environment name is required")
		}
		m[env.Name]++
	}

	dup := []string{}
	for name, appearance := range m {
		if appearance > 1 {
			dup = append(dup, name)
		}
	}

	if len(dup) > 0 {
		return fmt.Errorf("duplicate environments are not allowed [%s]", strings.Join(dup, ","))
	}

	return nil
}

// ozzo-validation helper for nested validation struct
// https://github.com/go-ozzo/ozzo-validation/issues/136
func nestedFields(target interface{}, fieldRules ...*validation.FieldRules) *validation.FieldRules {
	return validation.Field(target, validation.By(func(value interface{}) error {
		valueV := reflect.Indirect(reflect.ValueOf(value))
		if valueV.CanAddr() {
			addr := valueV.Addr().Interface()
			return validation.ValidateStruct(addr, fieldRules...)
		}
		return validation.ValidateStruct(target, fieldRules...)
	}))
}
