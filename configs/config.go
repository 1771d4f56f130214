package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"

	"github.com/joho/godotenv"
)

// GetEnv loads .env (if any) and fills Config from the environment. A field
// without envDefault must be set.
func GetEnv() (config *Config, er error) {
	err := godotenv.Load()
	if err != nil {
		_ = godotenv.Load("../../.env")
	}

	config = &Config{}
	if er = load(config); er != nil {
		return nil, er
	}

	if !config.AppEnv.IsValid() {
		return nil, fmt.Errorf("invalid value for APP_ENV: %q", config.AppEnv)
	}
	if !config.MpesaEnv.IsValid() {
		return nil, fmt.Errorf("invalid value for MPESA_ENV: %q", config.MpesaEnv)
	}
	return config, nil
}

func load(target any) error {
	v := reflect.ValueOf(target).Elem()
	t := v.Type()

	for i := range make([]struct{}, v.NumField()) {
		field := t.Field(i)
		envTag := field.Tag.Get("env")
		if envTag == "" {
			continue
		}

		value, exists := os.LookupEnv(envTag)
		if !exists {
			def, hasDefault := field.Tag.Lookup("envDefault")
			if !hasDefault {
				return fmt.Errorf("environment variable %s not set", envTag)
			}
			value = def
		}

		switch field.Type.Kind() {
		case reflect.String:
			v.Field(i).SetString(value)
		case reflect.Int:
			intValue, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %v", envTag, err)
			}
			v.Field(i).SetInt(int64(intValue))
		case reflect.Bool:
			boolValue, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid boolean value for %s: %v", envTag, err)
			}
			v.Field(i).SetBool(boolValue)
		default:
			return fmt.Errorf("unsupported kind %s for %s", field.Type.Kind(), envTag)
		}
	}

	return nil
}
