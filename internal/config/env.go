package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
)

// applyEnv overrides fields tagged with `env:"NAME"` from the environment.
// Nested structs are walked; untagged fields are left alone.
func applyEnv(cfg *Config) error {
	return populateFromEnv(reflect.ValueOf(cfg).Elem())
}

func populateFromEnv(v reflect.Value) error {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		fieldVal := v.Field(i)
		fieldType := t.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if fieldVal.Kind() == reflect.Struct {
			if err := populateFromEnv(fieldVal); err != nil {
				return err
			}
			continue
		}

		key := fieldType.Tag.Get("env")
		if key == "" || key == "-" {
			continue
		}

		if val, ok := os.LookupEnv(key); ok {
			if err := assign(fieldVal, val); err != nil {
				return fmt.Errorf("parsing %s: %w", key, err)
			}
		}
	}
	return nil
}

func assign(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(parsed)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		parsed, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(parsed)
	case reflect.Float32, reflect.Float64:
		parsed, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(parsed)
	default:
		return fmt.Errorf("unsupported field type %s", field.Type().String())
	}
	return nil
}
