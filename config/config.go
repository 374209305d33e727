// Package config adds support for loading configuration from multiple yaml files,
// overridden by environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"

	log "github.com/sirupsen/logrus"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/imdario/mergo"
	"gopkg.in/yaml.v2"
)

var ErrNoConfigFiles = errors.New("no configuration files provided")

// LoadConfiguration parses the provided yaml files in order and deep merges
// them into target, values from later files overriding earlier ones.
func LoadConfiguration(configFiles []string, target interface{}) error {
	if len(configFiles) == 0 {
		return ErrNoConfigFiles
	}
	for _, configFilePath := range configFiles {
		log.WithFields(log.Fields{"File": configFilePath}).Info("Parsing config file")
		rawContent, err := os.ReadFile(configFilePath)
		if err != nil {
			return fmt.Errorf("read config file %s: %w", configFilePath, err)
		}
		cfg := newZeroFor(target)
		err = yaml.UnmarshalStrict(rawContent, cfg)
		if err != nil {
			return fmt.Errorf("parse config file %s: %w", configFilePath, err)
		}
		err = mergo.Merge(target, cfg, mergo.WithOverride)
		if err != nil {
			return fmt.Errorf("merge config file %s: %w", configFilePath, err)
		}

	}
	return nil
}

// When loading YAML we need a zero value of a specific type in order to drive the parsing, but YAML parser does not
// support deep merging (it will just override at the top level) - so `mergo` is used.
// WARNING: this will crash if passed and interface value to something other than a pointer
func newZeroFor(target interface{}) interface{} {
	return reflect.New(reflect.TypeOf(target).Elem()).Interface()
}

// LoadEnvironment overrides fields of target tagged with `env` by the
// environment variables that are set. Unset variables leave the field as is.
func LoadEnvironment(target interface{}) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ValidateConfiguration takes (should take) a struct and validates its fields against predefined `validate` tags.
// The underlying validate.Struct method returns two types of errors. validator.InvalidValidationError for when the
// validation breaks, e.g. when a wrong type is passed as the argument. In this case, we wrap
// things with a plain error. The other case are actual validation errors, returned as validator.ValidationErrors.
func ValidateConfiguration(target interface{}) error {
	validate := validator.New()
	err := validate.Struct(target)
	if _, ok := err.(*validator.InvalidValidationError); ok {
		return fmt.Errorf("could not validate input (%v): %v", target, err)
	}
	return err
}

// LoadAndValidateConfiguration loads the yaml files, applies the environment
// overrides and validates the result. Make sure to always check
// for errors returned, certain fields might be loaded while others could fail.
func LoadAndValidateConfiguration(configFiles []string, target interface{}) (err error) {
	err = LoadConfiguration(configFiles, target)
	if err != nil {
		return
	}
	err = LoadEnvironment(target)
	if err != nil {
		return
	}
	err = ValidateConfiguration(target)
	return
}
