// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/alvinbaena/pwd-meter/internal/util"
	"github.com/alvinbaena/pwd-meter/pkg/hibp"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	AnalysisURL     string        `mapstructure:"ANALYSIS_URL" validate:"omitempty,url"`
	AnalysisTimeout time.Duration `mapstructure:"ANALYSIS_TIMEOUT" validate:"gt=0"`
	BreachURL       string        `mapstructure:"BREACH_URL" validate:"required,url"`
	BreachTimeout   time.Duration `mapstructure:"BREACH_TIMEOUT" validate:"gt=0"`
	BreachRate      float64       `mapstructure:"BREACH_RATE" validate:"gte=0"`
	BreachDisabled  bool          `mapstructure:"BREACH_DISABLED"`
	CacheMaxCost    int64         `mapstructure:"CACHE_MAX_COST" validate:"gte=0"`
	HistoryBackend  string        `mapstructure:"HISTORY_BACKEND" validate:"oneof=file sqlite memory"`
	HistoryPath     string        `mapstructure:"HISTORY_PATH" validate:"required_unless=HistoryBackend memory"`
	WordsetFile     string        `mapstructure:"WORDSET_FILE"`
	Port            uint16        `mapstructure:"PORT" validate:"required"`
	SelfTLS         bool          `mapstructure:"SELF_TLS"`
	TLSCert         string        `mapstructure:"TLS_CERT" validate:"required_with=TLSKey"`
	TLSKey          string        `mapstructure:"TLS_KEY" validate:"required_with=TLSCert"`
	Debug           bool          `mapstructure:"DEBUG"`
}

func defaults(v *viper.Viper) {
	dir := ".pwdmeter"
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".pwdmeter")
	}

	v.SetDefault("ANALYSIS_TIMEOUT", 5*time.Second)
	v.SetDefault("BREACH_URL", hibp.DefaultRangeURL)
	v.SetDefault("BREACH_TIMEOUT", 5*time.Second)
	v.SetDefault("BREACH_RATE", 10)
	v.SetDefault("CACHE_MAX_COST", 0)
	v.SetDefault("HISTORY_BACKEND", "file")
	v.SetDefault("HISTORY_PATH", dir)
	v.SetDefault("PORT", 3100)
}

func bindEnvs(v *viper.Viper, iface interface{}, parts ...string) {
	ifv := reflect.ValueOf(iface)
	ift := reflect.TypeOf(iface)
	for i := 0; i < ift.NumField(); i++ {
		fv := ifv.Field(i)
		t := ift.Field(i)
		tv, ok := t.Tag.Lookup("mapstructure")
		if !ok {
			continue
		}
		switch fv.Kind() {
		case reflect.Struct:
			bindEnvs(v, fv.Interface(), append(parts, tv)...)
		default:
			_ = v.BindEnv(strings.Join(append(parts, tv), "."))
		}
	}
}

func msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "required_unless":
		return fmt.Sprintf("This field is required unless %s", util.ToScreamingSnakeCase(fe.Param()))
	case "required_with":
		return fmt.Sprintf("This is field requires the presence of %s", util.ToScreamingSnakeCase(fe.Param()))
	case "oneof":
		return fmt.Sprintf("This field must be one of [%s]", fe.Param())
	case "url":
		return "This field must be a valid URL"
	case "gt":
		return fmt.Sprintf("This field must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("This field must be at least %s", fe.Param())
	}
	return fe.Error() // default error
}

// Load reads the configuration from the environment. Variables in envFiles (".env" when
// none are given) are loaded first when the files exist; they never override the real
// environment.
func Load(envFiles ...string) (config Config, err error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err = godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return config, fmt.Errorf("error loading %s: %w", f, err)
		}
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	defaults(v)

	// This is to not require a config file to unmarshal Envs in a struct
	// https://github.com/spf13/viper/issues/188#issuecomment-399884438
	config = Config{}
	bindEnvs(v, config)

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("error reading configuration: %w", err)
	}

	validate := validator.New()
	if err = validate.Struct(&config); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			var msgs []string
			for _, fe := range ve {
				msgs = append(msgs, fmt.Sprintf("%s: %s", util.ToScreamingSnakeCase(fe.Field()), msgForTag(fe)))
			}

			return config, fmt.Errorf("invalid configuration: %s", strings.Join(msgs, ". "))
		}
		return config, fmt.Errorf("error validating configuration from environment: %w", err)
	}

	log.Debug().Msgf("configuration loaded, history backend %s", config.HistoryBackend)
	return config, nil
}
