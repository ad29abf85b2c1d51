/*
Copyright 2025 Piotr Janik.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package config loads the CLI settings from a YAML file and COGNITO_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/cogniteo/cognito-auth/pkg/cognito"
)

// EnvPrefix is prepended to every setting when read from the environment
const EnvPrefix = "COGNITO"

// Settings holds the CLI configuration
type Settings struct {
	Cognito     cognito.Config `mapstructure:",squash"`
	SessionFile string         `mapstructure:"session_file"`
	Development bool           `mapstructure:"development"`
}

var keys = []string{
	"user_pool_id",
	"client_id",
	"client_secret",
	"region",
	"identity_pool_id",
	"session_file",
	"development",
}

// DefaultConfigDir returns ~/.config/cognito-auth
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "cognito-auth")
	}
	return filepath.Join(home, ".config", "cognito-auth")
}

// Load reads settings from path, or from config.yaml in DefaultConfigDir when
// path is empty. A missing default file is not an error. Environment
// variables (COGNITO_USER_POOL_ID, ...) override file values.
func Load(path string) (*Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	v.SetDefault("session_file", filepath.Join(DefaultConfigDir(), "session.yaml"))
	v.SetDefault("development", false)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultConfigDir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return settings, nil
}
