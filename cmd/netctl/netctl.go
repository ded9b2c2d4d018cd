// Copyright 2025 Emiliano Spinella (eminwux)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package netctl builds the root cobra command for the isulanet CLI, the
// same way cmd/kuke/kuke.go builds kukeon's root command.
package netctl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	attachcmd "github.com/eminwux/isulanet/cmd/netctl/attach"
	autocompletecmd "github.com/eminwux/isulanet/cmd/netctl/autocomplete"
	createcmd "github.com/eminwux/isulanet/cmd/netctl/create"
	detachcmd "github.com/eminwux/isulanet/cmd/netctl/detach"
	inspectcmd "github.com/eminwux/isulanet/cmd/netctl/inspect"
	listcmd "github.com/eminwux/isulanet/cmd/netctl/list"
	removecmd "github.com/eminwux/isulanet/cmd/netctl/remove"
	versioncmd "github.com/eminwux/isulanet/cmd/netctl/version"

	"github.com/eminwux/isulanet/cmd/config"
	"github.com/eminwux/isulanet/cmd/types"
	"github.com/eminwux/isulanet/internal/errdefs"
	"github.com/eminwux/isulanet/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type ConfigLoader interface {
	LoadConfig() error
}

// MockConfigLoaderKey is used to inject mock config loaders in tests via context.
type MockConfigLoaderKey struct{}

// NewNetctlCmd builds the "netctl" root command: persistent flags for the
// CNI runtime locations every subcommand needs, logging setup, and the
// create/list/inspect/remove/attach/detach/autocomplete/version subtree.
func NewNetctlCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "netctl",
		Short: "netctl manages isulanet CNI bridge networks",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var logger *slog.Logger
			if viper.GetBool(config.ISULANET_ROOT_VERBOSE.ViperKey) {
				logLevel := viper.GetString(config.ISULANET_ROOT_LOG_LEVEL.ViperKey)
				if logLevel == "" {
					logLevel = "info"
				}
				logger = logging.New(os.Stderr, logging.ParseLevel(logLevel))
			} else {
				logger = logging.NewNoopLogger()
			}

			ctx := context.WithValue(cmd.Context(), types.CtxLogger, logger)
			cmd.SetContext(ctx)

			var loader ConfigLoader
			if mockLoader, ok := cmd.Context().Value(MockConfigLoaderKey{}).(ConfigLoader); ok {
				loader = mockLoader
			} else {
				loader = &realConfigLoader{}
			}

			if err := loader.LoadConfig(); err != nil {
				logger.DebugContext(cmd.Context(), "config error", "error", err)
				return fmt.Errorf("%w: %w", errdefs.ErrConfig, err)
			}
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	if err := SetupNetctlCmd(cmd); err != nil {
		return nil, fmt.Errorf("failed to setup netctl command: %w", err)
	}

	return cmd, nil
}

// SetupNetctlCmd wires every subcommand and persistent flag onto rootCmd.
// Split out from NewNetctlCmd so tests can assemble a root command without
// re-running PersistentPreRunE's logging/config setup.
func SetupNetctlCmd(rootCmd *cobra.Command) error {
	rootCmd.AddCommand(createcmd.NewCreateCmd())
	rootCmd.AddCommand(listcmd.NewListCmd())
	rootCmd.AddCommand(inspectcmd.NewInspectCmd())
	rootCmd.AddCommand(removecmd.NewRemoveCmd())
	rootCmd.AddCommand(attachcmd.NewAttachCmd())
	rootCmd.AddCommand(detachcmd.NewDetachCmd())
	rootCmd.AddCommand(autocompletecmd.NewAutocompleteCmd())
	rootCmd.AddCommand(versioncmd.NewVersionCmd())

	if err := setPersistentFlags(rootCmd); err != nil {
		return err
	}

	return nil
}

func setPersistentFlags(rootCmd *cobra.Command) error {
	rootCmd.PersistentFlags().String("conf-dir", "/opt/cni/net.d", "CNI configuration directory")
	if err := viper.BindPFlag(config.ISULANET_ROOT_CONF_DIR.ViperKey, rootCmd.PersistentFlags().Lookup("conf-dir")); err != nil {
		return err
	}

	rootCmd.PersistentFlags().String("bin-path", "/opt/cni/bin", "Colon-separated CNI plugin binary search path")
	if err := viper.BindPFlag(config.ISULANET_ROOT_BIN_PATH.ViperKey, rootCmd.PersistentFlags().Lookup("bin-path")); err != nil {
		return err
	}

	rootCmd.PersistentFlags().String("cache-dir", "/var/lib/cni/cache", "CNI result cache directory")
	if err := viper.BindPFlag(config.ISULANET_ROOT_CACHE_DIR.ViperKey, rootCmd.PersistentFlags().Lookup("cache-dir")); err != nil {
		return err
	}

	rootCmd.PersistentFlags().
		String("config", "/etc/isulanet/config.yaml", "config file (default is /etc/isulanet/config.yaml)")
	if err := viper.BindPFlag(config.ISULANET_ROOT_CONFIG_FILE.ViperKey, rootCmd.PersistentFlags().Lookup("config")); err != nil {
		return err
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	if err := viper.BindPFlag(config.ISULANET_ROOT_VERBOSE.ViperKey, rootCmd.PersistentFlags().Lookup("verbose")); err != nil {
		return err
	}

	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	if err := viper.BindPFlag(config.ISULANET_ROOT_LOG_LEVEL.ViperKey, rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		return err
	}

	return nil
}

type realConfigLoader struct{}

func (r *realConfigLoader) LoadConfig() error {
	return loadConfig()
}

func loadConfig() error {
	_ = config.ISULANET_ROOT_CONFIG_FILE.BindEnv()
	configFile := viper.GetString(config.ISULANET_ROOT_CONFIG_FILE.ViperKey)
	if configFile == "" {
		configFile = config.DefaultConfigFile()
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(filepath.Dir(configFile))
	} else {
		viper.SetConfigFile(configFile)
	}
	_ = config.ISULANET_ROOT_CONF_DIR.BindEnv()
	_ = config.ISULANET_ROOT_BIN_PATH.BindEnv()
	_ = config.ISULANET_ROOT_CACHE_DIR.BindEnv()
	_ = config.ISULANET_ROOT_LOG_LEVEL.BindEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %w", errdefs.ErrConfig, err)
		}
	}

	return nil
}

// LoadConfig is a public wrapper, mirroring kuke's exported LoadConfig.
func LoadConfig() error {
	return loadConfig()
}
