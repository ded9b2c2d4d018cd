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

package config

import (
	"os"

	"github.com/spf13/viper"
)

// Version is the CLI's reported version string.
const Version = "0.1.0"

type Var struct {
	Key        string // e.g. "ISULANET_RUN_PATH"
	ViperKey   string // optional, e.g. "isulanet.runPath"
	CobraKey   string // optional, e.g. "run-path"
	Default    string // optional
	HasDefault bool
}

func DefineKV(envName, viperKey string, defaultVal ...string) Var {
	v := Var{Key: envName, ViperKey: viperKey}
	if len(defaultVal) > 0 {
		v.Default = defaultVal[0]
		v.HasDefault = true
	}
	return v
}

func Define(envName string, defaultVal ...string) Var {
	return DefineKV(envName, "", defaultVal...)
}

func (v *Var) EnvKey() string               { return v.Key }
func (v *Var) EnvVar() string               { return v.Key }
func (v *Var) DefaultValue() (string, bool) { return v.Default, v.HasDefault }

// ValueOrDefault defines precedence: viper (if ViperKey set and value present) → OS env → default → "".
func (v *Var) ValueOrDefault() string {
	if v.ViperKey != "" && viper.IsSet(v.ViperKey) {
		return viper.GetString(v.ViperKey)
	}
	if val, ok := os.LookupEnv(v.Key); ok {
		return val
	}
	if v.HasDefault {
		return v.Default
	}
	return ""
}

// BindEnv is safe if ViperKey is empty: does nothing.
func (v *Var) BindEnv() error {
	if v.ViperKey == "" {
		return nil
	}
	return viper.BindEnv(v.ViperKey, v.Key)
}

func (v *Var) Set(value string) error {
	return os.Setenv(v.Key, value)
}

func (v *Var) SetDefault(val string) {
	v.Default = val
	v.HasDefault = true
	if v.ViperKey != "" {
		viper.SetDefault(v.ViperKey, val)
	}
}

func KV(v Var, value string) string { return v.Key + "=" + value }

// ---- Declare statically (Viper key optional per var) ----.
var (
	//nolint:revive,gochecknoglobals,staticcheck // ignore linter warning about this variable
	ISULANET_ROOT_VERBOSE = DefineKV("ISULANET_VERBOSE", "isulanet/verbose")
	//nolint:revive,gochecknoglobals,staticcheck // ignore linter warning about this variable
	ISULANET_ROOT_LOG_LEVEL = DefineKV("ISULANET_LOG_LEVEL", "isulanet/logLevel", "info")
	//nolint:revive,gochecknoglobals,staticcheck // ignore linter warning about this variable
	ISULANET_ROOT_CONFIG_FILE = DefineKV("ISULANET_CONFIG_FILE", "isulanet/configFile")

	// CNI runtime locations, shared by every subcommand that needs a Store.
	//nolint:revive,gochecknoglobals,staticcheck // ignore linter warning about this variable
	ISULANET_ROOT_CONF_DIR = DefineKV("ISULANET_CONF_DIR", "isulanet/confDir", "/opt/cni/net.d")
	//nolint:revive,gochecknoglobals,staticcheck // ignore linter warning about this variable
	ISULANET_ROOT_BIN_PATH = DefineKV("ISULANET_BIN_PATH", "isulanet/binPath", "/opt/cni/bin")
	//nolint:revive,gochecknoglobals,staticcheck // ignore linter warning about this variable
	ISULANET_ROOT_CACHE_DIR = DefineKV("ISULANET_CACHE_DIR", "isulanet/cacheDir", "/var/lib/cni/cache")

	// Create command variables
	//nolint:revive,gochecknoglobals,staticcheck // ignore linter warning about this variable
	ISULANET_CREATE_NAME = DefineKV("ISULANET_CREATE_NAME", "isulanet/create/name")
	//nolint:revive,gochecknoglobals,staticcheck // ignore linter warning about this variable
	ISULANET_CREATE_DRIVER = DefineKV("ISULANET_CREATE_DRIVER", "isulanet/create/driver", "bridge")
	//nolint:revive,gochecknoglobals,staticcheck // ignore linter warning about this variable
	ISULANET_CREATE_SUBNET = DefineKV("ISULANET_CREATE_SUBNET", "isulanet/create/subnet")
	//nolint:revive,gochecknoglobals,staticcheck // ignore linter warning about this variable
	ISULANET_CREATE_GATEWAY = DefineKV("ISULANET_CREATE_GATEWAY", "isulanet/create/gateway")
	//nolint:revive,gochecknoglobals,staticcheck // ignore linter warning about this variable
	ISULANET_CREATE_INTERNAL = DefineKV("ISULANET_CREATE_INTERNAL", "isulanet/create/internal")

	// List/inspect command variables
	//nolint:revive,gochecknoglobals,staticcheck // ignore linter warning about this variable
	ISULANET_LIST_NAME_FILTER = DefineKV("ISULANET_LIST_NAME_FILTER", "isulanet/list/name")
	//nolint:revive,gochecknoglobals,staticcheck // ignore linter warning about this variable
	ISULANET_LIST_PLUGIN_FILTER = DefineKV("ISULANET_LIST_PLUGIN_FILTER", "isulanet/list/plugin")
	//nolint:revive,gochecknoglobals,staticcheck // ignore linter warning about this variable
	ISULANET_OUTPUT = DefineKV("ISULANET_OUTPUT", "isulanet/output")

	// Remove command variables
	//nolint:revive,gochecknoglobals,staticcheck // ignore linter warning about this variable
	ISULANET_REMOVE_NAME = DefineKV("ISULANET_REMOVE_NAME", "isulanet/remove/name")

	// Attach/detach command variables
	//nolint:revive,gochecknoglobals,staticcheck // ignore linter warning about this variable
	ISULANET_ATTACH_POD_ID = DefineKV("ISULANET_ATTACH_POD_ID", "isulanet/attach/podID")
	//nolint:revive,gochecknoglobals,staticcheck // ignore linter warning about this variable
	ISULANET_ATTACH_NETNS_PATH = DefineKV("ISULANET_ATTACH_NETNS_PATH", "isulanet/attach/netnsPath")
	//nolint:revive,gochecknoglobals,staticcheck // ignore linter warning about this variable
	ISULANET_ATTACH_NETWORKS = DefineKV("ISULANET_ATTACH_NETWORKS", "isulanet/attach/networks")
)

// DefaultConfigFile is the config file path used when neither --config nor
// ISULANET_CONFIG_FILE is set.
func DefaultConfigFile() string {
	return "/etc/isulanet/config.yaml"
}
