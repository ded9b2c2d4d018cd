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
	"log/slog"
	"strings"

	"github.com/eminwux/isulanet/cmd/types"
	"github.com/eminwux/isulanet/internal/errdefs"
	"github.com/eminwux/isulanet/internal/netadaptor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeFromCmd builds a read-only netadaptor.Store from the command context,
// loading whatever is already on disk under --conf-dir. This duplicates
// cmd/netctl/shared's store construction to avoid an import cycle, the same
// way controllerFromCmd once did for the realm/space/stack tree.
func storeFromCmd(cmd *cobra.Command) (*netadaptor.Store, error) {
	logger, ok := cmd.Context().Value(types.CtxLogger).(*slog.Logger)
	if !ok || logger == nil {
		return nil, errdefs.ErrLoggerNotFound
	}

	confDir := viper.GetString(ISULANET_ROOT_CONF_DIR.ViperKey)
	binPath := viper.GetString(ISULANET_ROOT_BIN_PATH.ViperKey)

	store := netadaptor.NewStore(logger, confDir, strings.Split(binPath, ":"), nil)
	if err := store.Init(cmd.Context()); err != nil {
		return nil, err
	}
	return store, nil
}

// CompleteNetworkNames provides shell completion for network names by
// listing whatever is already persisted under --conf-dir.
func CompleteNetworkNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) >= 1 && toComplete == "" {
		return []string{}, cobra.ShellCompDirectiveNoFileComp
	}

	store, err := storeFromCmd(cmd)
	if err != nil {
		return []string{}, cobra.ShellCompDirectiveNoFileComp
	}

	records := store.List(netadaptor.Filter{})

	seen := make(map[string]bool)
	names := make([]string, 0, len(records))
	for _, rec := range records {
		name := rec.Conflist.Name
		if toComplete == "" || strings.HasPrefix(name, toComplete) {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}

	return names, cobra.ShellCompDirectiveNoFileComp
}

// CompleteOutputFormat provides shell completion for output format values (yaml, json, table).
// This function can be used for flag completion in commands that accept output format flags.
func CompleteOutputFormat(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	formats := []string{"yaml", "json", "table"}

	names := make([]string, 0, len(formats))
	for _, format := range formats {
		if toComplete == "" || strings.HasPrefix(format, toComplete) {
			names = append(names, format)
		}
	}

	return names, cobra.ShellCompDirectiveNoFileComp
}
