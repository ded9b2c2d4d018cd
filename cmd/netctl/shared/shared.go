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

// Package shared holds the helpers every cmd/netctl subcommand uses to pull
// a logger and a netadaptor.Store out of a cobra command, plus the output
// formatting every get-like subcommand (list, inspect) shares.
package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/eminwux/isulanet/cmd/config"
	"github.com/eminwux/isulanet/cmd/types"
	"github.com/eminwux/isulanet/internal/errdefs"
	"github.com/eminwux/isulanet/internal/netadaptor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ParseNetworks parses "net1/eth0,net2/eth1" into ordered
// NetworkAttachments, the shape both "attach" and "detach" pass as
// ApiConf.Extras.
func ParseNetworks(spec string) ([]netadaptor.NetworkAttachment, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}

	var out []netadaptor.NetworkAttachment
	for _, pair := range strings.Split(spec, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "/", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("invalid --network entry %q, want name/interface", pair)
		}
		out = append(out, netadaptor.NetworkAttachment{NetworkName: parts[0], Interface: parts[1]})
	}
	return out, nil
}

// LoggerFromCmd extracts the slog logger from the Cobra command context.
func LoggerFromCmd(cmd *cobra.Command) (*slog.Logger, error) {
	logger, ok := cmd.Context().Value(types.CtxLogger).(*slog.Logger)
	if !ok || logger == nil {
		return nil, errdefs.ErrLoggerNotFound
	}
	return logger, nil
}

// StoreFromCmd builds a netadaptor.Store configured with the persistent
// --conf-dir/--bin-path/--cache-dir flags and loads whatever conflists are
// already on disk.
func StoreFromCmd(cmd *cobra.Command) (*netadaptor.Store, error) {
	logger, err := LoggerFromCmd(cmd)
	if err != nil {
		return nil, err
	}

	confDir := viper.GetString(config.ISULANET_ROOT_CONF_DIR.ViperKey)
	binPath := viper.GetString(config.ISULANET_ROOT_BIN_PATH.ViperKey)
	cacheDir := viper.GetString(config.ISULANET_ROOT_CACHE_DIR.ViperKey)
	binPaths := strings.Split(binPath, ":")

	invoker, err := netadaptor.NewLibcniInvoker(binPaths[0], cacheDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errdefs.ErrConfig, err)
	}

	store := netadaptor.NewStore(logger, confDir, binPaths, invoker)
	if err := store.Init(cmd.Context()); err != nil {
		return nil, err
	}
	return store, nil
}

// OutputFormat represents the output format type.
type OutputFormat string

const (
	OutputFormatYAML  OutputFormat = "yaml"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatTable OutputFormat = "table"
)

// ParseOutputFormat parses and validates the --output flag from the command.
func ParseOutputFormat(cmd *cobra.Command) (OutputFormat, error) {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return OutputFormatTable, err
	}
	if output == "" {
		return OutputFormatTable, nil
	}

	format := OutputFormat(strings.ToLower(strings.TrimSpace(output)))
	switch format {
	case OutputFormatYAML, OutputFormatJSON, OutputFormatTable:
		return format, nil
	default:
		return OutputFormatTable, fmt.Errorf("invalid output format: %s (supported: yaml, json, table)", output)
	}
}

// PrintYAML prints the resource as YAML.
func PrintYAML(doc interface{}) error {
	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(2)
	defer encoder.Close()
	return encoder.Encode(doc)
}

// PrintJSON prints the resource as JSON.
func PrintJSON(doc interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

// PrintTable prints resources in a table format.
func PrintTable(cmd *cobra.Command, headers []string, rows [][]string) {
	if len(rows) == 0 {
		cmd.Println("No resources found.")
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var header strings.Builder
	for i, h := range headers {
		if i > 0 {
			header.WriteString("  ")
		}
		header.WriteString(fmt.Sprintf("%-*s", widths[i], h))
	}
	cmd.Println(header.String())

	var separator strings.Builder
	for i, w := range widths {
		if i > 0 {
			separator.WriteString("  ")
		}
		separator.WriteString(strings.Repeat("-", w))
	}
	cmd.Println(separator.String())

	for _, row := range rows {
		var line strings.Builder
		for i, cell := range row {
			if i >= len(widths) {
				continue
			}
			if i > 0 {
				line.WriteString("  ")
			}
			line.WriteString(fmt.Sprintf("%-*s", widths[i], cell))
		}
		cmd.Println(line.String())
	}
}
