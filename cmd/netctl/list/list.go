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

package list

import (
	"strconv"

	"github.com/eminwux/isulanet/cmd/config"
	"github.com/eminwux/isulanet/cmd/netctl/shared"
	"github.com/eminwux/isulanet/internal/netadaptor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type lister interface {
	List(filter netadaptor.Filter) []*netadaptor.NetworkRecord
}

// MockStoreKey is used to inject a mock lister in tests via context.
type MockStoreKey struct{}

func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "list",
		Aliases:       []string{"ls"},
		Short:         "List CNI networks",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var store lister
			if mockStore, ok := cmd.Context().Value(MockStoreKey{}).(lister); ok {
				store = mockStore
			} else {
				realStore, err := shared.StoreFromCmd(cmd)
				if err != nil {
					return err
				}
				store = realStore
			}

			outputFormat, err := shared.ParseOutputFormat(cmd)
			if err != nil {
				return err
			}

			filter := netadaptor.Filter{
				Name:   viper.GetString(config.ISULANET_LIST_NAME_FILTER.ViperKey),
				Plugin: viper.GetString(config.ISULANET_LIST_PLUGIN_FILTER.ViperKey),
			}

			records := store.List(filter)
			return printRecords(cmd, records, outputFormat)
		},
	}

	cmd.Flags().String("name", "", "Filter by exact network name")
	_ = viper.BindPFlag(config.ISULANET_LIST_NAME_FILTER.ViperKey, cmd.Flags().Lookup("name"))

	cmd.Flags().String("plugin", "", "Filter by plugin type present in the conflist")
	_ = viper.BindPFlag(config.ISULANET_LIST_PLUGIN_FILTER.ViperKey, cmd.Flags().Lookup("plugin"))

	cmd.Flags().StringP("output", "o", "", "Output format (yaml, json, table)")
	_ = viper.BindPFlag(config.ISULANET_OUTPUT.ViperKey, cmd.Flags().Lookup("output"))

	return cmd
}

func printRecords(cmd *cobra.Command, records []*netadaptor.NetworkRecord, format shared.OutputFormat) error {
	switch format {
	case shared.OutputFormatYAML:
		return shared.PrintYAML(conflistsOf(records))
	case shared.OutputFormatJSON:
		return shared.PrintJSON(conflistsOf(records))
	default:
		headers := []string{"NAME", "BRIDGE", "SUBNET", "CONTAINERS"}
		rows := make([][]string, 0, len(records))
		for _, rec := range records {
			rows = append(rows, []string{
				rec.Conflist.Name,
				bridgeNameOf(rec),
				subnetOf(rec),
				itoaLen(len(rec.Snapshot())),
			})
		}
		shared.PrintTable(cmd, headers, rows)
		return nil
	}
}

func conflistsOf(records []*netadaptor.NetworkRecord) []*netadaptor.NetConfList {
	out := make([]*netadaptor.NetConfList, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.Conflist)
	}
	return out
}

func bridgeNameOf(rec *netadaptor.NetworkRecord) string {
	for _, p := range rec.Conflist.Plugins {
		if p.Bridge != "" {
			return p.Bridge
		}
	}
	return "-"
}

func subnetOf(rec *netadaptor.NetworkRecord) string {
	for _, p := range rec.Conflist.Plugins {
		if p.IPAM == nil {
			continue
		}
		for _, rangeSet := range p.IPAM.Ranges {
			for _, r := range rangeSet {
				if r.Subnet != "" {
					return r.Subnet
				}
			}
		}
	}
	return "-"
}

func itoaLen(n int) string {
	return strconv.Itoa(n)
}
