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

package inspect

import (
	"strings"

	"github.com/eminwux/isulanet/cmd/netctl/shared"
	"github.com/eminwux/isulanet/internal/netadaptor"
	"github.com/spf13/cobra"
)

type inspector interface {
	Inspect(name string) (*netadaptor.NetworkRecord, error)
}

// MockStoreKey is used to inject a mock inspector in tests via context.
type MockStoreKey struct{}

func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "inspect <name>",
		Short:         "Show the conflist and container membership of one network",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])

			var store inspector
			if mockStore, ok := cmd.Context().Value(MockStoreKey{}).(inspector); ok {
				store = mockStore
			} else {
				realStore, err := shared.StoreFromCmd(cmd)
				if err != nil {
					return err
				}
				store = realStore
			}

			rec, err := store.Inspect(name)
			if err != nil {
				return err
			}

			outputFormat, err := shared.ParseOutputFormat(cmd)
			if err != nil {
				return err
			}

			switch outputFormat {
			case shared.OutputFormatYAML:
				return shared.PrintYAML(rec.Conflist)
			case shared.OutputFormatJSON:
				return shared.PrintJSON(rec.Conflist)
			default:
				printHuman(cmd, rec)
				return nil
			}
		},
	}

	cmd.Flags().StringP("output", "o", "", "Output format (yaml, json, table)")

	return cmd
}

func printHuman(cmd *cobra.Command, rec *netadaptor.NetworkRecord) {
	cmd.Printf("name:       %s\n", rec.Conflist.Name)
	cmd.Printf("cniVersion: %s\n", rec.Conflist.CNIVersion)
	cmd.Printf("file:       %s\n", rec.FilePath)

	for _, p := range rec.Conflist.Plugins {
		cmd.Printf("plugin:     %s\n", p.Type)
		if p.Type == "bridge" {
			cmd.Printf("  bridge:      %s\n", p.Bridge)
			cmd.Printf("  isGateway:   %t\n", p.IsGateway)
			cmd.Printf("  ipMasq:      %t\n", p.IPMasq)
			cmd.Printf("  hairpinMode: %t\n", p.HairpinMode)
			if p.IPAM != nil {
				for _, rangeSet := range p.IPAM.Ranges {
					for _, r := range rangeSet {
						cmd.Printf("  subnet:      %s\n", r.Subnet)
						cmd.Printf("  gateway:     %s\n", r.Gateway)
					}
				}
			}
		}
	}

	containers := rec.Snapshot()
	if len(containers) == 0 {
		cmd.Println("containers: (none)")
		return
	}
	cmd.Printf("containers: %s\n", strings.Join(containers, ", "))
	if warn := rec.MissingPluginWarning(); warn != "" {
		cmd.Println(warn)
	}
}
