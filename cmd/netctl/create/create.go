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

package create

import (
	"context"
	"strings"

	"github.com/eminwux/isulanet/cmd/config"
	"github.com/eminwux/isulanet/cmd/netctl/shared"
	"github.com/eminwux/isulanet/internal/netadaptor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type creator interface {
	Create(ctx context.Context, req netadaptor.CreateRequest) (*netadaptor.NetworkRecord, error)
}

// MockStoreKey is used to inject a mock creator in tests via context.
type MockStoreKey struct{}

func NewCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "create [name]",
		Short:         "Create a bridge CNI network",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(viper.GetString(config.ISULANET_CREATE_NAME.ViperKey))
			if len(args) > 0 {
				name = strings.TrimSpace(args[0])
			}

			req := netadaptor.CreateRequest{
				Name:     name,
				Driver:   viper.GetString(config.ISULANET_CREATE_DRIVER.ViperKey),
				Subnet:   viper.GetString(config.ISULANET_CREATE_SUBNET.ViperKey),
				Gateway:  viper.GetString(config.ISULANET_CREATE_GATEWAY.ViperKey),
				Internal: viper.GetBool(config.ISULANET_CREATE_INTERNAL.ViperKey),
			}

			var store creator
			if mockStore, ok := cmd.Context().Value(MockStoreKey{}).(creator); ok {
				store = mockStore
			} else {
				realStore, err := shared.StoreFromCmd(cmd)
				if err != nil {
					return err
				}
				store = realStore
			}

			rec, err := store.Create(cmd.Context(), req)
			if err != nil {
				return err
			}

			cmd.Printf("network %q created\n", rec.Conflist.Name)
			if warn := rec.MissingPluginWarning(); warn != "" {
				cmd.Println(warn)
			}
			return nil
		},
	}

	cmd.Flags().String("driver", "bridge", "Network driver (only bridge is supported)")
	_ = viper.BindPFlag(config.ISULANET_CREATE_DRIVER.ViperKey, cmd.Flags().Lookup("driver"))

	cmd.Flags().String("subnet", "", "Subnet in CIDR notation (allocated automatically if omitted)")
	_ = viper.BindPFlag(config.ISULANET_CREATE_SUBNET.ViperKey, cmd.Flags().Lookup("subnet"))

	cmd.Flags().String("gateway", "", "Gateway address (derived from the subnet if omitted)")
	_ = viper.BindPFlag(config.ISULANET_CREATE_GATEWAY.ViperKey, cmd.Flags().Lookup("gateway"))

	cmd.Flags().Bool("internal", false, "Create a network with no outbound NAT/masquerade")
	_ = viper.BindPFlag(config.ISULANET_CREATE_INTERNAL.ViperKey, cmd.Flags().Lookup("internal"))

	return cmd
}
