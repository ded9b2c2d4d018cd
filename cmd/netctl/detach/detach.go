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

package detach

import (
	"context"
	"errors"
	"strings"

	"github.com/eminwux/isulanet/cmd/config"
	"github.com/eminwux/isulanet/cmd/netctl/shared"
	"github.com/eminwux/isulanet/internal/netadaptor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type detacher interface {
	Detach(ctx context.Context, conf netadaptor.ApiConf) error
}

// MockStoreKey is used to inject a mock detacher in tests via context.
type MockStoreKey struct{}

func NewDetachCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "detach <pod-id>",
		Short:         "Detach a sandbox network namespace from one or more networks",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			podID := strings.TrimSpace(args[0])
			netnsPath := viper.GetString(config.ISULANET_ATTACH_NETNS_PATH.ViperKey)
			networks := viper.GetString(config.ISULANET_ATTACH_NETWORKS.ViperKey)

			extras, err := shared.ParseNetworks(networks)
			if err != nil {
				return err
			}
			if len(extras) == 0 {
				return errors.New("--network is required at least once")
			}

			var store detacher
			if mockStore, ok := cmd.Context().Value(MockStoreKey{}).(detacher); ok {
				store = mockStore
			} else {
				realStore, err := shared.StoreFromCmd(cmd)
				if err != nil {
					return err
				}
				store = realStore
			}

			if err := store.Detach(cmd.Context(), netadaptor.ApiConf{
				PodID:     podID,
				NetnsPath: netnsPath,
				Extras:    extras,
			}); err != nil {
				return err
			}

			cmd.Printf("pod %q detached\n", podID)
			return nil
		},
	}

	cmd.Flags().String("netns", "", "Network namespace path")
	_ = viper.BindPFlag(config.ISULANET_ATTACH_NETNS_PATH.ViperKey, cmd.Flags().Lookup("netns"))

	cmd.Flags().
		String("network", "", "Comma-separated network/interface pairs, e.g. net1/eth0,net2/eth1")
	_ = viper.BindPFlag(config.ISULANET_ATTACH_NETWORKS.ViperKey, cmd.Flags().Lookup("network"))

	return cmd
}
