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

package remove

import (
	"context"
	"strings"

	"github.com/eminwux/isulanet/cmd/netctl/shared"
	"github.com/eminwux/isulanet/internal/netadaptor"
	"github.com/spf13/cobra"
)

type remover interface {
	Remove(ctx context.Context, name string) (*netadaptor.RemoveResult, error)
}

// MockStoreKey is used to inject a mock remover in tests via context.
type MockStoreKey struct{}

func NewRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "remove <name>",
		Aliases:       []string{"rm"},
		Short:         "Remove a CNI network",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])

			var store remover
			if mockStore, ok := cmd.Context().Value(MockStoreKey{}).(remover); ok {
				store = mockStore
			} else {
				realStore, err := shared.StoreFromCmd(cmd)
				if err != nil {
					return err
				}
				store = realStore
			}

			result, err := store.Remove(cmd.Context(), name)
			if err != nil {
				return err
			}

			cmd.Printf("network %q removed\n", name)
			for _, warn := range result.Warnings {
				cmd.Println("WARN:" + warn)
			}
			return nil
		},
	}

	return cmd
}
