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

package create_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/eminwux/isulanet/cmd/netctl/create"
	"github.com/eminwux/isulanet/internal/netadaptor"
)

type fakeCreator struct {
	rec *netadaptor.NetworkRecord
	err error
}

func (f *fakeCreator) Create(_ context.Context, _ netadaptor.CreateRequest) (*netadaptor.NetworkRecord, error) {
	return f.rec, f.err
}

func TestCreateCmdSuccess(t *testing.T) {
	conf := &netadaptor.NetConfList{Name: "net1"}
	fake := &fakeCreator{rec: &netadaptor.NetworkRecord{Conflist: conf}}

	cmd := create.NewCreateCmd()
	ctx := context.WithValue(context.Background(), create.MockStoreKey{}, interface{}(fake))
	cmd.SetContext(ctx)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"net1"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := out.String(); got == "" {
		t.Errorf("expected output, got none")
	}
}

func TestCreateCmdPropagatesError(t *testing.T) {
	fake := &fakeCreator{err: errors.New("boom")}

	cmd := create.NewCreateCmd()
	ctx := context.WithValue(context.Background(), create.MockStoreKey{}, interface{}(fake))
	cmd.SetContext(ctx)
	cmd.SetArgs([]string{"net1"})
	cmd.SilenceErrors = true

	if err := cmd.Execute(); err == nil {
		t.Fatal("Execute() error = nil, want non-nil")
	}
}
