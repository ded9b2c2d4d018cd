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

package attach_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/eminwux/isulanet/cmd/netctl/attach"
	"github.com/eminwux/isulanet/internal/netadaptor"
	"github.com/spf13/viper"
)

type fakeAttacher struct {
	gotConf netadaptor.ApiConf
	results []netadaptor.ApiResult
	err     error
}

func (f *fakeAttacher) Attach(_ context.Context, conf netadaptor.ApiConf) ([]netadaptor.ApiResult, error) {
	f.gotConf = conf
	return f.results, f.err
}

func TestAttachCmdParsesNetworksAndPrintsResults(t *testing.T) {
	t.Cleanup(viper.Reset)

	fake := &fakeAttacher{results: []netadaptor.ApiResult{
		{NetworkName: "net1", Interface: "eth0", IPs: []string{"192.168.0.2/24"}, Gateway: "192.168.0.1"},
	}}

	cmd := attach.NewAttachCmd()
	ctx := context.WithValue(context.Background(), attach.MockStoreKey{}, interface{}(fake))
	cmd.SetContext(ctx)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"pod-1", "--netns", "/var/run/netns/pod-1", "--network", "net1/eth0"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if fake.gotConf.PodID != "pod-1" {
		t.Errorf("PodID = %q, want %q", fake.gotConf.PodID, "pod-1")
	}
	if len(fake.gotConf.Extras) != 1 || fake.gotConf.Extras[0].NetworkName != "net1" || fake.gotConf.Extras[0].Interface != "eth0" {
		t.Errorf("Extras = %+v, want one net1/eth0 entry", fake.gotConf.Extras)
	}

	if got := out.String(); !strings.Contains(got, "net1/eth0") || !strings.Contains(got, "192.168.0.1") {
		t.Errorf("output %q missing expected content", got)
	}
}

func TestAttachCmdRequiresAtLeastOneNetwork(t *testing.T) {
	t.Cleanup(viper.Reset)

	fake := &fakeAttacher{}
	cmd := attach.NewAttachCmd()
	ctx := context.WithValue(context.Background(), attach.MockStoreKey{}, interface{}(fake))
	cmd.SetContext(ctx)
	cmd.SilenceErrors = true
	cmd.SetArgs([]string{"pod-1"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("Execute() error = nil, want an error for missing --network")
	}
}

func TestAttachCmdRejectsMalformedNetworkSpec(t *testing.T) {
	t.Cleanup(viper.Reset)

	fake := &fakeAttacher{}
	cmd := attach.NewAttachCmd()
	ctx := context.WithValue(context.Background(), attach.MockStoreKey{}, interface{}(fake))
	cmd.SetContext(ctx)
	cmd.SilenceErrors = true
	cmd.SetArgs([]string{"pod-1", "--network", "net1-without-interface"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("Execute() error = nil, want an error for a malformed --network entry")
	}
}
