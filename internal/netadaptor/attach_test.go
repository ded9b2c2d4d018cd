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

package netadaptor

import (
	"context"
	"testing"
)

func TestAttachAppendsMembershipAndSetsAnnotationsOnFirstOnly(t *testing.T) {
	s, _ := newTestStore(t)
	fake := &fakeInvoker{}
	s.invoker = fake

	if _, err := s.Create(context.Background(), CreateRequest{Name: "net1"}); err != nil {
		t.Fatalf("Create net1: %v", err)
	}
	if _, err := s.Create(context.Background(), CreateRequest{Name: "net2"}); err != nil {
		t.Fatalf("Create net2: %v", err)
	}

	conf := ApiConf{
		PodID:       "c1",
		NetnsPath:   "/proc/123/ns/net",
		Annotations: map[string]string{"a": "b"},
		Extras: []NetworkAttachment{
			{NetworkName: "net1", Interface: "eth0"},
			{NetworkName: "net2", Interface: "eth1"},
		},
	}

	results, err := s.Attach(context.Background(), conf)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if len(fake.loopbackAttached) != 1 || fake.loopbackAttached[0] != "c1" {
		t.Fatalf("loopbackAttached = %v, want [c1]", fake.loopbackAttached)
	}
	if len(fake.addCalls) != 2 {
		t.Fatalf("len(addCalls) = %d, want 2", len(fake.addCalls))
	}
	if fake.addCalls[0].Annotations == nil {
		t.Fatal("expected annotations set on first extra")
	}
	if fake.addCalls[1].Annotations != nil {
		t.Fatal("expected annotations cleared on subsequent extras")
	}

	rec1, _ := s.Inspect("net1")
	if got := rec1.snapshotContainers(); len(got) != 1 || got[0] != "c1" {
		t.Fatalf("net1 containers = %v, want [c1]", got)
	}
}

func TestAttachFatalOnMissingNetwork(t *testing.T) {
	s, _ := newTestStore(t)
	fake := &fakeInvoker{}
	s.invoker = fake

	conf := ApiConf{
		PodID:     "c1",
		NetnsPath: "/proc/123/ns/net",
		Extras:    []NetworkAttachment{{NetworkName: "ghost", Interface: "eth0"}},
	}
	_, err := s.Attach(context.Background(), conf)
	if err == nil || KindOf(err) != NotFound {
		t.Fatalf("Kind = %v, want NotFound", KindOf(err))
	}
}

func TestDetachIgnoresMissingNetwork(t *testing.T) {
	s, _ := newTestStore(t)
	fake := &fakeInvoker{}
	s.invoker = fake

	if _, err := s.Create(context.Background(), CreateRequest{Name: "net1"}); err != nil {
		t.Fatalf("Create net1: %v", err)
	}
	attachConf := ApiConf{
		PodID:     "c1",
		NetnsPath: "/proc/123/ns/net",
		Extras:    []NetworkAttachment{{NetworkName: "net1", Interface: "eth0"}},
	}
	if _, err := s.Attach(context.Background(), attachConf); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	detachConf := ApiConf{
		PodID:     "c1",
		NetnsPath: "/proc/123/ns/net",
		Extras: []NetworkAttachment{
			{NetworkName: "net1", Interface: "eth0"},
			{NetworkName: "ghost", Interface: "eth1"},
		},
	}
	if err := s.Detach(context.Background(), detachConf); err != nil {
		t.Fatalf("Detach: %v", err)
	}

	rec, _ := s.Inspect("net1")
	if got := rec.snapshotContainers(); len(got) != 0 {
		t.Fatalf("net1 containers = %v, want empty after detach", got)
	}
}

func TestDetachRemovesMembershipEvenOnCniError(t *testing.T) {
	s, _ := newTestStore(t)
	fake := &fakeInvoker{}
	s.invoker = fake

	if _, err := s.Create(context.Background(), CreateRequest{Name: "net1"}); err != nil {
		t.Fatalf("Create net1: %v", err)
	}
	attachConf := ApiConf{
		PodID:     "c1",
		NetnsPath: "/proc/123/ns/net",
		Extras:    []NetworkAttachment{{NetworkName: "net1", Interface: "eth0"}},
	}
	if _, err := s.Attach(context.Background(), attachConf); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	fake.delErr = newError(PluginError, "plugin exploded")
	detachConf := ApiConf{
		PodID:     "c1",
		NetnsPath: "/proc/123/ns/net",
		Extras:    []NetworkAttachment{{NetworkName: "net1", Interface: "eth0"}},
	}
	if err := s.Detach(context.Background(), detachConf); err != nil {
		t.Fatalf("Detach should not propagate a per-network CNI error: %v", err)
	}

	rec, _ := s.Inspect("net1")
	if got := rec.snapshotContainers(); len(got) != 0 {
		t.Fatalf("net1 containers = %v, want empty even though cni del failed", got)
	}
}
