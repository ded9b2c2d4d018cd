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
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func noopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// pluginBinDir creates a temp dir containing one empty, executable file
// per name in names, for PluginBinDetect-driven tests.
func pluginBinDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o755); err != nil {
			t.Fatalf("write plugin stub %s: %v", name, err)
		}
	}
	return dir
}

// fakeInvoker is a hand-written CniInvoker fake for Attach/Detach tests,
// the same seam internal/cni's Manager is substituted through in the
// teacher's own tests.
type fakeInvoker struct {
	addCalls          []CniManager
	delCalls          []CniManager
	loopbackAttached  []string
	loopbackDetached  []string
	addErr            error
	delErr            error
	attachLoopbackErr error
	detachLoopbackErr error
}

func (f *fakeInvoker) Add(_ context.Context, manager CniManager, conf *NetConfList) (*ApiResult, error) {
	f.addCalls = append(f.addCalls, manager)
	if f.addErr != nil {
		return nil, f.addErr
	}
	return &ApiResult{Interface: manager.IfName, IPs: []string{"10.0.0.2/24"}, Gateway: "10.0.0.1"}, nil
}

func (f *fakeInvoker) Del(_ context.Context, manager CniManager, conf *NetConfList) error {
	f.delCalls = append(f.delCalls, manager)
	return f.delErr
}

func (f *fakeInvoker) AttachLoopback(_ context.Context, podID, netnsPath string) error {
	f.loopbackAttached = append(f.loopbackAttached, podID)
	return f.attachLoopbackErr
}

func (f *fakeInvoker) DetachLoopback(_ context.Context, podID, netnsPath string) error {
	f.loopbackDetached = append(f.loopbackDetached, podID)
	return f.detachLoopbackErr
}
