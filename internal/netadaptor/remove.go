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
	"fmt"
	"os/exec"
)

// Remove deletes network name: a non-empty container list fails fatally
// with InUse. Otherwise, best-effort (1) removes the host bridge
// interface if it exists on the host, (2) deletes the on-disk conflist
// file — both failures are logged and appended as warnings but never
// abort — then (3) the map entry is dropped unconditionally.
func (s *Store) Remove(ctx context.Context, name string) (*RemoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[name]
	if !ok {
		return nil, newError(NotFound, fmt.Sprintf("No such network %s", name))
	}
	if n := rec.containerCount(); n > 0 {
		return nil, newError(InUse, fmt.Sprintf("network %s has connected containers", name))
	}

	result := &RemoveResult{}

	if bp := bridgePlugin(rec.Conflist); bp != nil {
		hostIfaces, err := InterfaceNames()
		if err != nil {
			s.logger.WarnContext(ctx, "failed to enumerate host interfaces for bridge removal", "bridge", bp.Bridge, "error", err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("failed to enumerate host interfaces for bridge removal %s: %v", bp.Bridge, err))
		} else if containsString(hostIfaces, bp.Bridge) {
			if err := removeBridgeInterface(ctx, bp.Bridge); err != nil {
				s.logger.WarnContext(ctx, "failed to remove bridge interface", "bridge", bp.Bridge, "error", err)
				result.Warnings = append(result.Warnings, fmt.Sprintf("failed to remove bridge interface %s: %v", bp.Bridge, err))
			}
		}
	}

	if err := deleteConflistFile(rec.FilePath); err != nil {
		s.logger.WarnContext(ctx, "failed to delete conflist file", "path", rec.FilePath, "error", err)
		result.Warnings = append(result.Warnings, fmt.Sprintf("failed to delete conflist file %s: %v", rec.FilePath, err))
	}

	delete(s.records, name)
	return result, nil
}

func containsString(names []string, target string) bool {
	for _, n := range names {
		if n == target {
			return true
		}
	}
	return false
}

// removeBridgeInterface runs "ip link delete <bridge>". Callers check
// host interface presence first (see Remove) — the original adaptor's
// remove_interface returns silently when the interface was never
// realized, rather than treating "Cannot find device" as a warning.
func removeBridgeInterface(ctx context.Context, bridge string) error {
	cmd := exec.CommandContext(ctx, "ip", "link", "delete", bridge)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%v: %s", err, out)
	}
	return nil
}
