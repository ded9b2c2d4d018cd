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
)

// Attach runs attach_loopback first, then for each extras[i] in order:
// looks up the record (missing is fatal), invokes the CNI add with
// annotations set only on the first extra, and appends podID to the
// record's container list. The whole call holds the store lock in
// shared mode; only the per-record membership mutation after each CNI
// call takes an exclusive per-record lock (see registry.go, types.go).
// Any fatal step aborts immediately; membership mutations already made
// earlier in the same call are not rolled back — callers must Detach to
// unwind.
func (s *Store) Attach(ctx context.Context, conf ApiConf) ([]ApiResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.invoker.AttachLoopback(ctx, conf.PodID, conf.NetnsPath); err != nil {
		return nil, err
	}

	results := make([]ApiResult, 0, len(conf.Extras))
	for idx, extra := range conf.Extras {
		rec, ok := s.records[extra.NetworkName]
		if !ok {
			return results, newError(NotFound, fmt.Sprintf("No such network %s", extra.NetworkName))
		}

		manager := CniManager{
			ID:        conf.PodID,
			NetnsPath: conf.NetnsPath,
			Args:      conf.Args,
			IfName:    extra.Interface,
		}
		if idx == 0 {
			manager.Annotations = conf.Annotations
		}

		res, err := s.invoker.Add(ctx, manager, rec.Conflist)
		if err != nil {
			return results, err
		}
		res.NetworkName = extra.NetworkName
		results = append(results, *res)

		rec.appendContainer(conf.PodID)
	}

	return results, nil
}

// Detach is symmetric with Attach except a missing network is ignored
// (best-effort) and the container-ID entry is removed whether or not the
// CNI delete succeeded for that network.
func (s *Store) Detach(ctx context.Context, conf ApiConf) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.invoker.DetachLoopback(ctx, conf.PodID, conf.NetnsPath); err != nil {
		return err
	}

	for idx, extra := range conf.Extras {
		rec, ok := s.records[extra.NetworkName]
		if !ok {
			s.logger.WarnContext(ctx, "detach: ignoring unknown network", "network", extra.NetworkName)
			continue
		}

		manager := CniManager{
			ID:        conf.PodID,
			NetnsPath: conf.NetnsPath,
			Args:      conf.Args,
			IfName:    extra.Interface,
		}
		if idx == 0 {
			manager.Annotations = conf.Annotations
		}

		if err := s.invoker.Del(ctx, manager, rec.Conflist); err != nil {
			s.logger.WarnContext(ctx, "detach: cni del failed, removing membership anyway", "network", extra.NetworkName, "error", err)
		}

		rec.removeFirstContainer(conf.PodID)
	}

	return nil
}
