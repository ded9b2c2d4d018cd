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
	"log/slog"
	"sync"
)

// Store is the process-wide registry: a name-to-NetworkRecord map guarded
// by a single reader-writer lock, plus the on-disk config directory and
// plugin search paths every record is built against. Construct with
// NewStore, call Init once before any other operation, and hold the
// instance for the process lifetime (or a test's temp-dir lifetime).
type Store struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	confDir  string
	binPaths []string
	invoker  CniInvoker
	records  map[string]*NetworkRecord
}

// NewStore builds an uninitialized Store. Call Init before using it.
func NewStore(logger *slog.Logger, confDir string, binPaths []string, invoker CniInvoker) *Store {
	return &Store{
		logger:   logger,
		confDir:  confDir,
		binPaths: binPaths,
		invoker:  invoker,
		records:  make(map[string]*NetworkRecord),
	}
}

// Init loads every conflist already on disk in the config directory.
// Must run before any other Store operation.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := loadConflistDir(ctx, s.logger, s.confDir)
	if err != nil {
		return err
	}

	// The conflict engine is not re-run across loaded records (see
	// DESIGN.md Open Question decisions); overlaps are only logged.
	seen := make([]IpNet, 0, len(records))
	for name, rec := range records {
		bp := bridgePlugin(rec.Conflist)
		if bp == nil || bp.IPAM == nil || len(bp.IPAM.Ranges) == 0 || len(bp.IPAM.Ranges[0]) == 0 {
			continue
		}
		subnet, perr := ParseCIDR(bp.IPAM.Ranges[0][0].Subnet)
		if perr != nil {
			s.logger.WarnContext(ctx, "loaded record has unparsable subnet", "name", name, "error", perr)
			continue
		}
		for _, prior := range seen {
			if Overlap(subnet, prior) {
				s.logger.WarnContext(ctx, "loaded records advertise overlapping subnets", "name", name)
			}
		}
		seen = append(seen, subnet)
	}

	s.records = records
	return nil
}

// Ready reports whether the store holds at least one network.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records) > 0
}

// Exists reports whether name is a known network.
func (s *Store) Exists(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[name]
	return ok
}

// Inspect returns the record for name, or NotFound.
func (s *Store) Inspect(name string) (*NetworkRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[name]
	if !ok {
		return nil, newError(NotFound, fmt.Sprintf("No such network %s", name))
	}
	return rec, nil
}

// List returns every record matching filter (zero value matches
// everything). Filter.Plugin matches if any plugin in the conflist has
// that type.
func (s *Store) List(filter Filter) []*NetworkRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*NetworkRecord, 0, len(s.records))
	for name, rec := range s.records {
		if filter.Name != "" && filter.Name != name {
			continue
		}
		if filter.Plugin != "" && !hasPluginType(rec.Conflist, filter.Plugin) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func hasPluginType(conf *NetConfList, pluginType string) bool {
	for _, p := range conf.Plugins {
		if p.Type == pluginType {
			return true
		}
	}
	return false
}

// Create builds a conflist for req, writes it to disk, and inserts it
// into the registry, all under the store's exclusive lock.
func (s *Store) Create(ctx context.Context, req CreateRequest) (*NetworkRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hostIfaces, err := InterfaceNames()
	if err != nil {
		return nil, err
	}
	hostIPs, err := HostAddresses()
	if err != nil {
		return nil, err
	}

	in := BuildInputs{
		ExistingNetworkNames: s.networkNamesLocked(),
		ExistingBridgeNames:  s.bridgeNamesLocked(),
		HostInterfaceNames:   hostIfaces,
		ExistingCIDRs:        s.existingCIDRsLocked(),
		HostIPs:              hostIPs,
		BinPaths:             s.binPaths,
	}

	conf, _, warning, err := BuildConflist(ctx, s.logger, req, in)
	if err != nil {
		return nil, err
	}

	path, raw, err := writeConflistFile(ctx, s.logger, s.confDir, conf)
	if err != nil {
		return nil, err
	}

	rec := newNetworkRecord(conf, raw, path, warning)
	s.records[conf.Name] = rec
	return rec, nil
}

func (s *Store) networkNamesLocked() []string {
	names := make([]string, 0, len(s.records))
	for name := range s.records {
		names = append(names, name)
	}
	return names
}

func (s *Store) bridgeNamesLocked() []string {
	var names []string
	for _, rec := range s.records {
		if bp := bridgePlugin(rec.Conflist); bp != nil {
			names = append(names, bp.Bridge)
		}
	}
	return names
}

func (s *Store) existingCIDRsLocked() []string {
	var cidrs []string
	for _, rec := range s.records {
		bp := bridgePlugin(rec.Conflist)
		if bp == nil || bp.IPAM == nil || len(bp.IPAM.Ranges) == 0 || len(bp.IPAM.Ranges[0]) == 0 {
			continue
		}
		cidrs = append(cidrs, bp.IPAM.Ranges[0][0].Subnet)
	}
	return cidrs
}
