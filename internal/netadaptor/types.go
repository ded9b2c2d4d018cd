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

// Package netadaptor owns, generates, persists, and manipulates a
// collection of CNI-style bridge network configurations, allocates
// conflict-free subnets/bridge names/gateways, and attaches or detaches
// container network namespaces to those networks through a pluggable
// CNI invoker.
package netadaptor

import "sync"

const (
	// CurrentCNIVersion is the cniVersion written into every conflist
	// this package produces.
	CurrentCNIVersion = "0.4.0"
	// NativeConfigPrefix marks the conflist files this package owns;
	// files in the config directory without this prefix are ignored.
	NativeConfigPrefix = "isulanet-"
	// DNSDomainName is the domainName field of the dnsname plugin.
	DNSDomainName = "isulanet.local"
	// BridgeNamePrefix is the literal string suffix in an allocated
	// bridge name; see FindBridgeName for the (intentional) ordering.
	BridgeNamePrefix = "isula-br"
	// MaxBridgeAttempts bounds FindBridgeName's search.
	MaxBridgeAttempts = 1024
	// MaxNetworkConfigFileCount is the hard cap on conflist files a
	// store will load during Init.
	MaxNetworkConfigFileCount = 4096

	// ConfigDirectoryMode is the mode used when the config directory
	// must be created.
	ConfigDirectoryMode = 0o750
	// ConfigFileMode is the mode every conflist file is written with.
	ConfigFileMode = 0o644

	driverBridge  = "bridge"
	driverMacvlan = "macvlan"

	pluginTypeBridge   = "bridge"
	pluginTypePortmap  = "portmap"
	pluginTypeFirewall = "firewall"
	pluginTypeDNSName  = "dnsname"

	ipamTypeHostLocal = "host-local"
	defaultRoute      = "0.0.0.0/0"
)

// NetConfList is a CNI configuration list: a named, versioned, ordered
// sequence of plugin configurations.
type NetConfList struct {
	CNIVersion string   `json:"cniVersion"`
	Name       string   `json:"name"`
	Plugins    []Plugin `json:"plugins"`
}

// Plugin is one entry of a NetConfList. Only the fields relevant to its
// Type are populated; json `omitempty` keeps the serialized form
// bit-exact with the CNI spec for each plugin kind.
type Plugin struct {
	Type string `json:"type"`

	// bridge-only
	Bridge      string `json:"bridge,omitempty"`
	IsGateway   bool   `json:"isGateway,omitempty"`
	IPMasq      bool   `json:"ipMasq,omitempty"`
	HairpinMode bool   `json:"hairpinMode,omitempty"`
	IPAM        *IPAM  `json:"ipam,omitempty"`

	// dnsname-only
	DomainName string `json:"domainName,omitempty"`

	// portmap/dnsname
	Capabilities map[string]bool `json:"capabilities,omitempty"`
}

// IPAM is the bridge plugin's host-local address-management block.
type IPAM struct {
	Type   string        `json:"type"`
	Routes []Route       `json:"routes"`
	Ranges [][]IPAMRange `json:"ranges"`
}

// Route is one IPAM route entry.
type Route struct {
	Dst string `json:"dst"`
}

// IPAMRange is one entry of an IPAM range; the builder always populates
// exactly one range with one entry.
type IPAMRange struct {
	Subnet  string `json:"subnet"`
	Gateway string `json:"gateway,omitempty"`
}

// CreateRequest is the input to BuildConflist / Store.Create.
type CreateRequest struct {
	Name     string
	Driver   string
	Subnet   string
	Gateway  string
	Internal bool
}

// ApiConf is the input to Attach/Detach: the sandbox identity plus the
// set of networks to join.
type ApiConf struct {
	PodID       string
	NetnsPath   string
	Args        map[string]string
	Annotations map[string]string
	Extras      []NetworkAttachment
}

// NetworkAttachment names one (network, interface) pair to attach or detach.
type NetworkAttachment struct {
	NetworkName string
	Interface   string
}

// ApiResult is one parsed CNI result tagged with the (network, interface)
// pair it came from.
type ApiResult struct {
	NetworkName string
	Interface   string
	IPs         []string
	Gateway     string
}

// RemoveResult carries non-fatal warnings accumulated while removing a
// network (bridge-interface removal and file deletion are both
// best-effort; neither aborts the map-entry drop).
type RemoveResult struct {
	Warnings []string
}

// Filter narrows Store.List to networks matching Name and/or Plugin
// (any plugin type present in the conflist).
type Filter struct {
	Name   string
	Plugin string
}

// NetworkRecord owns one NetConfList, the exact JSON bytes that produced
// it, and the ordered (duplicates tolerated) list of attached container
// IDs, guarded by its own reader-writer lock.
type NetworkRecord struct {
	mu          sync.RWMutex
	Conflist    *NetConfList
	Bytes       []byte
	Containers  []string
	FilePath    string
	missingMsg  string
}

func newNetworkRecord(conf *NetConfList, raw []byte, path string, missingMsg string) *NetworkRecord {
	return &NetworkRecord{
		Conflist:   conf,
		Bytes:      raw,
		FilePath:   path,
		missingMsg: missingMsg,
	}
}

// MissingPluginWarning returns the literal WARN message recorded when
// this network was created with one or more plugin binaries absent, or
// "" if none were missing.
func (r *NetworkRecord) MissingPluginWarning() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.missingMsg
}

func (r *NetworkRecord) containerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Containers)
}

func (r *NetworkRecord) appendContainer(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Containers = append(r.Containers, id)
}

// removeFirstContainer removes the first exact match of id from the
// container list, tolerating duplicates by removing only one occurrence.
func (r *NetworkRecord) removeFirstContainer(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.Containers {
		if c == id {
			r.Containers = append(r.Containers[:i], r.Containers[i+1:]...)
			return
		}
	}
}

func (r *NetworkRecord) snapshotContainers() []string {
	return r.Snapshot()
}

// Snapshot returns a copy of the attached container list, safe to read
// concurrently with Attach/Detach. Callers outside this package (the CLI's
// list/inspect commands) must use this instead of reading Containers directly.
func (r *NetworkRecord) Snapshot() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.Containers))
	copy(out, r.Containers)
	return out
}

func bridgePlugin(conf *NetConfList) *Plugin {
	for i := range conf.Plugins {
		if conf.Plugins[i].Type == pluginTypeBridge {
			return &conf.Plugins[i]
		}
	}
	return nil
}
