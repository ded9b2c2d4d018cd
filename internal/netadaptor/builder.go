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
	"strings"
)

// pluginAssemblyOrder is fixed: bridge, portmap, firewall, dnsname.
var pluginAssemblyOrder = []string{pluginTypeBridge, pluginTypePortmap, pluginTypeFirewall, pluginTypeDNSName}

// BuildInputs is the store-derived context BuildConflist needs to run the
// allocators and the conflict engine without depending on *Store directly,
// so the builder can be exercised with hand-built fixtures in tests.
type BuildInputs struct {
	ExistingNetworkNames []string
	ExistingBridgeNames  []string
	HostInterfaceNames   []string
	ExistingCIDRs        []string
	HostIPs              []string
	BinPaths             []string
}

// BuildConflist assembles a conflist for req, running the precheck, the
// bridge/subnet/gateway allocators, and the four-plugin assembly in
// order. It returns the missing non-dnsname plugin types (dnsname is
// silently omitted from the conflist when its binary is absent, and
// never appears in missing) and the literal warning text for them, or ""
// when none are missing.
func BuildConflist(ctx context.Context, logger *slog.Logger, req CreateRequest, in BuildInputs) (*NetConfList, []string, string, error) {
	driver := req.Driver
	if driver == "" {
		driver = driverBridge
	}
	if driver != driverBridge {
		return nil, nil, "", newError(Unsupported, fmt.Sprintf("driver %q is not supported", driver))
	}

	if req.Name != "" {
		for _, existing := range in.ExistingNetworkNames {
			if existing == req.Name {
				return nil, nil, "", newError(InvalidArgument, fmt.Sprintf("Network name %q has been used", req.Name))
			}
		}
	}

	if req.Subnet != "" {
		avail, err := CheckSubnetAvailable(ctx, logger, req.Subnet, in.ExistingCIDRs, in.HostIPs)
		if err != nil {
			return nil, nil, "", err
		}
		if avail == Conflicts {
			return nil, nil, "", newError(InvalidArgument, fmt.Sprintf("subnet %q conflicts with an existing network or host address", req.Subnet))
		}
	}

	bridgeName, err := FindBridgeName(in.ExistingNetworkNames, in.ExistingBridgeNames, in.HostInterfaceNames)
	if err != nil {
		return nil, nil, "", err
	}

	var subnet IpNet
	if req.Subnet != "" {
		subnet, err = ParseCIDR(req.Subnet)
		if err != nil {
			return nil, nil, "", err
		}
		subnet = subnet.Reduce()
	} else {
		subnet, err = FindSubnet(ctx, logger, in.ExistingCIDRs, in.HostIPs)
		if err != nil {
			return nil, nil, "", err
		}
	}

	var gateway string
	if req.Gateway != "" {
		gateway = req.Gateway
	} else {
		gw, gerr := FindGateway(subnet)
		if gerr != nil {
			return nil, nil, "", gerr
		}
		gateway = gw.String()
	}

	plugins := make([]Plugin, 0, len(pluginAssemblyOrder))
	var missing []string
	for _, pluginType := range pluginAssemblyOrder {
		found := PluginBinDetect(in.BinPaths, pluginType)
		if pluginType == pluginTypeDNSName {
			if !found {
				continue
			}
			plugins = append(plugins, dnsnamePlugin())
			continue
		}
		if !found {
			missing = append(missing, pluginType)
		}
		switch pluginType {
		case pluginTypeBridge:
			plugins = append(plugins, bridgePluginConfig(bridgeName, subnet, gateway, req.Internal))
		case pluginTypePortmap:
			plugins = append(plugins, portmapPlugin())
		case pluginTypeFirewall:
			plugins = append(plugins, firewallPlugin())
		}
	}

	name := req.Name
	if name == "" {
		name = bridgeName
	}

	conf := &NetConfList{
		CNIVersion: CurrentCNIVersion,
		Name:       name,
		Plugins:    plugins,
	}

	return conf, missing, formatMissingPluginWarning(missing, in.BinPaths), nil
}

func bridgePluginConfig(bridgeName string, subnet IpNet, gateway string, internal bool) Plugin {
	return Plugin{
		Type:        pluginTypeBridge,
		Bridge:      bridgeName,
		IsGateway:   !internal,
		IPMasq:      !internal,
		HairpinMode: true,
		IPAM: &IPAM{
			Type:   ipamTypeHostLocal,
			Routes: []Route{{Dst: defaultRoute}},
			Ranges: [][]IPAMRange{{{Subnet: subnet.Format(), Gateway: gateway}}},
		},
	}
}

func portmapPlugin() Plugin {
	return Plugin{Type: pluginTypePortmap, Capabilities: map[string]bool{"portMappings": true}}
}

func firewallPlugin() Plugin {
	return Plugin{Type: pluginTypeFirewall}
}

func dnsnamePlugin() Plugin {
	return Plugin{
		Type:         pluginTypeDNSName,
		DomainName:   DNSDomainName,
		Capabilities: map[string]bool{"aliases": true},
	}
}

// formatMissingPluginWarning reproduces set_missing_plugin_err_msg's
// literal format byte-for-byte. Returns "" when missing is empty.
func formatMissingPluginWarning(missing []string, binPaths []string) string {
	if len(missing) == 0 {
		return ""
	}
	return fmt.Sprintf("WARN:cannot find cni plugin %q in dir %q", strings.Join(missing, ","), strings.Join(binPaths, ","))
}
