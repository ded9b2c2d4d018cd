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
	"log/slog"
	"net"
	"strconv"
)

// privateStripe is one contiguous /24-sliced RFC 1918 range walked in
// order by FindSubnet.
type privateStripe struct {
	begin string
	end   string
}

// privateStripes is walked in this exact order: 192.168/16 first (most
// specific, least likely to collide with a corporate network), then
// 172.16/12, then 10/8 — matching the native allocator's documented table.
var privateStripes = []privateStripe{
	{begin: "192.168.0.0/24", end: "192.168.255.0/24"},
	{begin: "172.16.0.0/24", end: "172.31.255.0/24"},
	{begin: "10.0.0.0/24", end: "10.255.255.0/24"},
}

// FindBridgeName returns the first unused bridge name of the form
// "<N>isula-br" for N in [0, MaxBridgeAttempts). The number-before-prefix
// concatenation order is intentional (see SPEC_FULL.md / DESIGN.md "Open
// Question decisions"): it must be preserved for on-disk compatibility
// with names already written by earlier callers of this allocator.
// Fails with Exhausted after MaxBridgeAttempts misses.
func FindBridgeName(existingNetworkNames, existingBridgeNames, hostInterfaceNames []string) (string, error) {
	taken := make(map[string]struct{}, len(existingNetworkNames)+len(existingBridgeNames)+len(hostInterfaceNames))
	for _, n := range existingNetworkNames {
		taken[n] = struct{}{}
	}
	for _, n := range existingBridgeNames {
		taken[n] = struct{}{}
	}
	for _, n := range hostInterfaceNames {
		taken[n] = struct{}{}
	}

	for i := 0; i < MaxBridgeAttempts; i++ {
		name := strconv.Itoa(i) + BridgeNamePrefix
		if _, used := taken[name]; !used {
			return name, nil
		}
	}
	return "", newError(Exhausted, "no free bridge name")
}

// FindSubnet walks the private stripe table looking for the first
// candidate /24 the conflict engine reports Available. Fails with
// Exhausted once the last stripe's end has been tried.
func FindSubnet(ctx context.Context, logger *slog.Logger, existingCIDRs, hostIPs []string) (IpNet, error) {
	for _, stripe := range privateStripes {
		begin, err := ParseCIDR(stripe.begin)
		if err != nil {
			return IpNet{}, wrapError(Internal, "malformed private stripe table", err)
		}
		end, err := ParseCIDR(stripe.end)
		if err != nil {
			return IpNet{}, wrapError(Internal, "malformed private stripe table", err)
		}

		candidate := begin
		for {
			avail, cerr := CheckSubnetAvailable(ctx, logger, candidate.Format(), existingCIDRs, hostIPs)
			if cerr != nil {
				return IpNet{}, cerr
			}
			if avail == Available {
				return candidate, nil
			}
			if candidate.IP.Equal(end.IP) {
				break
			}
			candidate = IpNet{IP: incrementBySpan(candidate.IP, candidate.Mask), Mask: candidate.Mask}
		}
	}
	return IpNet{}, newError(Exhausted, "no free private subnet")
}

// FindGateway derives the first host address of subnet (network address
// with the low octet set to 1). Fails with Exhausted if the mask leaves
// no host room (mask's last byte already 0xff).
func FindGateway(subnet IpNet) (net.IP, error) {
	if subnet.Mask[len(subnet.Mask)-1] == 0xff {
		return nil, newError(Exhausted, "no available gateway in "+subnet.Format())
	}
	gw := make(net.IP, len(subnet.IP))
	copy(gw, subnet.NetworkAddress())
	gw[len(gw)-1] |= 0x01
	return gw, nil
}
