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

import "net"

// InterfaceNames returns the link-layer interface names present on the
// host. Fails with IoError if OS enumeration fails.
func InterfaceNames() ([]string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, wrapError(IoError, "enumerate host interfaces", err)
	}
	names := make([]string, 0, len(ifaces))
	for _, iface := range ifaces {
		names = append(names, iface.Name)
	}
	return names, nil
}

// HostAddresses returns every IPv4 and IPv6 address bound to any
// interface, as canonical strings. Fails with IoError if OS enumeration
// fails. Neither InterfaceNames nor HostAddresses caches between calls.
func HostAddresses() ([]string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, wrapError(IoError, "enumerate host interfaces", err)
	}
	var addrs []string
	for _, iface := range ifaces {
		ifaceAddrs, aerr := iface.Addrs()
		if aerr != nil {
			return nil, wrapError(IoError, "enumerate addresses for "+iface.Name, aerr)
		}
		for _, a := range ifaceAddrs {
			ipnet, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			addrs = append(addrs, ipnet.IP.String())
		}
	}
	return addrs, nil
}
