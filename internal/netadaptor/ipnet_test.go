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
	"net"
	"testing"
)

func TestParseCIDRFormat(t *testing.T) {
	n, err := ParseCIDR("192.168.2.5/24")
	if err != nil {
		t.Fatalf("ParseCIDR: %v", err)
	}
	if got := n.Format(); got != "192.168.2.5/24" {
		t.Fatalf("Format = %q, want 192.168.2.5/24", got)
	}
}

func TestParseCIDRMalformed(t *testing.T) {
	if _, err := ParseCIDR("not-a-cidr"); err == nil {
		t.Fatal("expected ParseError for malformed CIDR")
	} else if KindOf(err) != ParseError {
		t.Fatalf("Kind = %v, want ParseError", KindOf(err))
	}
}

func TestReduceIsIdempotent(t *testing.T) {
	n, err := ParseCIDR("192.168.2.5/16")
	if err != nil {
		t.Fatalf("ParseCIDR: %v", err)
	}
	reduced := n.Reduce()
	if got := reduced.Format(); got != "192.168.0.0/16" {
		t.Fatalf("Reduce = %q, want 192.168.0.0/16", got)
	}
	twice := reduced.Reduce()
	if twice.Format() != reduced.Format() {
		t.Fatalf("Reduce not idempotent: %q != %q", twice.Format(), reduced.Format())
	}
}

func TestContainsInclusiveExclusive(t *testing.T) {
	n, err := ParseCIDR("10.0.1.0/24")
	if err != nil {
		t.Fatalf("ParseCIDR: %v", err)
	}
	network := net.ParseIP("10.0.1.0")
	broadcast := net.ParseIP("10.0.1.255")
	host := net.ParseIP("10.0.1.5")

	if !n.Contains(network, true) {
		t.Fatal("expected inclusive Contains to accept network address")
	}
	if n.Contains(network, false) {
		t.Fatal("expected exclusive Contains to reject network address")
	}
	if n.Contains(broadcast, false) {
		t.Fatal("expected exclusive Contains to reject broadcast address")
	}
	if !n.Contains(host, false) {
		t.Fatal("expected exclusive Contains to accept a plain host address")
	}
}

func TestOverlap(t *testing.T) {
	a, _ := ParseCIDR("10.0.0.0/16")
	b, _ := ParseCIDR("10.0.1.0/24")
	c, _ := ParseCIDR("10.1.0.0/24")

	if !Overlap(a, b) {
		t.Fatal("expected a and b to overlap")
	}
	if Overlap(a, c) {
		t.Fatal("expected a and c not to overlap")
	}
}

func TestGatewaySubnetRoundTrip(t *testing.T) {
	subnet, err := ParseCIDR("192.168.0.0/24")
	if err != nil {
		t.Fatalf("ParseCIDR: %v", err)
	}
	gw, err := FindGateway(subnet)
	if err != nil {
		t.Fatalf("FindGateway: %v", err)
	}
	if gw.String() != "192.168.0.1" {
		t.Fatalf("gateway = %s, want 192.168.0.1", gw.String())
	}
	if !subnet.Contains(gw, false) {
		t.Fatal("expected gateway to be contained in subnet (exclusive)")
	}
}

func TestFindGatewayExhaustedWhenNoHostRoom(t *testing.T) {
	subnet, err := ParseCIDR("192.168.0.0/32")
	if err != nil {
		t.Fatalf("ParseCIDR: %v", err)
	}
	if _, err := FindGateway(subnet); err == nil {
		t.Fatal("expected Exhausted for a /32 subnet")
	} else if KindOf(err) != Exhausted {
		t.Fatalf("Kind = %v, want Exhausted", KindOf(err))
	}
}
