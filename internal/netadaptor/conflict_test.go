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

func TestCheckSubnetAvailableConflictsOnExistingCIDR(t *testing.T) {
	avail, err := CheckSubnetAvailable(context.Background(), noopLogger(), "10.0.1.0/24", []string{"10.0.0.0/16"}, nil)
	if err != nil {
		t.Fatalf("CheckSubnetAvailable: %v", err)
	}
	if avail != Conflicts {
		t.Fatalf("avail = %v, want Conflicts", avail)
	}
}

func TestCheckSubnetAvailableConflictsOnHostIP(t *testing.T) {
	avail, err := CheckSubnetAvailable(context.Background(), noopLogger(), "10.0.1.0/24", nil, []string{"10.0.1.1"})
	if err != nil {
		t.Fatalf("CheckSubnetAvailable: %v", err)
	}
	if avail != Conflicts {
		t.Fatalf("avail = %v, want Conflicts", avail)
	}
}

func TestCheckSubnetAvailableTrue(t *testing.T) {
	avail, err := CheckSubnetAvailable(context.Background(), noopLogger(), "172.20.0.0/24", []string{"10.0.0.0/16"}, []string{"192.168.1.1"})
	if err != nil {
		t.Fatalf("CheckSubnetAvailable: %v", err)
	}
	if avail != Available {
		t.Fatalf("avail = %v, want Available", avail)
	}
}

func TestCheckSubnetAvailableSkipsMalformedExisting(t *testing.T) {
	avail, err := CheckSubnetAvailable(context.Background(), noopLogger(), "172.20.0.0/24", []string{"not-a-cidr"}, nil)
	if err != nil {
		t.Fatalf("CheckSubnetAvailable: %v", err)
	}
	if avail != Available {
		t.Fatalf("avail = %v, want Available (malformed entries are advisory, not fatal)", avail)
	}
}

func TestCheckSubnetAvailableFatalOnMalformedCandidate(t *testing.T) {
	if _, err := CheckSubnetAvailable(context.Background(), noopLogger(), "garbage", nil, nil); err == nil {
		t.Fatal("expected ParseError for malformed candidate")
	} else if KindOf(err) != ParseError {
		t.Fatalf("Kind = %v, want ParseError", KindOf(err))
	}
}
