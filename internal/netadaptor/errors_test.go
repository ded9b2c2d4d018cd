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
	"errors"
	"testing"
)

func TestErrorWrapsAndUnwraps(t *testing.T) {
	cause := errors.New("boom")
	err := wrapError(IoError, "write failed", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to find the wrapped cause")
	}
	if KindOf(err) != IoError {
		t.Fatalf("Kind = %v, want IoError", KindOf(err))
	}
}

func TestKindOfNonNetadaptorError(t *testing.T) {
	if KindOf(errors.New("plain")) != Internal {
		t.Fatal("expected KindOf to default to Internal for a non-*Error")
	}
}
