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
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	libcni "github.com/containernetworking/cni/libcni"
)

// writeConflistFile serializes conf and writes it to <confDir>/<prefix><name>.conflist,
// creating confDir if absent. Fails with InvalidArgument (no clobber) if
// the target already exists; otherwise writes atomically (temp file in the
// same dir, fsync, hard link into place), mirroring the technique in
// the teacher's metadata writer but with no-clobber instead of overwrite
// semantics.
func writeConflistFile(ctx context.Context, logger *slog.Logger, confDir string, conf *NetConfList) (string, []byte, error) {
	raw, err := json.MarshalIndent(conf, "", "  ")
	if err != nil {
		return "", nil, wrapError(Internal, "marshal conflist", err)
	}

	path := filepath.Join(confDir, NativeConfigPrefix+conf.Name+".conflist")

	if _, statErr := os.Stat(path); statErr == nil {
		return "", nil, newError(InvalidArgument, fmt.Sprintf("conflist file %s already exists", path))
	} else if !errors.Is(statErr, os.ErrNotExist) {
		return "", nil, wrapError(IoError, "stat conflist file", statErr)
	}

	if mkErr := os.MkdirAll(confDir, ConfigDirectoryMode); mkErr != nil {
		return "", nil, wrapError(IoError, "create config directory", mkErr)
	}

	if err := atomicWriteNoClobber(path, raw, ConfigFileMode); err != nil {
		return "", nil, err
	}

	if err := verifyConflistRoundTrip(raw, conf); err != nil {
		return "", nil, err
	}

	logger.InfoContext(ctx, "wrote conflist", "path", path, "name", conf.Name)
	return path, raw, nil
}

// verifyConflistRoundTrip re-parses raw through libcni.ConfListFromBytes,
// the same entry point loadConflistDir uses to read a conflist back off
// disk, and checks the result decodes to a NetConfList structurally equal
// to conf — the invariant that a record's cached bytes and its in-memory
// conflist never diverge (spec.md §8: "JSON-decode(R.bytes) structurally
// equals R.conflist").
func verifyConflistRoundTrip(raw []byte, conf *NetConfList) error {
	confList, err := libcni.ConfListFromBytes(raw)
	if err != nil {
		return wrapError(Internal, "round-trip parse written conflist", err)
	}
	decoded, err := decodeConfList(confList.Bytes)
	if err != nil {
		return wrapError(Internal, "round-trip decode written conflist", err)
	}
	if !reflect.DeepEqual(decoded, conf) {
		return newError(Internal, "written conflist does not round-trip to the in-memory conflist")
	}
	return nil
}

// atomicWriteNoClobber writes data to a temp file beside path, fsyncs,
// then links it into place so a concurrent writer targeting the same
// path fails instead of clobbering. The temp file is always cleaned up.
func atomicWriteNoClobber(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".isulanet-*.tmp")
	if err != nil {
		return wrapError(IoError, "create temp conflist file", err)
	}
	tmp := f.Name()
	defer func() {
		_ = f.Close()
		_ = os.Remove(tmp)
	}()

	if err := f.Chmod(mode); err != nil {
		return wrapError(IoError, "chmod temp conflist file", err)
	}
	if _, err := f.Write(data); err != nil {
		return wrapError(IoError, "write temp conflist file", err)
	}
	if err := f.Sync(); err != nil {
		return wrapError(IoError, "fsync temp conflist file", err)
	}
	if err := f.Close(); err != nil {
		return wrapError(IoError, "close temp conflist file", err)
	}

	if err := os.Link(tmp, path); err != nil {
		if errors.Is(err, os.ErrExist) {
			return newError(InvalidArgument, fmt.Sprintf("conflist file %s already exists", path))
		}
		return wrapError(IoError, "link temp conflist file", err)
	}
	if d, openErr := os.Open(dir); openErr == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}

// deleteConflistFile removes the on-disk conflist for path, tolerating a
// file that is already gone.
func deleteConflistFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return wrapError(IoError, "delete conflist file "+path, err)
	}
	return nil
}

// loadConflistDir scans confDir for files beginning with NativeConfigPrefix,
// parses each via libcni, and returns them keyed by network name. Parse
// failures are logged and skipped. A later duplicate name is logged and
// ignored, keeping the first one seen (directory order is sorted by
// filename for determinism). Exceeding MaxNetworkConfigFileCount is a
// fatal Internal error.
func loadConflistDir(ctx context.Context, logger *slog.Logger, confDir string) (map[string]*NetworkRecord, error) {
	records := make(map[string]*NetworkRecord)

	entries, err := os.ReadDir(confDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return records, nil
		}
		return nil, wrapError(IoError, "read config directory", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), NativeConfigPrefix) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	if len(names) > MaxNetworkConfigFileCount {
		return nil, newError(Internal, fmt.Sprintf("config directory has more than %d conflist files", MaxNetworkConfigFileCount))
	}

	for _, fname := range names {
		path := filepath.Join(confDir, fname)
		confList, err := libcni.ConfListFromFile(path)
		if err != nil {
			logger.WarnContext(ctx, "skipping unparsable conflist", "path", path, "error", err)
			continue
		}

		conf, err := decodeConfList(confList.Bytes)
		if err != nil {
			logger.WarnContext(ctx, "skipping unparsable conflist", "path", path, "error", err)
			continue
		}

		if _, dup := records[conf.Name]; dup {
			logger.WarnContext(ctx, "ignoring duplicate network name on load", "name", conf.Name, "path", path)
			continue
		}

		records[conf.Name] = newNetworkRecord(conf, confList.Bytes, path, "")
	}

	return records, nil
}

// decodeConfList parses raw bytes into this package's own NetConfList.
// Invalid JSON or an empty name is a ParseError.
func decodeConfList(raw []byte) (*NetConfList, error) {
	var conf NetConfList
	if err := json.Unmarshal(raw, &conf); err != nil {
		return nil, wrapError(ParseError, "decode conflist json", err)
	}
	if conf.Name == "" {
		return nil, newError(ParseError, "conflist missing name")
	}
	return &conf, nil
}
