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

	libcni "github.com/containernetworking/cni/libcni"
	cnitypes "github.com/containernetworking/cni/pkg/types"
	current "github.com/containernetworking/cni/pkg/types/100"
)

// CniManager is the per-call identity and interface binding passed to the
// external CNI invoker, generalized from the teacher's single
// containerID+netnsPath pair to the network+interface loop Attach/Detach
// drives.
type CniManager struct {
	ID          string
	NetnsPath   string
	Args        map[string]string
	Annotations map[string]string
	IfName      string
}

// CniInvoker is the external collaborator that runs CNI plugins against a
// manager and a conflist. spec.md treats this as an abstract interface
// available from the surrounding daemon; LibcniInvoker is this module's
// concrete, libcni-backed implementation of it.
type CniInvoker interface {
	Add(ctx context.Context, manager CniManager, conf *NetConfList) (*ApiResult, error)
	Del(ctx context.Context, manager CniManager, conf *NetConfList) error
	AttachLoopback(ctx context.Context, podID, netnsPath string) error
	DetachLoopback(ctx context.Context, podID, netnsPath string) error
}

// LibcniInvoker drives github.com/containernetworking/cni/libcni the way
// internal/cni's Manager does, generalized from one fixed network to an
// arbitrary conflist passed in on each call.
type LibcniInvoker struct {
	cni      libcni.CNI
	loopback *libcni.NetworkConfigList
}

// NewLibcniInvoker builds a LibcniInvoker rooted at binDir/cacheDir,
// exactly as internal/cni.NewManager configures libcni.CNI.
func NewLibcniInvoker(binDir, cacheDir string) (*LibcniInvoker, error) {
	cniConf := libcni.NewCNIConfigWithCacheDir([]string{binDir}, cacheDir, nil)

	loopbackJSON, err := json.Marshal(&NetConfList{
		CNIVersion: CurrentCNIVersion,
		Name:       "loopback",
		Plugins:    []Plugin{{Type: "loopback"}},
	})
	if err != nil {
		return nil, wrapError(Internal, "marshal loopback conflist", err)
	}
	loopback, err := libcni.ConfListFromBytes(loopbackJSON)
	if err != nil {
		return nil, wrapError(Internal, "parse loopback conflist", err)
	}

	return &LibcniInvoker{cni: cniConf, loopback: loopback}, nil
}

func (i *LibcniInvoker) Add(ctx context.Context, manager CniManager, conf *NetConfList) (*ApiResult, error) {
	netConfList, err := toLibcniConfList(conf)
	if err != nil {
		return nil, err
	}
	res, err := i.cni.AddNetworkList(ctx, netConfList, toRuntimeConf(manager))
	if err != nil {
		return nil, wrapError(PluginError, "cni add "+conf.Name, err)
	}
	return parseApiResult(manager.IfName, res)
}

func (i *LibcniInvoker) Del(ctx context.Context, manager CniManager, conf *NetConfList) error {
	netConfList, err := toLibcniConfList(conf)
	if err != nil {
		return err
	}
	if err := i.cni.DelNetworkList(ctx, netConfList, toRuntimeConf(manager)); err != nil {
		return wrapError(PluginError, "cni del "+conf.Name, err)
	}
	return nil
}

func (i *LibcniInvoker) AttachLoopback(ctx context.Context, podID, netnsPath string) error {
	rt := toRuntimeConf(CniManager{ID: podID, NetnsPath: netnsPath, IfName: "lo"})
	if _, err := i.cni.AddNetworkList(ctx, i.loopback, rt); err != nil {
		return wrapError(PluginError, "cni add loopback", err)
	}
	return nil
}

func (i *LibcniInvoker) DetachLoopback(ctx context.Context, podID, netnsPath string) error {
	rt := toRuntimeConf(CniManager{ID: podID, NetnsPath: netnsPath, IfName: "lo"})
	if err := i.cni.DelNetworkList(ctx, i.loopback, rt); err != nil {
		return wrapError(PluginError, "cni del loopback", err)
	}
	return nil
}

func toRuntimeConf(manager CniManager) *libcni.RuntimeConf {
	rt := &libcni.RuntimeConf{
		ContainerID: manager.ID,
		NetNS:       manager.NetnsPath,
		IfName:      manager.IfName,
	}
	for k, v := range manager.Args {
		rt.Args = append(rt.Args, [2]string{k, v})
	}
	if len(manager.Annotations) > 0 {
		rt.CapabilityArgs = map[string]interface{}{"annotations": manager.Annotations}
	}
	return rt
}

func toLibcniConfList(conf *NetConfList) (*libcni.NetworkConfigList, error) {
	raw, err := json.Marshal(conf)
	if err != nil {
		return nil, wrapError(Internal, "marshal conflist for invocation", err)
	}
	netConfList, err := libcni.ConfListFromBytes(raw)
	if err != nil {
		return nil, wrapError(Internal, "parse conflist for invocation", err)
	}
	return netConfList, nil
}

// parseApiResult converts libcni's CNI result type into this package's
// ApiResult, mirroring network_parse_to_api_result in the original C.
func parseApiResult(ifName string, res cnitypes.Result) (*ApiResult, error) {
	result, err := current.GetResult(res)
	if err != nil {
		return nil, wrapError(PluginError, "decode cni result", err)
	}

	out := &ApiResult{Interface: ifName}
	for _, ip := range result.IPs {
		out.IPs = append(out.IPs, ip.Address.String())
		if out.Gateway == "" && ip.Gateway != nil {
			out.Gateway = ip.Gateway.String()
		}
	}
	return out, nil
}
