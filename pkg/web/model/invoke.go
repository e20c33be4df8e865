// Copyright 2025 Alibaba Group Holding Ltd.
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

package model

import "encoding/json"

const (
	ApiAccessTokenHeader = "X-Canvasd-Access-Token"
	ApiAccessTokenQuery  = "access_token"
	ApiAccessTokenCookie = "canvasd_token"
	InvocationIDHeader   = "X-Invocation-Id"
)

// InvokeResponse is returned by POST /invoke/:command on success.
type InvokeResponse struct {
	ID   string `json:"id"`
	Data any    `json:"data"`
}

// IPCRequest is one frame sent by the front-end over /ipc.
type IPCRequest struct {
	ID      string          `json:"id"`
	Command string          `json:"cmd"`
	Args    json.RawMessage `json:"args,omitempty"`
}

// IPCResponse answers an IPCRequest with the same ID. Responses are not
// ordered relative to requests.
type IPCResponse struct {
	ID      string         `json:"id"`
	Command string         `json:"cmd,omitempty"`
	Data    any            `json:"data"`
	Error   *ErrorResponse `json:"error,omitempty"`
}

// CommandList is returned by GET /commands.
type CommandList struct {
	Commands []string `json:"commands"`
}
