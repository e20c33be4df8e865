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

package flag

import "time"

var (
	// ServerHost is the listen address. The bridge is meant for the local
	// webview only, so it binds to loopback by default.
	ServerHost string

	// ServerPort controls the HTTP listener port.
	ServerPort int

	// ServerLogLevel controls the server log verbosity.
	ServerLogLevel int

	// ServerAccessToken guards API entrypoints. A random token is generated
	// at startup when none is configured.
	ServerAccessToken string

	// AccessTokenGenerated reports that ServerAccessToken was generated and
	// has to be handed to the webview at launch.
	AccessTokenGenerated bool

	// FilesystemScope lists glob patterns the file commands may touch.
	// Empty means unrestricted.
	FilesystemScope []string

	// DevServerURL proxies the front-end from a development server.
	DevServerURL string

	// DistDir serves a built front-end from disk.
	DistDir string

	// ApiGracefulShutdownTimeout bounds how long in-flight calls may finish on exit.
	ApiGracefulShutdownTimeout time.Duration
)
