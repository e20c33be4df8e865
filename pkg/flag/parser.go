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

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	stdlog "log"
	"os"
	"strings"
	"time"

	"github.com/imagecanvas/canvasd/pkg/log"
)

const (
	hostEnv                    = "CANVASD_HOST"
	accessTokenEnv             = "CANVASD_ACCESS_TOKEN"
	fsScopeEnv                 = "CANVASD_FS_SCOPE"
	gracefulShutdownTimeoutEnv = "CANVASD_API_GRACE_SHUTDOWN"
)

// InitFlags registers CLI flags and env overrides.
func InitFlags() {
	if err := parse(flag.CommandLine, os.Args[1:], os.Getenv); err != nil {
		stdlog.Panicf("Failed to parse canvasd configuration: %v", err)
	}

	log.Info("Filesystem scope is: %v", FilesystemScope)
	if DevServerURL != "" {
		log.Info("Front-end dev server is: %s", DevServerURL)
	}
}

func parse(fs *flag.FlagSet, args []string, getenv func(string) string) error {
	// Set default values
	ServerHost = "127.0.0.1"
	ServerPort = 44780
	ServerLogLevel = 6
	ServerAccessToken = ""
	AccessTokenGenerated = false
	FilesystemScope = nil
	DevServerURL = ""
	DistDir = ""
	ApiGracefulShutdownTimeout = time.Second * 3

	// Then environment variables
	if host := getenv(hostEnv); host != "" {
		ServerHost = host
	}
	if token := getenv(accessTokenEnv); token != "" {
		ServerAccessToken = token
	}
	scope := getenv(fsScopeEnv)
	if graceShutdownTimeout := getenv(gracefulShutdownTimeoutEnv); graceShutdownTimeout != "" {
		duration, err := time.ParseDuration(graceShutdownTimeout)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", gracefulShutdownTimeoutEnv, err)
		}
		ApiGracefulShutdownTimeout = duration
	}

	// Flags override env
	fs.StringVar(&ServerHost, "host", ServerHost, "Server listening host (default: 127.0.0.1)")
	fs.IntVar(&ServerPort, "port", ServerPort, "Server listening port (default: 44780)")
	fs.IntVar(&ServerLogLevel, "log-level", ServerLogLevel, "Server log level (0=LevelEmergency, 1=LevelAlert, 2=LevelCritical, 3=LevelError, 4=LevelWarning, 5=LevelNotice, 6=LevelInformational, 7=LevelDebug, default: 6)")
	fs.StringVar(&ServerAccessToken, "access-token", ServerAccessToken, "Server access token for API authentication (default: random per start)")
	fs.StringVar(&scope, "fs-scope", scope, "Comma separated glob patterns the file commands may access (default: unrestricted)")
	fs.StringVar(&DevServerURL, "dev-url", DevServerURL, "Front-end development server to proxy, e.g. http://localhost:3000")
	fs.StringVar(&DistDir, "dist-dir", DistDir, "Directory holding the built front-end")
	fs.DurationVar(&ApiGracefulShutdownTimeout, "graceful-shutdown-timeout", ApiGracefulShutdownTimeout, "API graceful shutdown timeout duration (default: 3s)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	FilesystemScope = splitScope(scope)

	if DevServerURL != "" && !strings.HasPrefix(DevServerURL, "http://") && !strings.HasPrefix(DevServerURL, "https://") {
		return fmt.Errorf("invalid dev-url %q: must start with http:// or https://", DevServerURL)
	}
	if ServerPort <= 0 || ServerPort > 65535 {
		return fmt.Errorf("invalid port %d", ServerPort)
	}

	if ServerAccessToken == "" {
		token, err := generateToken()
		if err != nil {
			return fmt.Errorf("generate access token: %w", err)
		}
		ServerAccessToken = token
		AccessTokenGenerated = true
	}
	return nil
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func splitScope(raw string) []string {
	var patterns []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}
