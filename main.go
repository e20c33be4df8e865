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

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/imagecanvas/canvasd/pkg/bridge"
	"github.com/imagecanvas/canvasd/pkg/flag"
	"github.com/imagecanvas/canvasd/pkg/log"
	"github.com/imagecanvas/canvasd/pkg/scope"
	"github.com/imagecanvas/canvasd/pkg/util/safego"
	"github.com/imagecanvas/canvasd/pkg/web"
	"github.com/imagecanvas/canvasd/pkg/web/controller"
	"github.com/imagecanvas/canvasd/pkg/web/model"
)

// main registers the bridge commands and runs the canvasd host loop.
func main() {
	flag.InitFlags()

	log.SetLevel(flag.ServerLogLevel)
	defer log.Sync()
	safego.InitPanicLogger(context.Background())

	guard, err := scope.New(flag.FilesystemScope)
	if err != nil {
		fatal(err)
	}
	registry := bridge.NewRegistry()
	bridge.RegisterFileCommands(registry, guard)
	controller.InitBridge(registry)
	controller.InitScope(guard)

	engine, err := web.NewRouter(flag.ServerAccessToken, flag.ServerHost, web.Frontend{
		DevURL:  flag.DevServerURL,
		DistDir: flag.DistDir,
	})
	if err != nil {
		fatal(err)
	}

	server := &http.Server{
		Addr:              net.JoinHostPort(flag.ServerHost, strconv.Itoa(flag.ServerPort)),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = serve(ctx, server, flag.ApiGracefulShutdownTimeout, func(addr net.Addr) {
		log.Info("canvasd listening on %s with commands %v", addr, registry.Names())
		if flag.AccessTokenGenerated {
			// the launcher opens the webview on this URL
			fmt.Printf("CANVASD_URL=%s\n", launchURL(addr, flag.ServerAccessToken))
		}
	})
	if err != nil {
		fatal(err)
	}
}

// serve listens on server.Addr and serves until ctx is done, then shuts the
// server down within shutdownTimeout. Listen and serve failures are returned.
func serve(ctx context.Context, server *http.Server, shutdownTimeout time.Duration, onListen func(net.Addr)) error {
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return err
	}
	if onListen != nil {
		onListen(ln.Addr())
	}

	serveErr := make(chan error, 1)
	safego.Go(func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	})

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("canvasd shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown incomplete: %v", err)
	}
	return nil
}

func launchURL(addr net.Addr, token string) string {
	u := url.URL{Scheme: "http", Host: addr.String(), Path: "/"}
	u.RawQuery = url.Values{model.ApiAccessTokenQuery: {token}}.Encode()
	return u.String()
}

func fatal(err error) {
	log.Error("error while running canvasd application: %v", err)
	log.Sync()
	os.Exit(1)
}
