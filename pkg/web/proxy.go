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

package web

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/imagecanvas/canvasd/pkg/log"
)

// DevServerProxy forwards front-end requests, including the dev server's
// hot-reload websocket, to a local development server.
func DevServerProxy(rawURL string) (gin.HandlerFunc, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid dev server url %q: %w", rawURL, err)
	}
	if target.Scheme != "http" && target.Scheme != "https" {
		return nil, fmt.Errorf("invalid dev server url %q: scheme must be http or https", rawURL)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	// Flush chunks promptly so event streams from the dev server are not buffered.
	proxy.FlushInterval = 200 * time.Millisecond
	proxy.ErrorHandler = func(rw http.ResponseWriter, req *http.Request, err error) {
		log.Error("Dev server proxy error: %v, request: %s %s", err, req.Method, req.RequestURI)
		http.Error(rw, "Bad Gateway", http.StatusBadGateway)
	}

	return func(c *gin.Context) {
		proxy.ServeHTTP(c.Writer, c.Request)
		c.Abort()
	}, nil
}

// StaticFrontend serves the built front-end from dir. Unknown paths without
// an extension fall back to index.html for client-side routing.
func StaticFrontend(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Status(http.StatusNotFound)
			return
		}

		name := path.Clean("/" + c.Request.URL.Path)
		file := filepath.Join(dir, filepath.FromSlash(name))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		if path.Ext(name) != "" && !strings.HasSuffix(name, ".html") {
			c.Status(http.StatusNotFound)
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	}
}
