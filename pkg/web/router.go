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
	"crypto/subtle"
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/imagecanvas/canvasd/pkg/log"
	"github.com/imagecanvas/canvasd/pkg/web/controller"
	"github.com/imagecanvas/canvasd/pkg/web/model"
)

// Frontend selects how the web UI itself is served. DevURL wins over DistDir.
type Frontend struct {
	DevURL  string
	DistDir string
}

// NewRouter builds a Gin engine with the bridge routes. listenHost is the
// configured bind host, accepted in Host headers next to the loopback names.
// Call controller.InitBridge and controller.InitScope before serving requests.
func NewRouter(accessToken, listenHost string, frontend Frontend) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(hostMiddleware(listenHost))
	r.Use(gin.Recovery())
	r.Use(logMiddleware())

	r.GET("/ping", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	api := r.Group("", accessTokenMiddleware(accessToken))
	{
		api.GET("/commands", withInvoke(func(c *controller.InvokeController) { c.ListCommands() }))
		api.POST("/invoke/:command", withInvoke(func(c *controller.InvokeController) { c.Invoke() }))
		api.GET("/ipc", func(ctx *gin.Context) { controller.NewIPCController(ctx).Serve() })
		api.GET("/metrics", func(ctx *gin.Context) { controller.NewMetricController(ctx).GetMetrics() })
		api.GET("/asset", func(ctx *gin.Context) { controller.NewAssetController(ctx).ServeAsset() })
	}

	switch {
	case frontend.DevURL != "":
		proxy, err := DevServerProxy(frontend.DevURL)
		if err != nil {
			return nil, err
		}
		r.NoRoute(tokenCookieMiddleware(accessToken), proxy)
	case frontend.DistDir != "":
		r.NoRoute(tokenCookieMiddleware(accessToken), StaticFrontend(frontend.DistDir))
	}

	return r, nil
}

func withInvoke(fn func(*controller.InvokeController)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		fn(controller.NewInvokeController(ctx))
	}
}

// hostMiddleware rejects requests whose Host is not a loopback name or the
// configured listen host, so a rebound DNS name cannot reach the bridge.
func hostMiddleware(listenHost string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !allowedHost(ctx.Request.Host, listenHost) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, model.ErrorResponse{
				Code:    model.ErrorCodeForbiddenHost,
				Message: "Forbidden: host " + ctx.Request.Host + " is not allowed",
			})
			return
		}
		ctx.Next()
	}
}

func allowedHost(hostport, listenHost string) bool {
	host := hostport
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		host = h
	}
	host = strings.ToLower(strings.Trim(host, "[]"))
	if host == "" {
		return false
	}
	if host == "localhost" {
		return true
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return true
	}

	listen := strings.ToLower(strings.Trim(listenHost, "[]"))
	if listen == "" || host != listen {
		return false
	}
	// wildcard bind addresses are not host names
	ip := net.ParseIP(listen)
	return ip == nil || !ip.IsUnspecified()
}

// tokenCookieMiddleware hands the token to the webview. The launch URL
// carries it once as a query parameter; later fetches, images and websockets
// from the same page send it back as a strict same-site cookie.
func tokenCookieMiddleware(token string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if token != "" && tokenMatches(ctx.Query(model.ApiAccessTokenQuery), token) {
			ctx.SetSameSite(http.SameSiteStrictMode)
			ctx.SetCookie(model.ApiAccessTokenCookie, token, 0, "/", "", false, true)
		}
		ctx.Next()
	}
}

func tokenMatches(requested, token string) bool {
	return requested != "" && subtle.ConstantTimeCompare([]byte(requested), []byte(token)) == 1
}

// accessTokenMiddleware accepts the token as a header, as a query parameter
// for websocket clients that cannot set headers, or as the cookie issued to
// the front-end.
func accessTokenMiddleware(token string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if token == "" {
			ctx.Next()
			return
		}

		requestedToken := ctx.GetHeader(model.ApiAccessTokenHeader)
		if requestedToken == "" {
			requestedToken = ctx.Query(model.ApiAccessTokenQuery)
		}
		if requestedToken == "" {
			requestedToken, _ = ctx.Cookie(model.ApiAccessTokenCookie)
		}
		if !tokenMatches(requestedToken, token) {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{
				Code:    model.ErrorCodeUnauthorized,
				Message: "Unauthorized: invalid or missing header " + model.ApiAccessTokenHeader,
			})
			return
		}

		ctx.Next()
	}
}

func logMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()
		log.Debug("Requested: %v - %v -> %d", ctx.Request.Method, ctx.Request.URL.Path, ctx.Writer.Status())
	}
}
