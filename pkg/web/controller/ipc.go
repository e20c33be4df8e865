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

package controller

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/imagecanvas/canvasd/pkg/bridge"
	"github.com/imagecanvas/canvasd/pkg/log"
	"github.com/imagecanvas/canvasd/pkg/util/safego"
	"github.com/imagecanvas/canvasd/pkg/web/model"
)

// the default origin check only admits pages served by this backend
var upgrader = websocket.Upgrader{
	ReadBufferSize:  64 << 10,
	WriteBufferSize: 64 << 10,
}

// IPCController multiplexes invocations over one websocket connection.
type IPCController struct {
	*basicController

	writeMu sync.Mutex
	conn    *websocket.Conn
}

func NewIPCController(ctx *gin.Context) *IPCController {
	return &IPCController{basicController: newBasicController(ctx)}
}

// Serve upgrades the request and dispatches every frame as its own task.
// It returns once the peer disconnects and all pending invocations replied.
func (c *IPCController) Serve() {
	conn, err := upgrader.Upgrade(c.ctx.Writer, c.ctx.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		log.Warn("ipc upgrade failed: %v", err)
		return
	}
	c.conn = conn
	conn.SetReadLimit(maxArgsBytes)
	defer conn.Close()

	ctx := c.ctx.Request.Context()
	var pending sync.WaitGroup
	defer pending.Wait()

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("ipc connection closed unexpectedly: %v", err)
			}
			return
		}

		var req model.IPCRequest
		if err := json.Unmarshal(frame, &req); err != nil {
			c.reply(model.IPCResponse{Error: &model.ErrorResponse{
				Code:    model.ErrorCodeInvalidRequest,
				Message: fmt.Sprintf("invalid ipc frame. %v", err),
			}})
			continue
		}

		pending.Add(1)
		safego.Go(func() {
			defer pending.Done()
			res := commandRegistry.Invoke(ctx, bridge.Invocation{ID: req.ID, Command: req.Command, Args: req.Args})
			resp := model.IPCResponse{ID: res.ID, Command: res.Command, Data: res.Data}
			if res.Err != nil {
				resp.Error = errorResponse(res.Err)
			}
			c.reply(resp)
		})
	}
}

func (c *IPCController) reply(resp model.IPCResponse) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.WriteJSON(resp); err != nil {
		log.Error("ipc write response %s error: %v", resp.ID, err)
	}
}
