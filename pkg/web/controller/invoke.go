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
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imagecanvas/canvasd/pkg/bridge"
	"github.com/imagecanvas/canvasd/pkg/web/model"
)

// InvokeController serves command invocations over plain HTTP.
type InvokeController struct {
	*basicController
}

func NewInvokeController(ctx *gin.Context) *InvokeController {
	return &InvokeController{basicController: newBasicController(ctx)}
}

// Invoke runs the command named in the path with the JSON body as arguments.
func (c *InvokeController) Invoke() {
	if c.ctx.ContentType() != gin.MIMEJSON {
		c.RespondError(
			http.StatusUnsupportedMediaType,
			model.ErrorCodeInvalidRequest,
			fmt.Sprintf("content type must be %s", gin.MIMEJSON),
		)
		return
	}

	body, err := c.readBody()
	if err != nil {
		c.RespondError(
			http.StatusBadRequest,
			model.ErrorCodeInvalidRequest,
			fmt.Sprintf("error reading request body. %v", err),
		)
		return
	}

	res := commandRegistry.Invoke(c.ctx.Request.Context(), bridge.Invocation{
		ID:      c.ctx.GetHeader(model.InvocationIDHeader),
		Command: c.ctx.Param("command"),
		Args:    body,
	})
	c.ctx.Header(model.InvocationIDHeader, res.ID)

	if res.Err != nil {
		status, code := classifyError(res.Err)
		c.RespondError(status, code, res.Err.Error())
		return
	}

	c.RespondSuccess(model.InvokeResponse{ID: res.ID, Data: res.Data})
}

// ListCommands returns the names of all registered commands.
func (c *InvokeController) ListCommands() {
	c.RespondSuccess(model.CommandList{Commands: commandRegistry.Names()})
}
