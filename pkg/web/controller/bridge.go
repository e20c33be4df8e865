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
	"context"
	"errors"
	"net/http"

	"github.com/imagecanvas/canvasd/pkg/bridge"
	"github.com/imagecanvas/canvasd/pkg/fileio"
	"github.com/imagecanvas/canvasd/pkg/scope"
	"github.com/imagecanvas/canvasd/pkg/web/model"
)

var commandRegistry *bridge.Registry

// InitBridge installs the registry served by the invoke, ipc and metrics controllers.
func InitBridge(reg *bridge.Registry) {
	commandRegistry = reg
}

// classifyError maps a command failure onto an HTTP status and error code.
func classifyError(err error) (int, model.ErrorCode) {
	var ioErr *fileio.IOError
	switch {
	case errors.Is(err, bridge.ErrUnknownCommand):
		return http.StatusNotFound, model.ErrorCodeUnknownCommand
	case errors.Is(err, bridge.ErrInvalidArgs):
		return http.StatusBadRequest, model.ErrorCodeInvalidRequest
	case errors.Is(err, scope.ErrForbidden):
		return http.StatusForbidden, model.ErrorCodeForbiddenPath
	case errors.As(err, &ioErr):
		return http.StatusInternalServerError, model.ErrorCodeIOError
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout, model.ErrorCodeTimeout
	default:
		return http.StatusInternalServerError, model.ErrorCodeRuntimeError
	}
}

func errorResponse(err error) *model.ErrorResponse {
	_, code := classifyError(err)
	return &model.ErrorResponse{Code: code, Message: err.Error()}
}
