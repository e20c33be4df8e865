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
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/imagecanvas/canvasd/pkg/scope"
	"github.com/imagecanvas/canvasd/pkg/web/model"
)

var fileScope *scope.Guard

// InitScope sets the guard applied to asset requests. A nil guard allows
// every path, like the file commands.
func InitScope(guard *scope.Guard) {
	fileScope = guard
}

// AssetController serves local files to the webview, e.g. images placed on
// the canvas.
type AssetController struct {
	*basicController
}

func NewAssetController(ctx *gin.Context) *AssetController {
	return &AssetController{basicController: newBasicController(ctx)}
}

// ServeAsset streams the file named by the path query with range support.
func (c *AssetController) ServeAsset() {
	filePath := c.ctx.Query("path")
	if filePath == "" {
		c.RespondError(
			http.StatusBadRequest,
			model.ErrorCodeMissingQuery,
			"missing query parameter 'path'",
		)
		return
	}

	if err := fileScope.Check(filePath); err != nil {
		c.RespondError(http.StatusForbidden, model.ErrorCodeForbiddenPath, err.Error())
		return
	}

	file, err := os.Open(filePath)
	if err != nil {
		c.handleFileError(err)
		return
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		c.RespondError(
			http.StatusInternalServerError,
			model.ErrorCodeRuntimeError,
			fmt.Sprintf("error getting file stat info: %s. %v", filePath, err),
		)
		return
	}
	if fileInfo.IsDir() {
		c.RespondError(
			http.StatusBadRequest,
			model.ErrorCodeInvalidRequest,
			fmt.Sprintf("%s is a directory", filePath),
		)
		return
	}

	c.ctx.Header("X-Content-Type-Options", "nosniff")
	c.ctx.Header("Cache-Control", "no-cache")
	http.ServeContent(c.ctx.Writer, c.ctx.Request, filepath.Base(filePath), fileInfo.ModTime(), file)
}

func (c *AssetController) handleFileError(err error) {
	if os.IsNotExist(err) {
		c.RespondError(
			http.StatusNotFound,
			model.ErrorCodeFileNotFound,
			fmt.Sprintf("file not found. %v", err),
		)
		return
	}
	c.RespondError(
		http.StatusInternalServerError,
		model.ErrorCodeRuntimeError,
		fmt.Sprintf("error accessing file: %v", err),
	)
}
