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
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imagecanvas/canvasd/pkg/scope"
	"github.com/imagecanvas/canvasd/pkg/web/model"
)

func newAssetController(t *testing.T, filePath string) (*AssetController, *httptest.ResponseRecorder) {
	t.Helper()
	target := "/asset"
	if filePath != "" {
		target += "?path=" + url.QueryEscape(filePath)
	}
	ctx, rec := newTestContext(http.MethodGet, target, nil)
	return NewAssetController(ctx), rec
}

func initAssetScope(t *testing.T, patterns ...string) {
	t.Helper()
	guard, err := scope.New(patterns)
	require.NoError(t, err)
	InitScope(guard)
	t.Cleanup(func() { InitScope(nil) })
}

func TestServeAsset(t *testing.T) {
	initAssetScope(t)
	target := filepath.Join(t.TempDir(), "node.png")
	payload := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	require.NoError(t, os.WriteFile(target, payload, 0o644))

	ctrl, rec := newAssetController(t, target)
	ctrl.ServeAsset()

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, payload, rec.Body.Bytes())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestServeAssetRange(t *testing.T) {
	initAssetScope(t)
	target := filepath.Join(t.TempDir(), "clip.txt")
	require.NoError(t, os.WriteFile(target, []byte("0123456789"), 0o644))

	ctrl, rec := newAssetController(t, target)
	ctrl.ctx.Request.Header.Set("Range", "bytes=2-5")
	ctrl.ServeAsset()

	require.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Equal(t, "2345", rec.Body.String())
	assert.Equal(t, "bytes 2-5/10", rec.Header().Get("Content-Range"))
}

func TestServeAssetErrors(t *testing.T) {
	root := t.TempDir()
	allowed := filepath.Join(root, "allowed")
	require.NoError(t, os.MkdirAll(filepath.Join(allowed, "dir"), 0o755))
	outside := filepath.Join(root, "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("secret"), 0o644))
	initAssetScope(t, filepath.Join(allowed, "**"))

	tests := []struct {
		name   string
		path   string
		status int
		code   model.ErrorCode
	}{
		{name: "missing query", path: "", status: http.StatusBadRequest, code: model.ErrorCodeMissingQuery},
		{name: "outside scope", path: outside, status: http.StatusForbidden, code: model.ErrorCodeForbiddenPath},
		{name: "missing file", path: filepath.Join(allowed, "gone.png"), status: http.StatusNotFound, code: model.ErrorCodeFileNotFound},
		{name: "directory", path: filepath.Join(allowed, "dir"), status: http.StatusBadRequest, code: model.ErrorCodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl, rec := newAssetController(t, tt.path)
			ctrl.ServeAsset()

			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			var resp model.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Code)
		})
	}
}
