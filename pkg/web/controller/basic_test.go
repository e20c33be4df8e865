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
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"testing"

	"github.com/imagecanvas/canvasd/pkg/bridge"
	"github.com/imagecanvas/canvasd/pkg/fileio"
	"github.com/imagecanvas/canvasd/pkg/scope"
	"github.com/imagecanvas/canvasd/pkg/web/model"
)

func TestRespondSuccessWritesPayload(t *testing.T) {
	ctx, rec := newTestContext(http.MethodGet, "/", nil)
	ctrl := newBasicController(ctx)

	ctrl.RespondSuccess(model.CommandList{Commands: []string{"read_file"}})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var resp model.CommandList
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Commands) != 1 || resp.Commands[0] != "read_file" {
		t.Fatalf("unexpected body: %#v", resp)
	}
}

func TestRespondSuccessWithoutPayload(t *testing.T) {
	ctx, rec := newTestContext(http.MethodGet, "/", nil)
	ctrl := newBasicController(ctx)

	ctrl.RespondSuccess(nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
}

func TestRespondErrorAddsCodeAndMessage(t *testing.T) {
	ctx, rec := newTestContext(http.MethodGet, "/", nil)
	ctrl := newBasicController(ctx)

	ctrl.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidRequest, "invalid payload")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	var got model.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to unmarshal error body: %v", err)
	}
	if got.Code != model.ErrorCodeInvalidRequest || got.Message != "invalid payload" {
		t.Fatalf("unexpected body: %#v", got)
	}
}

func TestReadBody(t *testing.T) {
	ctx, _ := newTestContext(http.MethodPost, "/", []byte(`{"filePath":"/tmp/a.txt"}`))
	ctrl := newBasicController(ctx)

	body, err := ctrl.readBody()
	if err != nil {
		t.Fatalf("readBody returned error: %v", err)
	}
	if string(body) != `{"filePath":"/tmp/a.txt"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   model.ErrorCode
	}{
		{name: "unknown", err: fmt.Errorf("%w: x", bridge.ErrUnknownCommand), status: http.StatusNotFound, code: model.ErrorCodeUnknownCommand},
		{name: "args", err: fmt.Errorf("%w: x", bridge.ErrInvalidArgs), status: http.StatusBadRequest, code: model.ErrorCodeInvalidRequest},
		{name: "scope", err: fmt.Errorf("%w: /etc", scope.ErrForbidden), status: http.StatusForbidden, code: model.ErrorCodeForbiddenPath},
		{name: "io", err: &fileio.IOError{Stage: fileio.StageOpen, Err: fs.ErrNotExist}, status: http.StatusInternalServerError, code: model.ErrorCodeIOError},
		{name: "deadline", err: context.DeadlineExceeded, status: http.StatusGatewayTimeout, code: model.ErrorCodeTimeout},
		{name: "panic", err: fmt.Errorf("%w: boom", bridge.ErrHandlerPanic), status: http.StatusInternalServerError, code: model.ErrorCodeRuntimeError},
		{name: "other", err: errors.New("other"), status: http.StatusInternalServerError, code: model.ErrorCodeRuntimeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := classifyError(tt.err)
			if status != tt.status || code != tt.code {
				t.Fatalf("classifyError(%v) = %d %s, want %d %s", tt.err, status, code, tt.status, tt.code)
			}
		})
	}
}
