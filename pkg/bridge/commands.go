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

package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/imagecanvas/canvasd/pkg/fileio"
	"github.com/imagecanvas/canvasd/pkg/scope"
)

const (
	CommandSaveFile        = "save_file"
	CommandReadFile        = "read_file"
	CommandWriteBinaryFile = "write_binary_file"
)

var validate = validator.New()

// SaveFileArgs mirrors invoke("save_file", {content, filePath}).
type SaveFileArgs struct {
	Content  *string `json:"content" validate:"required"`
	FilePath string  `json:"filePath" validate:"required"`
}

type ReadFileArgs struct {
	FilePath string `json:"filePath" validate:"required"`
}

// WriteBinaryFileArgs carries base64 encoded contents, e.g. an exported PNG.
type WriteBinaryFileArgs struct {
	Path     string `json:"path" validate:"required"`
	Contents []byte `json:"contents"`
}

// RegisterFileCommands registers the file commands on reg. A nil guard
// leaves paths unrestricted.
func RegisterFileCommands(reg *Registry, guard *scope.Guard) {
	reg.Register(CommandSaveFile, func(_ context.Context, raw json.RawMessage) (any, error) {
		var args SaveFileArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		if err := guard.Check(args.FilePath); err != nil {
			return nil, err
		}
		return nil, fileio.SaveFile(*args.Content, args.FilePath)
	})

	reg.Register(CommandReadFile, func(_ context.Context, raw json.RawMessage) (any, error) {
		var args ReadFileArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		if err := guard.Check(args.FilePath); err != nil {
			return nil, err
		}
		content, err := fileio.ReadFile(args.FilePath)
		if err != nil {
			return nil, err
		}
		return content, nil
	})

	reg.Register(CommandWriteBinaryFile, func(_ context.Context, raw json.RawMessage) (any, error) {
		var args WriteBinaryFileArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		if err := guard.Check(args.Path); err != nil {
			return nil, err
		}
		return nil, fileio.WriteBinaryFile(args.Path, args.Contents)
	})
}

func decodeArgs(raw json.RawMessage, target any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}
	if err := validate.Struct(target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}
	return nil
}
