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

package fileio

import (
	"errors"
	"fmt"
)

// Stage names the file-system call that failed.
type Stage string

const (
	StageCreate Stage = "create"
	StageWrite  Stage = "write"
	StageOpen   Stage = "open"
	StageRead   Stage = "read"
)

// Label is the human-readable prefix carried by every IOError message.
func (s Stage) Label() string {
	switch s {
	case StageCreate:
		return "Failed to create file"
	case StageWrite:
		return "Failed to write to file"
	case StageOpen:
		return "Failed to open file"
	case StageRead:
		return "Failed to read file"
	default:
		return "Failed to access file"
	}
}

// ErrInvalidUTF8 is reported at the read stage when the file is not text.
var ErrInvalidUTF8 = errors.New("stream did not contain valid UTF-8")

// IOError is the single failure kind returned by this package.
type IOError struct {
	Stage Stage
	Path  string
	Err   error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage.Label(), e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// IsStage reports whether err is an IOError raised at the given stage.
func IsStage(err error, stage Stage) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr) && ioErr.Stage == stage
}
