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

// Package fileio implements the text and binary file commands offered to the
// canvas front-end. Each call opens its own handle and closes it before
// returning; nothing is shared between calls.
package fileio

import (
	"io"
	"os"
	"unicode/utf8"
)

// SaveFile creates or truncates filePath and writes content to it in full.
// A failed write may leave a truncated file behind.
func SaveFile(content, filePath string) error {
	return writeFile(filePath, func(w io.Writer) error {
		_, err := io.WriteString(w, content)
		return err
	})
}

// WriteBinaryFile is SaveFile for raw bytes, used by image export.
func WriteBinaryFile(filePath string, data []byte) error {
	return writeFile(filePath, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// ReadFile returns the whole content of filePath, which must be UTF-8 text.
func ReadFile(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", &IOError{Stage: StageOpen, Path: filePath, Err: err}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", &IOError{Stage: StageRead, Path: filePath, Err: err}
	}
	if !utf8.Valid(data) {
		return "", &IOError{Stage: StageRead, Path: filePath, Err: ErrInvalidUTF8}
	}

	return string(data), nil
}

func writeFile(filePath string, write func(io.Writer) error) error {
	file, err := os.Create(filePath)
	if err != nil {
		return &IOError{Stage: StageCreate, Path: filePath, Err: err}
	}

	err = write(file)
	// close errors surface buffered write failures on some file systems
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return &IOError{Stage: StageWrite, Path: filePath, Err: err}
	}

	return nil
}
