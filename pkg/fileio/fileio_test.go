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
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestSaveThenRead(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "plain", content: "hello"},
		{name: "empty", content: ""},
		{name: "multi-byte", content: "héllo, 世界 🎨\nsecond line"},
		{name: "json project", content: `{"name":"demo","elements":[{"id":1,"x":10.5}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := filepath.Join(t.TempDir(), "a.txt")
			if err := SaveFile(tt.content, target); err != nil {
				t.Fatalf("SaveFile returned error: %v", err)
			}
			got, err := ReadFile(target)
			if err != nil {
				t.Fatalf("ReadFile returned error: %v", err)
			}
			if got != tt.content {
				t.Fatalf("round trip mismatch: got %q want %q", got, tt.content)
			}
		})
	}
}

func TestSaveFileTruncatesExisting(t *testing.T) {
	target := filepath.Join(t.TempDir(), "project.json")
	if err := os.WriteFile(target, []byte("a much longer previous content"), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	if err := SaveFile("short", target); err != nil {
		t.Fatalf("SaveFile returned error: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(data) != "short" {
		t.Fatalf("unexpected content: %q", string(data))
	}
}

func TestReadFileMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist.txt")

	_, err := ReadFile(missing)
	if err == nil {
		t.Fatalf("expected error reading %s", missing)
	}
	if !strings.Contains(err.Error(), "Failed to open file") {
		t.Fatalf("unexpected message: %v", err)
	}
	if !IsStage(err, StageOpen) {
		t.Fatalf("expected open stage, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected wrapped not-exist error, got %v", err)
	}
}

func TestSaveFileMissingDirectory(t *testing.T) {
	target := filepath.Join(t.TempDir(), "no", "such", "dir", "a.txt")

	err := SaveFile("hello", target)
	if err == nil {
		t.Fatalf("expected error writing %s", target)
	}
	if !strings.HasPrefix(err.Error(), "Failed to create file: ") {
		t.Fatalf("unexpected message: %v", err)
	}
	var ioErr *IOError
	if !errors.As(err, &ioErr) || ioErr.Stage != StageCreate || ioErr.Path != target {
		t.Fatalf("unexpected error value: %#v", err)
	}
}

func TestReadFileInvalidUTF8(t *testing.T) {
	target := filepath.Join(t.TempDir(), "image.png")
	if err := WriteBinaryFile(target, []byte{0x89, 'P', 'N', 'G', 0xff, 0xfe}); err != nil {
		t.Fatalf("WriteBinaryFile returned error: %v", err)
	}

	_, err := ReadFile(target)
	if !IsStage(err, StageRead) {
		t.Fatalf("expected read stage error, got %v", err)
	}
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
	if err.Error() != "Failed to read file: stream did not contain valid UTF-8" {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestReadFileDirectory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("opening a directory fails at the open stage on windows")
	}

	_, err := ReadFile(t.TempDir())
	if !IsStage(err, StageRead) {
		t.Fatalf("expected read stage error, got %v", err)
	}
}

func TestSaveFileWriteFailure(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("/dev/full is linux only")
	}
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skipf("/dev/full unavailable: %v", err)
	}

	err := SaveFile("hello", "/dev/full")
	if IsStage(err, StageCreate) {
		t.Skipf("/dev/full not writable here: %v", err)
	}
	if !IsStage(err, StageWrite) {
		t.Fatalf("expected write stage error, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "Failed to write to file: ") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestWriteBinaryFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "canvas.png")
	payload := []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00}

	if err := WriteBinaryFile(target, payload); err != nil {
		t.Fatalf("WriteBinaryFile returned error: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(data) != string(payload) {
		t.Fatalf("unexpected content: %v", data)
	}
}

func TestStageLabel(t *testing.T) {
	tests := map[Stage]string{
		StageCreate:     "Failed to create file",
		StageWrite:      "Failed to write to file",
		StageOpen:       "Failed to open file",
		StageRead:       "Failed to read file",
		Stage("rename"): "Failed to access file",
	}
	for stage, want := range tests {
		if got := stage.Label(); got != want {
			t.Fatalf("Stage(%q).Label() = %q, want %q", stage, got, want)
		}
	}
}
