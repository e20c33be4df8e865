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

package log

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestMapLevel(t *testing.T) {
	tests := []struct {
		level int
		want  zapcore.Level
	}{
		{level: 0, want: zapcore.FatalLevel},
		{level: 2, want: zapcore.FatalLevel},
		{level: 3, want: zapcore.ErrorLevel},
		{level: 4, want: zapcore.WarnLevel},
		{level: 5, want: zapcore.InfoLevel},
		{level: 6, want: zapcore.InfoLevel},
		{level: 7, want: zapcore.DebugLevel},
		{level: 42, want: zapcore.DebugLevel},
	}

	for _, tt := range tests {
		if got := mapLevel(tt.level); got != tt.want {
			t.Fatalf("mapLevel(%d) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestSetLevel(t *testing.T) {
	defer SetLevel(6)

	SetLevel(7)
	if !atomicLevel.Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug enabled after SetLevel(7)")
	}
	SetLevel(3)
	if atomicLevel.Enabled(zapcore.WarnLevel) {
		t.Fatalf("expected warn disabled after SetLevel(3)")
	}
}

func TestInvocationLogger(t *testing.T) {
	if Invocation("id-1", "read_file") == nil {
		t.Fatalf("expected tagged logger")
	}
}
