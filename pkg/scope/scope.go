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

// Package scope restricts which paths the file commands may touch.
package scope

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrForbidden is returned for paths outside every configured pattern.
var ErrForbidden = errors.New("path is outside the allowed filesystem scope")

// Guard matches resolved absolute paths against doublestar patterns. A nil or
// empty Guard allows every path.
type Guard struct {
	patterns []string
}

// New validates patterns and builds a Guard. Blank entries are ignored. The
// literal directory prefix of each pattern is resolved through symlinks so it
// compares against resolved paths in Check.
func New(patterns []string) (*Guard, error) {
	g := &Guard{patterns: make([]string, 0, len(patterns))}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		p = filepath.ToSlash(p)
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid scope pattern %q: %w", p, doublestar.ErrBadPattern)
		}
		g.patterns = append(g.patterns, resolvePatternBase(p))
	}
	return g, nil
}

// Patterns returns the configured patterns.
func (g *Guard) Patterns() []string {
	if g == nil {
		return nil
	}
	return append([]string(nil), g.patterns...)
}

// Unrestricted reports whether every path is allowed.
func (g *Guard) Unrestricted() bool {
	return g == nil || len(g.patterns) == 0
}

// Check returns nil when path, after symlink resolution, falls inside the
// scope. A path that does not exist yet is judged by its nearest existing
// ancestor, so save targets are checked against the directory they land in.
func (g *Guard) Check(path string) error {
	if g.Unrestricted() {
		return nil
	}

	resolved, err := resolve(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrForbidden, path, err)
	}
	name := filepath.ToSlash(resolved)

	for _, p := range g.patterns {
		// patterns were validated in New
		if ok, _ := doublestar.Match(p, name); ok {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrForbidden, path)
}

func resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	target, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return target, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	// os.Create follows a dangling link to wherever it points.
	if info, lerr := os.Lstat(abs); lerr == nil && info.Mode()&fs.ModeSymlink != 0 {
		return "", errors.New("dangling symlink")
	}

	dir, rest := filepath.Dir(abs), filepath.Base(abs)
	for {
		target, err := filepath.EvalSymlinks(dir)
		if err == nil {
			return filepath.Join(target, rest), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		rest = filepath.Join(filepath.Base(dir), rest)
		dir = parent
	}
}

func resolvePatternBase(p string) string {
	base, rest := doublestar.SplitPattern(p)
	if base == "." || base == "/" || !filepath.IsAbs(base) {
		return p
	}
	target, err := filepath.EvalSymlinks(filepath.FromSlash(base))
	if err != nil || filepath.ToSlash(target) == base {
		return p
	}
	return escapeMeta(filepath.ToSlash(target)) + "/" + rest
}

func escapeMeta(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '{', '}', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
