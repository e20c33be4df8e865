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

// Package bridge dispatches named commands invoked by the front-end.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/imagecanvas/canvasd/pkg/log"
	"github.com/imagecanvas/canvasd/pkg/util/safego"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidArgs    = errors.New("invalid command arguments")
	ErrHandlerPanic   = errors.New("command handler panicked")
)

// Handler executes one command. args is the raw JSON object sent by the caller.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// Invocation is a single call coming over the bridge.
type Invocation struct {
	ID      string
	Command string
	Args    json.RawMessage
}

// Result is the outcome of an Invocation. Err is nil on success.
type Result struct {
	ID       string
	Command  string
	Data     any
	Err      error
	Duration time.Duration
}

type counters struct {
	invoked  atomic.Int64
	failed   atomic.Int64
	inFlight atomic.Int64
}

type entry struct {
	handler Handler
	stats   *counters
}

// Registry holds the externally callable commands.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]entry
}

func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]entry)}
}

// Register adds a command. It panics on an empty or duplicate name since
// registration only happens during bootstrap.
func (r *Registry) Register(name string, handler Handler) {
	if name == "" || handler == nil {
		panic("bridge: command name and handler are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.commands[name]; exists {
		panic(fmt.Sprintf("bridge: command %q registered twice", name))
	}
	r.commands[name] = entry{handler: handler, stats: &counters{}}
}

// Names returns the registered command names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) lookup(name string) (entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.commands[name]
	return e, ok
}

// Invoke runs the command on its own goroutine and waits for it. If ctx ends
// first the caller gets ctx.Err(); the command itself is not interrupted and
// finishes in the background.
func (r *Registry) Invoke(ctx context.Context, inv Invocation) Result {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	logger := log.Invocation(inv.ID, inv.Command)

	e, ok := r.lookup(inv.Command)
	if !ok {
		logger.Warnf("rejected invocation of unregistered command")
		return Result{ID: inv.ID, Command: inv.Command, Err: fmt.Errorf("%w: %s", ErrUnknownCommand, inv.Command)}
	}

	e.stats.invoked.Add(1)
	e.stats.inFlight.Add(1)
	start := time.Now()
	done := make(chan Result, 1)
	finish := func(data any, err error) {
		e.stats.inFlight.Add(-1)
		if err != nil {
			e.stats.failed.Add(1)
		}
		done <- Result{ID: inv.ID, Command: inv.Command, Data: data, Err: err, Duration: time.Since(start)}
	}

	handlerCtx := context.WithoutCancel(ctx)
	safego.Go(func() {
		data, err := e.handler(handlerCtx, inv.Args)
		finish(data, err)
	}, func(p any) {
		finish(nil, fmt.Errorf("%w: %v", ErrHandlerPanic, p))
	})

	select {
	case res := <-done:
		if res.Err != nil {
			logger.Warnw("command failed", "error", res.Err, "duration", res.Duration)
		} else {
			logger.Debugw("command completed", "duration", res.Duration)
		}
		return res
	case <-ctx.Done():
		logger.Warnw("caller stopped waiting for command", "error", ctx.Err())
		return Result{ID: inv.ID, Command: inv.Command, Err: ctx.Err(), Duration: time.Since(start)}
	}
}
