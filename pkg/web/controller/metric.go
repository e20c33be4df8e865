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
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/mem"
	"github.com/shirou/gopsutil/process"

	"github.com/imagecanvas/canvasd/pkg/web/model"
)

// MetricController reports bridge counters and process resource usage.
type MetricController struct {
	*basicController
}

func NewMetricController(ctx *gin.Context) *MetricController {
	return &MetricController{basicController: newBasicController(ctx)}
}

// GetMetrics returns the current metrics snapshot
func (c *MetricController) GetMetrics() {
	metrics, err := c.readMetrics()
	if err != nil {
		c.RespondError(
			http.StatusInternalServerError,
			model.ErrorCodeRuntimeError,
			fmt.Sprintf("error reading runtime metrics. %v", err),
		)
		return
	}

	c.RespondSuccess(metrics)
}

func (c *MetricController) readMetrics() (*model.Metrics, error) {
	metric := model.NewMetrics()
	if commandRegistry != nil {
		metric.Commands = commandRegistry.Stats()
	}
	metric.Goroutines = runtime.NumGoroutine()

	proc, err := process.NewProcess(int32(os.Getpid())) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to inspect backend process: %w", err)
	}
	procMem, err := proc.MemoryInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to get process memory: %w", err)
	}
	metric.ProcRSSMiB = float64(procMem.RSS) / 1024 / 1024

	vmStat, err := mem.VirtualMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to get memory info: %w", err)
	}
	metric.MemTotalMiB = float64(vmStat.Total) / 1024 / 1024
	metric.MemUsedMiB = float64(vmStat.Used) / 1024 / 1024

	return metric, nil
}
