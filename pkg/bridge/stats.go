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

// CommandStats is a snapshot of one command's counters.
type CommandStats struct {
	Command  string `json:"command"`
	Invoked  int64  `json:"invoked"`
	Failed   int64  `json:"failed"`
	InFlight int64  `json:"in_flight"`
}

// Stats returns counters for every registered command, sorted by name.
func (r *Registry) Stats() []CommandStats {
	names := r.Names()
	stats := make([]CommandStats, 0, len(names))
	for _, name := range names {
		e, ok := r.lookup(name)
		if !ok {
			continue
		}
		stats = append(stats, CommandStats{
			Command:  name,
			Invoked:  e.stats.invoked.Load(),
			Failed:   e.stats.failed.Load(),
			InFlight: e.stats.inFlight.Load(),
		})
	}
	return stats
}
