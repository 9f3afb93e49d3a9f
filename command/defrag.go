/*
Copyright 2022 The jsondoc Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package command

import (
	"context"

	"golang.org/x/time/rate"
	"k8s.io/klog/v2"

	"github.com/keyspace-io/jsondoc/config"
	"github.com/keyspace-io/jsondoc/jsonvalue"
)

// DefragStats counts what a compaction cycle touched.
type DefragStats struct {
	Cycles      int
	KeysVisited int
	Moved       int
}

// DefragRunner drives the online memory-compaction pass. The host
// guarantees it never runs concurrently with a command on the same
// document; between keys it yields at the rate the configuration
// requests.
type DefragRunner struct {
	limiter *rate.Limiter
	stats   DefragStats
}

func NewDefragRunner(cfg config.DefragConfig) *DefragRunner {
	limit := rate.Inf
	if cfg.KeysPerSecond > 0 {
		limit = rate.Limit(cfg.KeysPerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &DefragRunner{limiter: rate.NewLimiter(limit, burst)}
}

// Stats returns the accumulated counters.
func (r *DefragRunner) Stats() DefragStats { return r.stats }

// RunCycle visits every key once. The shared-string cache is rebuilt at
// the start of the cycle; documents on the compact backing walk their
// owned allocations through the allocator and rebind whatever moved.
func (r *DefragRunner) RunCycle(ctx context.Context, ks Keyspace, alloc jsonvalue.Allocator) error {
	r.stats.Cycles++
	jsonvalue.ResetStringCache()
	klog.V(2).InfoS("defrag cycle started", "cycle", r.stats.Cycles)

	for _, key := range ks.Keys() {
		if err := r.limiter.Wait(ctx); err != nil {
			return err
		}
		doc, ok := ks.Get(key)
		if !ok {
			continue
		}
		r.stats.KeysVisited++
		if compact, isCompact := doc.Root().(*jsonvalue.CompactNode); isCompact {
			moved := compact.Defrag(alloc)
			r.stats.Moved += moved
			if moved > 0 {
				klog.V(3).InfoS("defrag moved allocations", "key", key, "moved", moved)
			}
		}
	}
	klog.V(2).InfoS("defrag cycle finished",
		"cycle", r.stats.Cycles, "keys", r.stats.KeysVisited, "moved", r.stats.Moved)
	return nil
}
