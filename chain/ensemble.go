/*
 * Copyright (c) 2018 XLAB d.o.o
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package chain

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/fentec-project/gomc/sample"
)

// Result is the outcome of one chain of an ensemble.
type Result struct {
	// Chain is the index of the chain that produced this result.
	Chain int
	// Seed is the stream seed the chain was given.
	Seed uint64
	// Sample holds the states the chain recorded.
	Sample Chain
	// Stats holds the kernel's transition counters.
	Stats Stats
	// Err is set when this chain failed. A failed chain never
	// affects its siblings.
	Err error
}

// Ensemble runs independent chains of the same kernel family from a
// single root seed. Chain i always draws from the stream seeded by
// the i-th derived seed, so the per-chain output does not depend on
// the execution mode.
type Ensemble struct {
	factory Factory
	cfg     EnsembleConfig
	seeds   []uint64
}

// NewEnsemble validates cfg and fixes the per-chain seeds. The seeds
// are read from the root stream once, here, and reused by every Run.
func NewEnsemble(factory Factory, cfg EnsembleConfig) (*Ensemble, error) {
	if factory == nil {
		return nil, errors.Wrap(ErrInvalidConfig, "kernel factory is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Ensemble{
		factory: factory,
		cfg:     cfg,
		seeds:   sample.DeriveSeeds(cfg.Seed, cfg.Chains),
	}, nil
}

// Seeds returns a copy of the per-chain stream seeds.
func (e *Ensemble) Seeds() []uint64 {
	return append([]uint64(nil), e.seeds...)
}

// Run executes every chain and returns one result per chain, in
// chain order. With Workers below 2 the chains run sequentially on
// the calling goroutine; otherwise up to min(Workers, Chains) of them
// run concurrently. Per-chain failures are reported in the results,
// never as a failure of the whole run.
func (e *Ensemble) Run(ctx context.Context) []Result {
	results := make([]Result, e.cfg.Chains)

	if e.cfg.Workers < 2 || e.cfg.Chains == 1 {
		for i := range results {
			results[i] = e.runChain(ctx, i)
		}
		return results
	}

	workers := e.cfg.Workers
	if workers > e.cfg.Chains {
		workers = e.cfg.Chains
	}
	idx := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range idx {
				results[i] = e.runChain(ctx, i)
			}
		}()
	}
	for i := range results {
		idx <- i
	}
	close(idx)
	wg.Wait()

	return results
}

// runChain builds chain i's kernel on its own stream and drives it to
// completion.
func (e *Ensemble) runChain(ctx context.Context, i int) Result {
	res := Result{Chain: i, Seed: e.seeds[i]}

	k, err := e.factory(i, sample.NewSource(e.seeds[i]))
	if err != nil {
		res.Err = err
		return res
	}
	r, err := NewRunner(k, e.cfg.Init, e.cfg.Config)
	if err != nil {
		res.Err = err
		return res
	}

	res.Sample, res.Err = r.Run(ctx)
	res.Stats = r.Stats()
	return res
}
