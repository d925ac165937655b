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

	"github.com/pkg/errors"

	"github.com/fentec-project/gomc/data"
)

// Phase identifies the stage a running chain has reached.
type Phase int

const (
	// WarmingUp means burn-in transitions are being performed.
	WarmingUp Phase = iota
	// Sampling means the chain is producing recorded states.
	Sampling
	// Done means the configured number of transitions has been
	// performed.
	Done
)

// String returns a readable phase name.
func (p Phase) String() string {
	switch p {
	case WarmingUp:
		return "warming up"
	case Sampling:
		return "sampling"
	case Done:
		return "done"
	}
	return "unknown"
}

// Runner drives a single kernel through a warm-up phase and a
// sampling phase, recording a thinned chain of states. A runner is
// good for one run and is not safe for concurrent use.
type Runner struct {
	k   Kernel
	cfg Config

	cur      State
	steps    int
	total    int
	limit    int
	adapting bool
	out      Chain
}

// NewRunner validates cfg and initializes the kernel at the start
// point init. The run will perform cfg.BurnIn warm-up transitions
// followed by cfg.Iterations sampling transitions, with kernel
// adaptation enabled for the first adaptation-window transitions.
func NewRunner(k Kernel, init data.Vector, cfg Config) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if k == nil {
		return nil, errors.Wrap(ErrInvalidConfig, "kernel is nil")
	}

	cur, err := k.Init(init)
	if err != nil {
		return nil, err
	}

	kept := (cfg.Iterations + cfg.Thin - 1) / cfg.Thin
	if cfg.KeepBurnIn {
		kept += cfg.BurnIn
	}
	r := &Runner{
		k:     k,
		cfg:   cfg,
		cur:   cur,
		total: cfg.BurnIn + cfg.Iterations,
		limit: cfg.adaptLimit(),
		out:   make(Chain, 0, kept),
	}
	r.adapting = r.limit > 0
	k.SetAdapting(r.adapting)

	return r, nil
}

// Phase reports how far the run has progressed.
func (r *Runner) Phase() Phase {
	switch {
	case r.steps >= r.total:
		return Done
	case r.steps >= r.cfg.BurnIn:
		return Sampling
	default:
		return WarmingUp
	}
}

// Stats reports the kernel's transition counters.
func (r *Runner) Stats() Stats {
	return r.k.Stats()
}

// Run advances the chain to completion and returns the recorded
// states. The context is checked once per transition; on
// cancellation the states recorded so far are returned together with
// the context's error.
func (r *Runner) Run(ctx context.Context) (Chain, error) {
	for r.steps < r.total {
		if _, err := r.step(ctx); err != nil {
			return r.out, err
		}
	}
	return r.out, nil
}

// step performs one kernel transition and reports whether it emitted
// a recorded state. Adaptation is switched off before the first
// transition past the adaptation window, so every later transition
// uses a fixed kernel.
func (r *Runner) step(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if r.adapting && r.steps >= r.limit {
		r.adapting = false
		r.k.SetAdapting(false)
	}

	next, err := r.k.Step(r.cur)
	if err != nil {
		return false, err
	}
	r.cur = next
	r.steps++

	if r.steps <= r.cfg.BurnIn {
		if r.cfg.KeepBurnIn {
			r.out = append(r.out, next)
			return true, nil
		}
		return false, nil
	}

	// Sampling iterations 1, 1+Thin, 1+2*Thin, ... are recorded.
	i := r.steps - r.cfg.BurnIn
	if (i-1)%r.cfg.Thin == 0 {
		r.out = append(r.out, next)
		return true, nil
	}
	return false, nil
}
