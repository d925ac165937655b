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

package kernel

import (
	"math"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"

	"github.com/fentec-project/gomc/chain"
	"github.com/fentec-project/gomc/data"
	"github.com/fentec-project/gomc/target"
)

// record accumulates the transition counters every kernel reports.
type record struct {
	steps    int
	accepted int
}

func (r *record) observe(accepted bool) {
	r.steps++
	if accepted {
		r.accepted++
	}
}

func (r *record) stats() chain.Stats {
	return chain.Stats{Steps: r.steps, Accepted: r.accepted}
}

// initState evaluates the target at x and builds a chain's starting
// state. The start point must have a finite log-density.
func initState(t target.Density, x data.Vector) (chain.State, error) {
	lp := t.LogProb(x)
	if math.IsNaN(lp) || math.IsInf(lp, 0) {
		return chain.State{}, errors.Wrapf(chain.ErrInvalidInit,
			"log-density at start point %v is %v", x, lp)
	}

	return chain.State{X: x.Copy(), LogProb: lp}, nil
}

// accept applies the Metropolis rule. A uniform draw is spent only
// when the log-ratio is negative.
func accept(rnd *rand.Rand, logRatio float64) bool {
	return logRatio >= 0 || math.Log(rnd.Float64()) < logRatio
}

// acceptProb is the realized acceptance probability min(1,
// exp(logRatio)), the quantity scale tuners observe.
func acceptProb(logRatio float64) float64 {
	if logRatio >= 0 {
		return 1
	}
	return math.Exp(logRatio)
}

// validateBase rejects the constructor arguments no kernel can work
// without.
func validateBase(t target.Density, src rand.Source) error {
	if t == nil {
		return errors.Wrap(chain.ErrInvalidConfig, "target density is nil")
	}
	if src == nil {
		return errors.Wrap(chain.ErrInvalidConfig, "random source is nil")
	}
	if t.Dim() < 1 {
		return errors.Wrapf(chain.ErrInvalidConfig, "target dimension should be at least 1, got %d", t.Dim())
	}
	return nil
}

// positiveFinite reports whether x can serve as a scale or a width.
func positiveFinite(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}
