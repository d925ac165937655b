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
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"

	"github.com/fentec-project/gomc/adapt"
	"github.com/fentec-project/gomc/chain"
	"github.com/fentec-project/gomc/data"
	"github.com/fentec-project/gomc/target"
)

// DefaultTargetRateHMC is the acceptance rate Hamiltonian proposals
// are steered towards when no explicit target rate is configured.
const DefaultTargetRateHMC = 0.65

// HMCParams holds the parameters of a Hamiltonian kernel.
type HMCParams struct {
	// StepSize is the leapfrog step size, the kernel's tunable scale.
	// Zero selects 0.1.
	StepSize float64
	// Steps is the number of leapfrog steps per proposal. Zero
	// selects 10.
	Steps int
	// TargetRate is the acceptance rate the step size is steered
	// towards. Zero selects DefaultTargetRateHMC.
	TargetRate float64
}

// HMC proposes moves by simulating Hamiltonian dynamics with a
// leapfrog integrator under an identity mass matrix, resampling the
// momentum from a standard normal before every trajectory. The
// implementation is based on paper: "MCMC using Hamiltonian dynamics"
// by R. M. Neal (https://arxiv.org/abs/1206.1901). The gradient comes
// from the target itself when it provides one and from central finite
// differences otherwise.
type HMC struct {
	t     target.Density
	rnd   *rand.Rand
	grad  func(x data.Vector) data.Vector
	steps int
	tuner *adapt.ScaleTuner
	rec   record
}

// NewHMC returns an instance of the Hamiltonian kernel for the target
// t, drawing from src.
func NewHMC(t target.Density, src rand.Source, params HMCParams) (*HMC, error) {
	if err := validateBase(t, src); err != nil {
		return nil, err
	}

	eps := params.StepSize
	if eps == 0 {
		eps = 0.1
	}
	if !positiveFinite(eps) {
		return nil, errors.Wrapf(chain.ErrInvalidConfig, "step size should be a positive finite number, got %v", params.StepSize)
	}

	steps := params.Steps
	if steps == 0 {
		steps = 10
	}
	if steps < 0 {
		return nil, errors.Wrapf(chain.ErrInvalidConfig, "leapfrog step count should be positive, got %d", params.Steps)
	}

	rate := params.TargetRate
	if rate == 0 {
		rate = DefaultTargetRateHMC
	}
	if !(rate > 0 && rate < 1) {
		return nil, errors.Wrapf(chain.ErrInvalidConfig, "target acceptance rate should be in (0, 1), got %v", params.TargetRate)
	}
	tuner, err := adapt.NewScaleTuner(eps, rate)
	if err != nil {
		return nil, err
	}

	h := &HMC{
		t:     t,
		rnd:   rand.New(src),
		steps: steps,
		tuner: tuner,
	}
	if gd, ok := t.(target.GradientDensity); ok {
		h.grad = gd.GradLogProb
	} else {
		h.grad = func(x data.Vector) data.Vector {
			g := make(data.Vector, len(x))
			fd.Gradient(g, func(z []float64) float64 { return t.LogProb(z) }, x, &fd.Settings{Formula: fd.Central})
			return g
		}
	}

	return h, nil
}

// Init evaluates the target at x and returns the starting state.
func (h *HMC) Init(x data.Vector) (chain.State, error) {
	return initState(h.t, x)
}

// Step resamples the momentum, simulates one trajectory and applies
// the Metropolis rule to the resulting total-energy change. A
// trajectory that leaves the representable range or hits a failed
// evaluation is rejected.
func (h *HMC) Step(cur chain.State) (chain.State, error) {
	eps := h.tuner.Scale()
	q := cur.X.Copy()
	p := make(data.Vector, len(q))
	for i := range p {
		p[i] = h.rnd.NormFloat64()
	}
	kin0 := 0.5 * p.SquaredNorm()

	lpY, ok := h.integrate(q, p, eps)

	accepted := false
	alpha := 0.0
	if ok {
		kin1 := 0.5 * p.SquaredNorm()
		logRatio := (lpY - kin1) - (cur.LogProb - kin0)
		alpha = acceptProb(logRatio)
		accepted = accept(h.rnd, logRatio)
	}

	next := chain.State{X: cur.X, LogProb: cur.LogProb, N: cur.N + 1}
	if accepted {
		next.X = q
		next.LogProb = lpY
	}
	h.rec.observe(accepted)

	if err := h.tuner.Update(alpha); err != nil {
		return chain.State{}, err
	}
	return next, nil
}

// integrate advances position q and momentum p through the configured
// number of leapfrog steps, reporting the end-point log-density. It
// reports failure as soon as the position or the gradient stops being
// finite.
func (h *HMC) integrate(q, p data.Vector, eps float64) (float64, bool) {
	g := h.grad(q)
	if !g.IsFinite() {
		return 0, false
	}
	floats.AddScaled(p, 0.5*eps, g)

	for l := 0; l < h.steps; l++ {
		floats.AddScaled(q, eps, p)
		if !q.IsFinite() {
			return 0, false
		}
		g = h.grad(q)
		if !g.IsFinite() {
			return 0, false
		}
		// The last momentum update is the closing half step.
		w := eps
		if l == h.steps-1 {
			w = 0.5 * eps
		}
		floats.AddScaled(p, w, g)
	}

	lp := h.t.LogProb(q)
	if math.IsNaN(lp) {
		return 0, false
	}
	return lp, true
}

// SetAdapting freezes or thaws the step-size tuner.
func (h *HMC) SetAdapting(on bool) {
	if on {
		h.tuner.Thaw()
	} else {
		h.tuner.Freeze()
	}
}

// Stats reports the transition counters accumulated so far.
func (h *HMC) Stats() chain.Stats {
	return h.rec.stats()
}

// Scale returns the current leapfrog step size.
func (h *HMC) Scale() float64 {
	return h.tuner.Scale()
}

// SetScale replaces the leapfrog step size.
func (h *HMC) SetScale(scale float64) {
	h.tuner.SetScale(scale)
}
