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

	"github.com/fentec-project/gomc/adapt"
	"github.com/fentec-project/gomc/chain"
	"github.com/fentec-project/gomc/data"
	"github.com/fentec-project/gomc/target"
)

// MetropolisParams holds the parameters of a random-walk Metropolis
// kernel.
type MetropolisParams struct {
	// Scale is the standard deviation of the Gaussian increments.
	// Zero selects 1.
	Scale float64
	// Coords restricts the update to the listed coordinates. Nil or
	// empty updates every coordinate.
	Coords []int
	// TargetRate, when nonzero, attaches a tuner steering the
	// acceptance rate towards it during adaptation.
	TargetRate float64
}

// Metropolis is the symmetric Gaussian random-walk kernel. A proposal
// adds independent N(0, scale^2) increments to the updated
// coordinates; the symmetry of the increments reduces the acceptance
// ratio to the difference of target log-densities.
type Metropolis struct {
	t      target.Density
	rnd    *rand.Rand
	coords []int
	scale  float64
	tuner  *adapt.ScaleTuner
	rec    record
}

// NewMetropolis returns an instance of the random-walk kernel for the
// target t, drawing from src.
func NewMetropolis(t target.Density, src rand.Source, params MetropolisParams) (*Metropolis, error) {
	if err := validateBase(t, src); err != nil {
		return nil, err
	}

	scale := params.Scale
	if scale == 0 {
		scale = 1
	}
	if !positiveFinite(scale) {
		return nil, errors.Wrapf(chain.ErrInvalidConfig, "proposal scale should be a positive finite number, got %v", params.Scale)
	}
	for _, c := range params.Coords {
		if c < 0 || c >= t.Dim() {
			return nil, errors.Wrapf(chain.ErrInvalidConfig, "coordinate %d outside target dimension %d", c, t.Dim())
		}
	}

	m := &Metropolis{
		t:      t,
		rnd:    rand.New(src),
		coords: append([]int(nil), params.Coords...),
		scale:  scale,
	}
	if params.TargetRate != 0 {
		if !(params.TargetRate > 0 && params.TargetRate < 1) {
			return nil, errors.Wrapf(chain.ErrInvalidConfig, "target acceptance rate should be in (0, 1), got %v", params.TargetRate)
		}
		tuner, err := adapt.NewScaleTuner(scale, params.TargetRate)
		if err != nil {
			return nil, err
		}
		m.tuner = tuner
	}

	return m, nil
}

// Init evaluates the target at x and returns the starting state.
func (m *Metropolis) Init(x data.Vector) (chain.State, error) {
	return initState(m.t, x)
}

// Step proposes a random-walk move from cur and applies the
// Metropolis rule.
func (m *Metropolis) Step(cur chain.State) (chain.State, error) {
	s := m.Scale()
	y := cur.X.Copy()
	if len(m.coords) == 0 {
		for i := range y {
			y[i] += s * m.rnd.NormFloat64()
		}
	} else {
		for _, c := range m.coords {
			y[c] += s * m.rnd.NormFloat64()
		}
	}

	accepted := false
	alpha := 0.0
	lpY := m.t.LogProb(y)
	if !math.IsNaN(lpY) {
		logRatio := lpY - cur.LogProb
		alpha = acceptProb(logRatio)
		accepted = accept(m.rnd, logRatio)
	}

	next := chain.State{X: cur.X, LogProb: cur.LogProb, N: cur.N + 1}
	if accepted {
		next.X = y
		next.LogProb = lpY
	}
	m.rec.observe(accepted)

	if m.tuner != nil {
		if err := m.tuner.Update(alpha); err != nil {
			return chain.State{}, err
		}
	}
	return next, nil
}

// SetAdapting freezes or thaws the attached tuner. A kernel built
// without a target rate ignores the call.
func (m *Metropolis) SetAdapting(on bool) {
	if m.tuner == nil {
		return
	}
	if on {
		m.tuner.Thaw()
	} else {
		m.tuner.Freeze()
	}
}

// Stats reports the transition counters accumulated so far.
func (m *Metropolis) Stats() chain.Stats {
	return m.rec.stats()
}

// Scale returns the current proposal scale.
func (m *Metropolis) Scale() float64 {
	if m.tuner != nil {
		return m.tuner.Scale()
	}
	return m.scale
}

// SetScale replaces the proposal scale.
func (m *Metropolis) SetScale(scale float64) {
	if m.tuner != nil {
		m.tuner.SetScale(scale)
		return
	}
	m.scale = scale
}
