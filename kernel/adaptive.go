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
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/fentec-project/gomc/adapt"
	"github.com/fentec-project/gomc/chain"
	"github.com/fentec-project/gomc/data"
	"github.com/fentec-project/gomc/internal/stats"
	"github.com/fentec-project/gomc/target"
)

// Acceptance rates random-walk proposals are steered towards when no
// explicit target rate is configured.
const (
	// DefaultTargetRate is the optimal acceptance rate of a Gaussian
	// random walk in high dimension.
	DefaultTargetRate = 0.234
	// DefaultTargetRate1D is the optimal acceptance rate for a
	// one-dimensional target.
	DefaultTargetRate1D = 0.44
)

// optimalScaling is the proposal-covariance multiplier 2.38^2/d
// expressed on the standard deviation.
const optimalScaling = 2.38

// AdaptiveMetropolisParams holds the parameters of an adaptive
// random-walk kernel.
type AdaptiveMetropolisParams struct {
	// Scale0 is the standard deviation of the spherical proposal used
	// until enough states have been observed to estimate a
	// covariance. Zero selects 1.
	Scale0 float64
	// TargetRate is the acceptance rate the kernel is steered
	// towards. Zero selects DefaultTargetRate, or
	// DefaultTargetRate1D for a one-dimensional target.
	TargetRate float64
	// RefreshEvery is the number of transitions between
	// refactorizations of the learned covariance. Zero selects 100.
	RefreshEvery int
	// Eps is the diagonal regularization added to the learned
	// covariance before factorizing it. Zero selects 1e-6.
	Eps float64
}

// AdaptiveMetropolis is a random-walk kernel that learns the proposal
// covariance from the states the chain has visited and scales its
// draws by lambda*2.38/sqrt(d), with lambda steered towards the
// target acceptance rate. The implementation is based on paper:
// "An adaptive Metropolis algorithm" by H. Haario, E. Saksman, and
// J. Tamminen (https://doi.org/10.2307/3318737). Until 2*d states
// have been observed the kernel falls back to a spherical proposal of
// standard deviation lambda*Scale0.
type AdaptiveMetropolis struct {
	t   target.Density
	src rand.Source
	rnd *rand.Rand
	dim int

	tuner   *adapt.ScaleTuner
	acc     *stats.Welford
	cov     mat.SymDense
	chol    mat.Cholesky
	solid   bool
	pause   int
	refresh int
	zero    []float64
	draw    []float64
	scale0  float64
	eps     float64

	adapting bool
	rec      record
}

// NewAdaptiveMetropolis returns an instance of the adaptive
// random-walk kernel for the target t, drawing from src.
func NewAdaptiveMetropolis(t target.Density, src rand.Source, params AdaptiveMetropolisParams) (*AdaptiveMetropolis, error) {
	if err := validateBase(t, src); err != nil {
		return nil, err
	}

	scale0 := params.Scale0
	if scale0 == 0 {
		scale0 = 1
	}
	if !positiveFinite(scale0) {
		return nil, errors.Wrapf(chain.ErrInvalidConfig, "initial scale should be a positive finite number, got %v", params.Scale0)
	}

	rate := params.TargetRate
	if rate == 0 {
		rate = DefaultTargetRate
		if t.Dim() == 1 {
			rate = DefaultTargetRate1D
		}
	}
	if !(rate > 0 && rate < 1) {
		return nil, errors.Wrapf(chain.ErrInvalidConfig, "target acceptance rate should be in (0, 1), got %v", params.TargetRate)
	}

	refresh := params.RefreshEvery
	if refresh == 0 {
		refresh = 100
	}
	if refresh < 0 {
		return nil, errors.Wrapf(chain.ErrInvalidConfig, "refresh interval should be positive, got %d", params.RefreshEvery)
	}

	eps := params.Eps
	if eps == 0 {
		eps = 1e-6
	}
	if !positiveFinite(eps) {
		return nil, errors.Wrapf(chain.ErrInvalidConfig, "regularization should be a positive finite number, got %v", params.Eps)
	}

	// lambda starts at 1 so that the initial proposal is exactly the
	// configured one.
	tuner, err := adapt.NewScaleTuner(1, rate)
	if err != nil {
		return nil, err
	}

	dim := t.Dim()
	return &AdaptiveMetropolis{
		t:        t,
		src:      src,
		rnd:      rand.New(src),
		dim:      dim,
		tuner:    tuner,
		acc:      stats.NewWelford(dim),
		zero:     make([]float64, dim),
		draw:     make([]float64, dim),
		scale0:   scale0,
		eps:      eps,
		refresh:  refresh,
		adapting: true,
	}, nil
}

// Init evaluates the target at x and returns the starting state. The
// start point is the first observation of the covariance estimate.
func (a *AdaptiveMetropolis) Init(x data.Vector) (chain.State, error) {
	s, err := initState(a.t, x)
	if err != nil {
		return chain.State{}, err
	}
	if a.adapting {
		a.acc.Push(s.X)
	}
	return s, nil
}

// Step proposes a move from the learned covariance and applies the
// Metropolis rule. The proposal distribution is symmetric at every
// fixed time, so the acceptance ratio is the difference of target
// log-densities.
func (a *AdaptiveMetropolis) Step(cur chain.State) (chain.State, error) {
	y := cur.X.Copy()
	if a.solid {
		s := a.tuner.Scale() * optimalScaling / math.Sqrt(float64(a.dim))
		distmv.NormalRand(a.draw, a.zero, &a.chol, a.src)
		for i := range y {
			y[i] += s * a.draw[i]
		}
	} else {
		s := a.tuner.Scale() * a.scale0
		for i := range y {
			y[i] += s * a.rnd.NormFloat64()
		}
	}

	accepted := false
	alpha := 0.0
	lpY := a.t.LogProb(y)
	if !math.IsNaN(lpY) {
		logRatio := lpY - cur.LogProb
		alpha = acceptProb(logRatio)
		accepted = accept(a.rnd, logRatio)
	}

	next := chain.State{X: cur.X, LogProb: cur.LogProb, N: cur.N + 1}
	if accepted {
		next.X = y
		next.LogProb = lpY
	}
	a.rec.observe(accepted)

	if a.adapting {
		if err := a.tuner.Update(alpha); err != nil {
			return chain.State{}, err
		}
		a.acc.Push(next.X)
		a.refactor()
	}
	return next, nil
}

// refactor refreshes the Cholesky factor of the regularized
// covariance estimate once enough states have been observed, and then
// again after every refresh interval.
func (a *AdaptiveMetropolis) refactor() {
	if a.acc.Count() < 2*a.dim {
		return
	}
	if a.pause > 0 {
		a.pause--
		return
	}
	a.pause = a.refresh

	if !a.acc.Cov(&a.cov) {
		return
	}
	for i := 0; i < a.dim; i++ {
		a.cov.SetSym(i, i, a.cov.At(i, i)+a.eps)
	}
	if a.chol.Factorize(&a.cov) {
		a.solid = true
	}
}

// SetAdapting gates covariance learning and scale tuning together.
// Once disabled, the kernel keeps proposing from the last factor it
// learned.
func (a *AdaptiveMetropolis) SetAdapting(on bool) {
	a.adapting = on
	if on {
		a.tuner.Thaw()
	} else {
		a.tuner.Freeze()
	}
}

// Stats reports the transition counters accumulated so far.
func (a *AdaptiveMetropolis) Stats() chain.Stats {
	return a.rec.stats()
}

// Scale returns the current value of lambda, the multiplier applied
// on top of the optimal-scaling factor.
func (a *AdaptiveMetropolis) Scale() float64 {
	return a.tuner.Scale()
}

// SetScale replaces lambda.
func (a *AdaptiveMetropolis) SetScale(scale float64) {
	a.tuner.SetScale(scale)
}

// Observed returns the number of states consumed by the covariance
// estimate.
func (a *AdaptiveMetropolis) Observed() int {
	return a.acc.Count()
}
