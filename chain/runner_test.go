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

package chain_test

import (
	"context"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/fentec-project/gomc/adapt"
	"github.com/fentec-project/gomc/chain"
	"github.com/fentec-project/gomc/data"
	"github.com/fentec-project/gomc/kernel"
	"github.com/fentec-project/gomc/sample"
	"github.com/fentec-project/gomc/target"
)

var errProbe = errors.New("probe failure")

// probe is a deterministic kernel stub: every transition moves the
// first coordinate up by one, so emitted states can be predicted
// exactly.
type probe struct {
	adapting  bool
	whenOn    int
	whenOff   int
	failAfter int
	calls     int
}

func (p *probe) Init(x data.Vector) (chain.State, error) {
	return chain.State{X: x.Copy()}, nil
}

func (p *probe) Step(cur chain.State) (chain.State, error) {
	p.calls++
	if p.failAfter > 0 && p.calls >= p.failAfter {
		return chain.State{}, errProbe
	}
	if p.adapting {
		p.whenOn++
	} else {
		p.whenOff++
	}

	x := cur.X.Copy()
	x[0]++
	return chain.State{X: x, N: cur.N + 1}, nil
}

func (p *probe) SetAdapting(on bool) {
	p.adapting = on
}

func (p *probe) Stats() chain.Stats {
	return chain.Stats{Steps: p.calls, Accepted: p.calls}
}

func TestNewRunner_Validation(t *testing.T) {
	start := data.NewConstantVector(1, 0)

	_, err := chain.NewRunner(&probe{}, start, chain.Config{Iterations: 0, Thin: 1})
	assert.True(t, errors.Is(err, chain.ErrInvalidConfig))

	_, err = chain.NewRunner(nil, start, chain.DefaultConfig())
	assert.True(t, errors.Is(err, chain.ErrInvalidConfig))
}

func TestRunner_EmitsEverySamplingIteration(t *testing.T) {
	r, err := chain.NewRunner(&probe{}, data.NewConstantVector(1, 0), chain.Config{
		Iterations: 100,
		BurnIn:     30,
		Thin:       1,
	})
	assert.NoError(t, err)

	out, err := r.Run(context.Background())
	assert.NoError(t, err)
	assert.Len(t, out, 100)
	for i, s := range out {
		assert.Equal(t, 31+i, s.N, "burn-in states should not be emitted")
		assert.Equal(t, float64(31+i), s.X[0])
	}
	assert.Equal(t, chain.Done, r.Phase())
}

func TestRunner_ThinsTheSamplingPhase(t *testing.T) {
	r, err := chain.NewRunner(&probe{}, data.NewConstantVector(1, 0), chain.Config{
		Iterations: 100,
		BurnIn:     30,
		Thin:       3,
	})
	assert.NoError(t, err)

	out, err := r.Run(context.Background())
	assert.NoError(t, err)
	// iterations 1, 4, 7, ... of the sampling phase are kept
	assert.Len(t, out, 34)
	for i, s := range out {
		assert.Equal(t, 31+3*i, s.N)
	}
}

func TestRunner_KeepBurnIn(t *testing.T) {
	r, err := chain.NewRunner(&probe{}, data.NewConstantVector(1, 0), chain.Config{
		Iterations: 10,
		BurnIn:     5,
		Thin:       2,
		KeepBurnIn: true,
	})
	assert.NoError(t, err)

	out, err := r.Run(context.Background())
	assert.NoError(t, err)
	assert.Len(t, out, 10, "5 warm-up states plus 5 thinned sampling states")
	for i := 0; i < 5; i++ {
		assert.Equal(t, i+1, out[i].N, "warm-up states are kept unthinned")
	}
	for i := 0; i < 5; i++ {
		assert.Equal(t, 6+2*i, out[5+i].N, "sampling states follow the thinning schedule")
	}
}

func TestRunner_FreezesAdaptationAfterBurnIn(t *testing.T) {
	p := &probe{}
	r, err := chain.NewRunner(p, data.NewConstantVector(1, 0), chain.Config{
		Iterations: 90,
		BurnIn:     10,
		Thin:       1,
	})
	assert.NoError(t, err)

	_, err = r.Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 10, p.whenOn, "adaptation should cover exactly the warm-up")
	assert.Equal(t, 90, p.whenOff, "every sampling transition should use the frozen kernel")
}

func TestRunner_AdaptUntilOverridesTheWindow(t *testing.T) {
	p := &probe{}
	r, err := chain.NewRunner(p, data.NewConstantVector(1, 0), chain.Config{
		Iterations: 90,
		BurnIn:     10,
		Thin:       1,
		AdaptUntil: 25,
	})
	assert.NoError(t, err)

	_, err = r.Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 25, p.whenOn)
	assert.Equal(t, 75, p.whenOff)
}

func TestRunner_NoBurnInNeverAdapts(t *testing.T) {
	p := &probe{}
	r, err := chain.NewRunner(p, data.NewConstantVector(1, 0), chain.Config{
		Iterations: 50,
		Thin:       1,
	})
	assert.NoError(t, err)

	_, err = r.Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, p.whenOn)
	assert.Equal(t, 50, p.whenOff)
}

func TestRunner_InvalidStartPoint(t *testing.T) {
	half, err := target.NewFunc(1, func(x data.Vector) float64 {
		if x[0] < 0 {
			return math.Inf(-1)
		}
		return -x[0] * x[0] / 2
	})
	assert.NoError(t, err)
	k, err := kernel.NewMetropolis(half, sample.NewSource(3), kernel.MetropolisParams{})
	assert.NoError(t, err)

	_, err = chain.NewRunner(k, data.NewConstantVector(1, -4), chain.DefaultConfig())
	assert.Error(t, err)
	assert.True(t, errors.Is(err, chain.ErrInvalidInit))
}

func TestRunner_DivergenceAbortsTheChain(t *testing.T) {
	flat, err := target.NewFunc(1, func(x data.Vector) float64 { return 0 })
	assert.NoError(t, err)
	k, err := kernel.NewMetropolis(flat, sample.NewSource(4), kernel.MetropolisParams{TargetRate: 0.3})
	assert.NoError(t, err)
	k.SetScale(math.MaxFloat64)

	r, err := chain.NewRunner(k, data.NewConstantVector(1, 0), chain.Config{
		Iterations: 100,
		BurnIn:     10,
		Thin:       1,
	})
	assert.NoError(t, err)

	out, err := r.Run(context.Background())
	assert.Error(t, err)
	assert.True(t, errors.Is(err, adapt.ErrDiverged))
	assert.Empty(t, out)
}

func TestRunner_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := chain.NewRunner(&probe{}, data.NewConstantVector(1, 0), chain.DefaultConfig())
	assert.NoError(t, err)

	out, err := r.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, out)
}

func TestRunner_StandardNormalMoments(t *testing.T) {
	tgt, err := target.NewNormal(0, 1)
	assert.NoError(t, err)
	k, err := kernel.NewMetropolis(tgt, sample.NewSource(42), kernel.MetropolisParams{Scale: 1.0})
	assert.NoError(t, err)

	r, err := chain.NewRunner(k, data.NewConstantVector(1, 0), chain.Config{
		Iterations: 10000,
		BurnIn:     1000,
		Thin:       1,
	})
	assert.NoError(t, err)

	out, err := r.Run(context.Background())
	assert.NoError(t, err)
	assert.Len(t, out, 10000)

	me := out.Mean()[0]
	v := out.Variance()[0]
	// me should be around 0 and v should be around 1
	assert.True(t, me < 0.05, "mean value of the sampled distribution is too big")
	assert.True(t, me > -0.05, "mean value of the sampled distribution is too small")
	assert.True(t, v < 1.1, "variance of the sampled distribution is too big")
	assert.True(t, v > 0.9, "variance of the sampled distribution is too small")
}

func TestRunner_SalsaSourceIsInterchangeable(t *testing.T) {
	tgt, err := target.NewNormal(0, 1)
	assert.NoError(t, err)

	run := func(fill byte) chain.Chain {
		var key [32]byte
		for i := range key {
			key[i] = fill
		}
		k, err := kernel.NewMetropolis(tgt, sample.NewSalsaSource(&key), kernel.MetropolisParams{})
		assert.NoError(t, err)
		r, err := chain.NewRunner(k, data.NewConstantVector(1, 0), chain.Config{Iterations: 50, Thin: 1})
		assert.NoError(t, err)
		out, err := r.Run(context.Background())
		assert.NoError(t, err)
		return out
	}

	assert.Equal(t, run(1), run(1), "equal keys should replay the chain exactly")
	assert.NotEqual(t, run(1), run(2))
}
