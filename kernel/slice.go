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

// maxShrink bounds the shrinkage loop of a single coordinate update.
const maxShrink = 100

// SliceParams holds the parameters of a slice-sampling kernel.
type SliceParams struct {
	// Width is the initial length of the stepping-out interval. Zero
	// selects 1.
	Width float64
	// MaxStepOut bounds the number of interval extensions per
	// coordinate update. Zero selects 50.
	MaxStepOut int
}

// Slice updates one coordinate at a time by sampling uniformly from
// the region under the target density. The implementation is based on
// paper: "Slice sampling" by R. M. Neal
// (https://doi.org/10.1214/aos/1056562461), using the stepping-out
// and shrinkage procedures. Every transition sweeps all coordinates
// in order, and a coordinate whose shrinkage loop cannot find a point
// inside the slice keeps its value, counted as a rejection.
type Slice struct {
	t      target.Density
	rnd    *rand.Rand
	width  float64
	maxOut int
	rec    record
}

// NewSlice returns an instance of the slice-sampling kernel for the
// target t, drawing from src.
func NewSlice(t target.Density, src rand.Source, params SliceParams) (*Slice, error) {
	if err := validateBase(t, src); err != nil {
		return nil, err
	}

	width := params.Width
	if width == 0 {
		width = 1
	}
	if !positiveFinite(width) {
		return nil, errors.Wrapf(chain.ErrInvalidConfig, "interval width should be a positive finite number, got %v", params.Width)
	}

	maxOut := params.MaxStepOut
	if maxOut == 0 {
		maxOut = 50
	}
	if maxOut < 0 {
		return nil, errors.Wrapf(chain.ErrInvalidConfig, "step-out bound should be positive, got %d", params.MaxStepOut)
	}

	return &Slice{
		t:      t,
		rnd:    rand.New(src),
		width:  width,
		maxOut: maxOut,
	}, nil
}

// Init evaluates the target at x and returns the starting state.
func (s *Slice) Init(x data.Vector) (chain.State, error) {
	return initState(s.t, x)
}

// Step performs one full sweep over the coordinates.
func (s *Slice) Step(cur chain.State) (chain.State, error) {
	y := cur.X.Copy()
	lp := cur.LogProb
	for i := range y {
		lp = s.updateCoord(y, i, lp)
	}

	return chain.State{X: y, LogProb: lp, N: cur.N + 1}, nil
}

// updateCoord replaces coordinate i of y by a draw from the slice
// through (y, lp) and returns the log-density of the updated point.
func (s *Slice) updateCoord(y data.Vector, i int, lp float64) float64 {
	// The level is drawn in log space to keep densities far below
	// the mode representable.
	logY := lp + math.Log(s.rnd.Float64())

	// Step out: position an interval of the configured width
	// uniformly around the current value, then extend each end until
	// it leaves the slice or the step-out allowance is spent.
	left := y[i] - s.width*s.rnd.Float64()
	right := left + s.width
	ext := s.rnd.Float64()
	j := int(math.Floor(float64(s.maxOut) * ext))
	k := s.maxOut - 1 - j
	for ; j > 0 && s.logProbAt(y, i, left) > logY; j-- {
		left -= s.width
	}
	for ; k > 0 && s.logProbAt(y, i, right) > logY; k-- {
		right += s.width
	}

	// Shrink: draw uniformly from the interval, shrinking it towards
	// the current value on every miss.
	cur := y[i]
	for n := 0; n < maxShrink; n++ {
		x1 := left + s.rnd.Float64()*(right-left)
		lp1 := s.logProbAt(y, i, x1)
		if lp1 > logY {
			y[i] = x1
			s.rec.observe(true)
			return lp1
		}
		if x1 < cur {
			left = x1
		} else {
			right = x1
		}
	}

	// The coordinate keeps its value when the slice cannot be hit.
	s.rec.observe(false)
	return lp
}

// logProbAt evaluates the target with coordinate i of y set to v,
// mapping a failed evaluation to an impossible level.
func (s *Slice) logProbAt(y data.Vector, i int, v float64) float64 {
	old := y[i]
	y[i] = v
	lp := s.t.LogProb(y)
	y[i] = old
	if math.IsNaN(lp) {
		return math.Inf(-1)
	}
	return lp
}

// SetAdapting is a no-op: the kernel has no tunable parameters.
func (s *Slice) SetAdapting(on bool) {}

// Stats reports the per-coordinate update counters.
func (s *Slice) Stats() chain.Stats {
	return s.rec.stats()
}
