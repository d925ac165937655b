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
	"gonum.org/v1/gonum/stat"

	"github.com/fentec-project/gomc/data"
)

// State is a single position of a Markov chain together with its
// cached target log-density. Kernels never modify the position of a
// state they were given; an accepted move carries a freshly allocated
// vector, a rejected one shares the previous position.
type State struct {
	// X is the position in parameter space.
	X data.Vector
	// LogProb is the target log-density at X.
	LogProb float64
	// N counts the kernel transitions that led to this state,
	// rejected ones included. The state returned by Init has N = 0.
	N int
}

// Chain is the ordered record of states emitted by a single run.
type Chain []State

// Component collects coordinate i of every recorded state.
func (c Chain) Component(i int) []float64 {
	xs := make([]float64, len(c))
	for j, s := range c {
		xs[j] = s.X[i]
	}
	return xs
}

// Mean returns the per-coordinate sample mean of the recorded states,
// or nil for an empty chain.
func (c Chain) Mean() data.Vector {
	if len(c) == 0 {
		return nil
	}

	m := make(data.Vector, len(c[0].X))
	for i := range m {
		m[i] = stat.Mean(c.Component(i), nil)
	}
	return m
}

// Variance returns the per-coordinate sample variance of the recorded
// states, or nil for an empty chain.
func (c Chain) Variance() data.Vector {
	if len(c) == 0 {
		return nil
	}

	v := make(data.Vector, len(c[0].X))
	for i := range v {
		v[i] = stat.Variance(c.Component(i), nil)
	}
	return v
}
