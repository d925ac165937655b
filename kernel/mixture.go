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
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"

	"github.com/fentec-project/gomc/chain"
	"github.com/fentec-project/gomc/data"
)

// Mixture combines kernels by picking exactly one of them per
// transition, with probability proportional to its weight. The choice
// is drawn from the mixture's own stream, so the sub-kernels stay
// oblivious to each other.
type Mixture struct {
	ks      []chain.Kernel
	weights []float64
	total   float64
	rnd     *rand.Rand
}

// NewMixture returns a kernel choosing among ks with the given
// weights. All weights must be positive finite numbers.
func NewMixture(ks []chain.Kernel, weights []float64, src rand.Source) (*Mixture, error) {
	if len(ks) == 0 {
		return nil, errors.Wrap(chain.ErrInvalidConfig, "a mixture needs at least one kernel")
	}
	if len(ks) != len(weights) {
		return nil, errors.Wrapf(chain.ErrInvalidConfig, "%d kernels against %d weights", len(ks), len(weights))
	}
	if src == nil {
		return nil, errors.Wrap(chain.ErrInvalidConfig, "random source is nil")
	}

	total := 0.0
	for i, w := range weights {
		if ks[i] == nil {
			return nil, errors.Wrapf(chain.ErrInvalidConfig, "kernel %d is nil", i)
		}
		if !positiveFinite(w) {
			return nil, errors.Wrapf(chain.ErrInvalidConfig, "weight %d should be a positive finite number, got %v", i, w)
		}
		total += w
	}

	return &Mixture{
		ks:      append([]chain.Kernel(nil), ks...),
		weights: append([]float64(nil), weights...),
		total:   total,
		rnd:     rand.New(src),
	}, nil
}

// Init returns the starting state produced by the first sub-kernel.
func (m *Mixture) Init(x data.Vector) (chain.State, error) {
	return m.ks[0].Init(x)
}

// Step draws a sub-kernel according to the weights and applies it.
func (m *Mixture) Step(cur chain.State) (chain.State, error) {
	u := m.rnd.Float64() * m.total
	idx := len(m.ks) - 1
	acc := 0.0
	for i, w := range m.weights {
		acc += w
		if u < acc {
			idx = i
			break
		}
	}

	return m.ks[idx].Step(cur)
}

// SetAdapting forwards the switch to every sub-kernel.
func (m *Mixture) SetAdapting(on bool) {
	for _, k := range m.ks {
		k.SetAdapting(on)
	}
}

// Stats sums the counters of the sub-kernels.
func (m *Mixture) Stats() chain.Stats {
	var total chain.Stats
	for _, k := range m.ks {
		total = total.Add(k.Stats())
	}
	return total
}
