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

	"github.com/fentec-project/gomc/chain"
	"github.com/fentec-project/gomc/data"
)

// Cycle combines kernels by applying each of them once, in the given
// order, per transition. Combining random-walk kernels restricted to
// disjoint coordinate blocks gives a Gibbs-style systematic scan.
// However many sub-kernels run, one call to Step advances the state
// count by one.
type Cycle struct {
	ks []chain.Kernel
}

// NewCycle returns a kernel cycling through ks.
func NewCycle(ks ...chain.Kernel) (*Cycle, error) {
	if len(ks) == 0 {
		return nil, errors.Wrap(chain.ErrInvalidConfig, "a cycle needs at least one kernel")
	}
	for i, k := range ks {
		if k == nil {
			return nil, errors.Wrapf(chain.ErrInvalidConfig, "kernel %d is nil", i)
		}
	}

	return &Cycle{ks: append([]chain.Kernel(nil), ks...)}, nil
}

// Init returns the starting state produced by the first sub-kernel.
func (c *Cycle) Init(x data.Vector) (chain.State, error) {
	return c.ks[0].Init(x)
}

// Step applies every sub-kernel once, threading the state through
// them in order.
func (c *Cycle) Step(cur chain.State) (chain.State, error) {
	s := cur
	for _, k := range c.ks {
		next, err := k.Step(s)
		if err != nil {
			return chain.State{}, err
		}
		s = next
	}

	s.N = cur.N + 1
	return s, nil
}

// SetAdapting forwards the switch to every sub-kernel.
func (c *Cycle) SetAdapting(on bool) {
	for _, k := range c.ks {
		k.SetAdapting(on)
	}
}

// Stats sums the counters of the sub-kernels.
func (c *Cycle) Stats() chain.Stats {
	var total chain.Stats
	for _, k := range c.ks {
		total = total.Add(k.Stats())
	}
	return total
}
