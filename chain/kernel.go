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
	"golang.org/x/exp/rand"

	"github.com/fentec-project/gomc/data"
)

// Kernel advances a Markov chain by single transitions. A kernel owns
// its source of randomness and is not safe for concurrent use; every
// chain gets a kernel of its own.
type Kernel interface {
	// Init evaluates the target at x and returns the chain's starting
	// state. A start point whose log-density is not finite makes the
	// chain unrunnable and yields an error wrapping ErrInvalidInit.
	Init(x data.Vector) (State, error)

	// Step performs one transition from cur. The returned state has
	// N = cur.N + 1 whether the proposal was accepted or not. A
	// returned error means the chain cannot continue.
	Step(cur State) (State, error)

	// SetAdapting enables or disables self-tuning. Kernels without
	// tunable parameters ignore the call.
	SetAdapting(on bool)

	// Stats reports the transition counters accumulated so far.
	Stats() Stats
}

// Factory builds the kernel of chain chainIdx. The kernel must draw
// its randomness exclusively from src.
type Factory func(chainIdx int, src rand.Source) (Kernel, error)

// Stats counts the transitions a kernel has performed.
type Stats struct {
	Steps    int
	Accepted int
}

// Rate returns the fraction of accepted transitions, or 0 before the
// first one.
func (s Stats) Rate() float64 {
	if s.Steps == 0 {
		return 0
	}
	return float64(s.Accepted) / float64(s.Steps)
}

// Add returns the sum of two counters.
func (s Stats) Add(other Stats) Stats {
	return Stats{
		Steps:    s.Steps + other.Steps,
		Accepted: s.Accepted + other.Accepted,
	}
}
