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

package sample

import (
	"golang.org/x/exp/rand"
)

// NewSource returns a new seedable pseudo-random source for one chain.
// It is backed by the PCG generator from golang.org/x/exp/rand, the
// source type consumed by the gonum distributions.
func NewSource(seed uint64) rand.Source {
	return rand.NewSource(seed)
}

// DeriveSeeds derives n chain seeds from a single root seed.
// The root stream is instantiated and read exactly once, so the i-th
// derived seed depends only on the root seed and on i. Feeding each
// derived seed to NewSource gives every chain an independent stream.
func DeriveSeeds(seed uint64, n int) []uint64 {
	root := rand.New(NewSource(seed))

	seeds := make([]uint64, n)
	for i := range seeds {
		seeds[i] = root.Uint64()
	}

	return seeds
}
