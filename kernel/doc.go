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

// Package kernel provides the transition kernels chains are built
// from.
//
// Metropolis and AdaptiveMetropolis are random-walk kernels, Slice is
// a coordinate-wise slice sampler and HMC a Hamiltonian kernel; Cycle
// and Mixture compose kernels into a single one. Every kernel draws
// randomness from the source bound at construction, keeps the current
// position when a proposal's log-density cannot be evaluated, and
// reports its transition counters through Stats.
package kernel
