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

// Package chain runs Markov chains built from transition kernels.
//
// A Runner drives a single kernel through a warm-up phase and a
// sampling phase, recording a thinned Chain of states. Results can be
// collected in one call with Run or consumed lazily through a Stream.
// An Ensemble runs several independent chains derived from a single
// root seed, either sequentially or on a bounded pool of workers, and
// produces the same per-chain output in both modes.
package chain
