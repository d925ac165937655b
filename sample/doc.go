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

// Package sample provides the seedable random streams that drive
// the sampling chains.
//
// Every chain owns exactly one rand.Source (golang.org/x/exp/rand)
// and all of the chain's randomness - proposals, accept/reject draws,
// kernel selection - is consumed from that single stream. This is what
// makes runs reproducible: two chains constructed from the same seed
// produce the same sequence of states, and independent seeds give
// statistically independent chains.
//
// Two source implementations are provided. NewSource wraps the PCG
// generator used by the gonum distributions, and SalsaSource derives
// a deterministic stream from a 32-byte key using the salsa20
// keystream. Both can be used interchangeably wherever a chain stream
// is required.
package sample
