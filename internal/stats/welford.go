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

// Package stats provides the online moment accumulator used by the
// covariance-learning kernels. Values are folded in one at a time with
// the Welford update, so no history of visited points is kept.
package stats

import (
	"gonum.org/v1/gonum/mat"
)

// Welford accumulates the running mean and covariance of a stream of
// vectors. The update is numerically stable for long streams, which
// matters here because a chain can feed the accumulator for millions
// of iterations.
type Welford struct {
	dim    int
	n      int
	mean   []float64
	m2     *mat.SymDense
	delta  []float64
	delta2 []float64
}

// NewWelford returns an accumulator for vectors of the given
// dimension.
func NewWelford(dim int) *Welford {
	if dim < 1 {
		panic("stats: dimension should be at least 1")
	}

	return &Welford{
		dim:    dim,
		mean:   make([]float64, dim),
		m2:     mat.NewSymDense(dim, nil),
		delta:  make([]float64, dim),
		delta2: make([]float64, dim),
	}
}

// Push folds one observation into the running moments.
func (w *Welford) Push(x []float64) {
	if len(x) != w.dim {
		panic("stats: observation dimension mismatch")
	}

	w.n++
	nInv := 1 / float64(w.n)
	for i, xi := range x {
		w.delta[i] = xi - w.mean[i]
		w.mean[i] += w.delta[i] * nInv
		w.delta2[i] = xi - w.mean[i]
	}

	for i := 0; i < w.dim; i++ {
		for j := i; j < w.dim; j++ {
			w.m2.SetSym(i, j, w.m2.At(i, j)+w.delta[i]*w.delta2[j])
		}
	}
}

// Count returns the number of observations folded in so far.
func (w *Welford) Count() int {
	return w.n
}

// Mean returns a copy of the running mean.
func (w *Welford) Mean() []float64 {
	mean := make([]float64, w.dim)
	copy(mean, w.mean)

	return mean
}

// Cov writes the sample covariance into dst and reports whether it is
// defined, which requires at least two observations. dst must be empty
// or of matching dimension.
func (w *Welford) Cov(dst *mat.SymDense) bool {
	if w.n < 2 {
		return false
	}

	scale := 1 / float64(w.n-1)
	if dst.IsEmpty() {
		dst.ReuseAsSym(w.dim)
	}
	for i := 0; i < w.dim; i++ {
		for j := i; j < w.dim; j++ {
			dst.SetSym(i, j, w.m2.At(i, j)*scale)
		}
	}

	return true
}
