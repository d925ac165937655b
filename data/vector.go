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

package data

import (
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"
)

// Vector wraps a slice of float64 coordinates representing one point
// in parameter space. A Vector handed to a sampling state is treated
// as immutable: the methods below return their result in a new Vector
// and never modify the receiver in place.
type Vector []float64

// NewVector returns a new Vector instance.
func NewVector(coordinates []float64) Vector {
	return Vector(coordinates)
}

// NewConstantVector returns a new Vector instance
// with all elements set to constant c.
func NewConstantVector(len int, c float64) Vector {
	vec := make(Vector, len)
	for i := 0; i < len; i++ {
		vec[i] = c
	}

	return vec
}

// Copy creates a new vector with the same values
// of the entries.
func (v Vector) Copy() Vector {
	newVec := make(Vector, len(v))
	copy(newVec, v)

	return newVec
}

// Add adds vectors v and other.
// The result is returned in a new Vector.
func (v Vector) Add(other Vector) Vector {
	sum := v.Copy()
	floats.Add(sum, other)

	return sum
}

// Sub subtracts vectors v and other.
// The result is returned in a new Vector.
func (v Vector) Sub(other Vector) Vector {
	diff := v.Copy()
	floats.Sub(diff, other)

	return diff
}

// MulScalar multiplies vector v by a given scalar x.
// The result is returned in a new Vector.
func (v Vector) MulScalar(x float64) Vector {
	res := v.Copy()
	floats.Scale(x, res)

	return res
}

// AddScaled adds x * other to vector v.
// The result is returned in a new Vector.
func (v Vector) AddScaled(x float64, other Vector) Vector {
	res := v.Copy()
	floats.AddScaled(res, x, other)

	return res
}

// Dot calculates the dot product (inner product) of vectors v and other.
// It returns an error if vectors have different numbers of elements.
func (v Vector) Dot(other Vector) (float64, error) {
	if len(v) != len(other) {
		return 0, fmt.Errorf("vectors should be of same length")
	}

	return floats.Dot(v, other), nil
}

// SquaredNorm calculates the squared Euclidean norm of vector v.
func (v Vector) SquaredNorm() float64 {
	return floats.Dot(v, v)
}

// Norm calculates the Euclidean norm of vector v.
func (v Vector) Norm() float64 {
	return floats.Norm(v, 2)
}

// Apply applies an element-wise function f to vector v.
// The result is returned in a new Vector.
func (v Vector) Apply(f func(float64) float64) Vector {
	res := make(Vector, len(v))

	for i, vi := range v {
		res[i] = f(vi)
	}

	return res
}

// IsFinite checks whether all coordinates of vector v are finite,
// that is neither NaN nor an infinity.
func (v Vector) IsFinite() bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}

	return true
}

// String produces a string representation of a vector.
func (v Vector) String() string {
	vStr := ""
	for _, c := range v {
		vStr = vStr + " " + strconv.FormatFloat(c, 'g', -1, 64)
	}
	return vStr
}
