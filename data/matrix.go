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

	"gonum.org/v1/gonum/mat"
)

// Matrix wraps a slice of Vector elements. It represents a row-major
// order matrix.
//
// The j-th element from the i-th vector of the matrix can be obtained
// as m[i][j].
type Matrix []Vector

// NewMatrix accepts a slice of Vector elements and
// returns a new Matrix instance.
// It returns error if not all the vectors have the same number of elements.
func NewMatrix(vectors []Vector) (Matrix, error) {
	l := -1
	newVectors := make([]Vector, len(vectors))

	if len(vectors) > 0 {
		l = len(vectors[0])
	}
	for i, v := range vectors {
		if len(v) != l {
			return nil, fmt.Errorf("all vectors should be of the same length")
		}
		newVectors[i] = v.Copy()
	}

	return Matrix(newVectors), nil
}

// NewConstantMatrix returns a new Matrix instance
// with all elements set to constant c.
func NewConstantMatrix(rows, cols int, c float64) Matrix {
	m := make(Matrix, rows)
	for i := 0; i < rows; i++ {
		m[i] = NewConstantVector(cols, c)
	}

	return m
}

// Rows returns the number of rows of matrix m.
func (m Matrix) Rows() int {
	return len(m)
}

// Cols returns the number of columns of matrix m.
func (m Matrix) Cols() int {
	if len(m) != 0 {
		return len(m[0])
	}

	return 0
}

// DimsMatch returns a bool indicating whether matrices
// m and other have the same dimensions.
func (m Matrix) DimsMatch(other Matrix) bool {
	return m.Rows() == other.Rows() && m.Cols() == other.Cols()
}

// GetCol returns i-th column of matrix m as a vector.
// It returns error if i >= the number of m's columns.
func (m Matrix) GetCol(i int) (Vector, error) {
	if i >= m.Cols() {
		return nil, fmt.Errorf("column index exceeds matrix dimensions")
	}

	column := make(Vector, m.Rows())
	for j := 0; j < m.Rows(); j++ {
		column[j] = m[j][i]
	}

	return column, nil
}

// Copy creates a new matrix with the same values
// of the entries.
func (m Matrix) Copy() Matrix {
	vectors := make([]Vector, m.Rows())
	for i, v := range m {
		vectors[i] = v.Copy()
	}

	return vectors
}

// Transpose transposes matrix m and returns
// the result in a new Matrix.
func (m Matrix) Transpose() Matrix {
	transposed := make([]Vector, m.Cols())
	for i := 0; i < m.Cols(); i++ {
		transposed[i], _ = m.GetCol(i)
	}

	return transposed
}

// Add adds matrices m and other.
// The result is returned in a new Matrix.
// Error is returned if m and other have different dimensions.
func (m Matrix) Add(other Matrix) (Matrix, error) {
	if !m.DimsMatch(other) {
		return nil, fmt.Errorf("matrices mismatch in dimensions")
	}

	vectors := make([]Vector, m.Rows())
	for i, v := range m {
		vectors[i] = v.Add(other[i])
	}

	return vectors, nil
}

// Sub subtracts matrices m and other.
// The result is returned in a new Matrix.
// Error is returned if m and other have different dimensions.
func (m Matrix) Sub(other Matrix) (Matrix, error) {
	if !m.DimsMatch(other) {
		return nil, fmt.Errorf("matrices mismatch in dimensions")
	}

	vectors := make([]Vector, m.Rows())
	for i, v := range m {
		vectors[i] = v.Sub(other[i])
	}

	return vectors, nil
}

// MulScalar multiplies elements of matrix m by a scalar x.
// The result is returned in a new Matrix.
func (m Matrix) MulScalar(x float64) Matrix {
	vectors := make([]Vector, m.Rows())
	for i, v := range m {
		vectors[i] = v.MulScalar(x)
	}

	return vectors
}

// MulVec multiplies matrix m and vector v.
// It returns the resulting vector.
// Error is returned if the number of columns of m differs from the number
// of elements of v.
func (m Matrix) MulVec(v Vector) (Vector, error) {
	if m.Cols() != len(v) {
		return nil, fmt.Errorf("cannot multiply matrix by a vector")
	}

	res := make(Vector, m.Rows())
	for i, row := range m {
		res[i], _ = row.Dot(v)
	}

	return res, nil
}

// Dot calculates the dot product (inner product) of matrices m and other,
// which we define as the sum of the dot product of rows of both matrices.
// It returns an error if m and other have different dimensions.
func (m Matrix) Dot(other Matrix) (float64, error) {
	if !m.DimsMatch(other) {
		return 0, fmt.Errorf("matrices mismatch in dimensions")
	}

	r := 0.0
	for i := 0; i < m.Rows(); i++ {
		prod, err := m[i].Dot(other[i])
		if err != nil {
			return 0, err
		}
		r += prod
	}

	return r, nil
}

// Apply applies an element-wise function f to matrix m.
// The result is returned in a new Matrix.
func (m Matrix) Apply(f func(float64) float64) Matrix {
	res := make(Matrix, len(m))
	for i, vi := range m {
		res[i] = vi.Apply(f)
	}

	return res
}

// IsFinite checks whether all entries of matrix m are finite,
// that is neither NaN nor an infinity.
func (m Matrix) IsFinite() bool {
	for _, v := range m {
		if !v.IsFinite() {
			return false
		}
	}

	return true
}

// Symmetric checks whether matrix m is square and equal to its
// transpose.
func (m Matrix) Symmetric() bool {
	if m.Rows() != m.Cols() {
		return false
	}
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < i; j++ {
			if m[i][j] != m[j][i] {
				return false
			}
		}
	}

	return true
}

// ToDense copies matrix m into a gonum dense matrix.
// It returns an error if m is empty.
func (m Matrix) ToDense() (*mat.Dense, error) {
	if m.Rows() == 0 || m.Cols() == 0 {
		return nil, fmt.Errorf("the matrix should not be empty")
	}

	d := mat.NewDense(m.Rows(), m.Cols(), nil)
	for i, v := range m {
		d.SetRow(i, v)
	}

	return d, nil
}

// ToSym copies matrix m into a gonum symmetric matrix, the form the
// gonum distributions expect a covariance in.
// It returns an error if m is empty or not symmetric.
func (m Matrix) ToSym() (*mat.SymDense, error) {
	if m.Rows() == 0 || m.Cols() == 0 {
		return nil, fmt.Errorf("the matrix should not be empty")
	}
	if !m.Symmetric() {
		return nil, fmt.Errorf("the matrix should be symmetric")
	}

	s := mat.NewSymDense(m.Rows(), nil)
	for i := 0; i < m.Rows(); i++ {
		for j := i; j < m.Cols(); j++ {
			s.SetSym(i, j, m[i][j])
		}
	}

	return s, nil
}
