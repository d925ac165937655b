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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrix(t *testing.T) {
	x := Matrix{
		Vector{1, 2, 3},
		Vector{4, 5, 6},
	}
	y := Matrix{
		Vector{6, 5, 4},
		Vector{3, 2, 1},
	}

	add, err := x.Add(y)
	if err != nil {
		t.Fatalf("Error during matrix addition: %v", err)
	}
	sub, err := x.Sub(y)
	if err != nil {
		t.Fatalf("Error during matrix subtraction: %v", err)
	}
	scaled := x.MulScalar(2)

	for i := 0; i < x.Rows(); i++ {
		for j := 0; j < x.Cols(); j++ {
			assert.Equal(t, x[i][j]+y[i][j], add[i][j], "coordinates should sum correctly")
			assert.Equal(t, x[i][j]-y[i][j], sub[i][j], "coordinates should subtract correctly")
			assert.Equal(t, 2*x[i][j], scaled[i][j], "coordinates should scale correctly")
		}
	}

	mismatched := Matrix{Vector{1, 2}}
	_, err = x.Add(mismatched)
	assert.Error(t, err, "expected an error because of dimension mismatch")
	_, err = x.Sub(mismatched)
	assert.Error(t, err, "expected an error because of dimension mismatch")
}

func TestNewMatrix(t *testing.T) {
	rows := []Vector{{1, 2}, {3, 4}}
	m, err := NewMatrix(rows)
	assert.NoError(t, err)

	rows[0][0] = -100
	assert.Equal(t, 1.0, m[0][0], "the matrix should not alias the input vectors")

	_, err = NewMatrix([]Vector{{1, 2}, {3}})
	assert.Error(t, err, "ragged rows should be rejected")
}

func TestMatrix_Empty(t *testing.T) {
	var m Matrix
	assert.Equal(t, 0, m.Rows())
	assert.Equal(t, 0, m.Cols())

	_, err := m.ToDense()
	assert.Error(t, err)
	_, err = m.ToSym()
	assert.Error(t, err)
}

func TestMatrix_DimsMatch(t *testing.T) {
	m1 := NewConstantMatrix(2, 3, 0)
	m2 := NewConstantMatrix(2, 3, 1)
	m3 := NewConstantMatrix(2, 4, 0)
	m4 := NewConstantMatrix(3, 3, 0)

	assert.True(t, m1.DimsMatch(m2))
	assert.False(t, m1.DimsMatch(m3))
	assert.False(t, m1.DimsMatch(m4))
}

func TestMatrix_GetCol(t *testing.T) {
	m := Matrix{
		Vector{1, 2, 3},
		Vector{4, 5, 6},
	}

	col, err := m.GetCol(1)
	assert.NoError(t, err)
	assert.Equal(t, Vector{2, 5}, col)

	_, err = m.GetCol(3)
	assert.Error(t, err, "expected an error because of column index out of bounds")
}

func TestMatrix_Transpose(t *testing.T) {
	m := Matrix{
		Vector{1, 2, 3},
		Vector{4, 5, 6},
	}
	mT := m.Transpose()

	assert.Equal(t, m.Cols(), mT.Rows())
	assert.Equal(t, m.Rows(), mT.Cols())
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			assert.Equal(t, m[i][j], mT[j][i], "transposition should swap the indices")
		}
	}

	assert.Equal(t, m, mT.Transpose(), "transposing twice should give the original matrix")
}

func TestMatrix_Dot(t *testing.T) {
	m1 := Matrix{
		Vector{1, 2},
		Vector{3, 4},
	}
	m2 := Matrix{
		Vector{4, 3},
		Vector{2, 1},
	}
	mismatched := Matrix{
		Vector{1, 2},
	}

	dot, _ := m1.Dot(m2)
	_, err := m1.Dot(mismatched)

	assert.Equal(t, 20.0, dot, "dot product of matrices does not work correctly")
	assert.Error(t, err, "expected an error because of dimension mismatch")
}

func TestMatrix_MulVec(t *testing.T) {
	m := Matrix{
		Vector{1, 2, 3},
		Vector{4, 5, 6},
	}
	v := Vector{2, 2, 2}
	vMismatched := Vector{1}

	mvExpected := Vector{12, 30}
	mv, _ := m.MulVec(v)
	_, err := m.MulVec(vMismatched)

	assert.Equal(t, mvExpected, mv, "product of matrix and vector does not work correctly")
	assert.Error(t, err, "expected an error because of dimension mismatch")
}

func TestMatrix_CopyAndApply(t *testing.T) {
	m := NewConstantMatrix(2, 2, 2.5)
	cp := m.Copy()
	cp[0][0] = -1

	assert.Equal(t, 2.5, m[0][0], "copy should not alias the original")

	sq := m.Apply(func(c float64) float64 { return c * c })
	for i := range sq {
		for j := range sq[i] {
			assert.Equal(t, 6.25, sq[i][j], "apply should transform every entry")
		}
	}
}

func TestMatrix_IsFinite(t *testing.T) {
	assert.True(t, Matrix{Vector{0, 1}, Vector{-1, 1e300}}.IsFinite())
	assert.False(t, Matrix{Vector{0, math.NaN()}}.IsFinite())
	assert.False(t, Matrix{Vector{0, 1}, Vector{math.Inf(1), 0}}.IsFinite())
}

func TestMatrix_Symmetric(t *testing.T) {
	assert.True(t, Matrix{Vector{2, 1}, Vector{1, 3}}.Symmetric())
	assert.False(t, Matrix{Vector{2, 1}, Vector{-1, 3}}.Symmetric())
	assert.False(t, Matrix{Vector{1, 2, 3}}.Symmetric(), "a non-square matrix is never symmetric")
}

func TestMatrix_ToDense(t *testing.T) {
	m := Matrix{
		Vector{1, 2, 3},
		Vector{4, 5, 6},
	}

	d, err := m.ToDense()
	assert.NoError(t, err)

	r, c := d.Dims()
	assert.Equal(t, m.Rows(), r)
	assert.Equal(t, m.Cols(), c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			assert.Equal(t, m[i][j], d.At(i, j), "dense entries should match the source matrix")
		}
	}
}

func TestMatrix_ToSym(t *testing.T) {
	m := Matrix{
		Vector{2, 0.5},
		Vector{0.5, 1},
	}

	s, err := m.ToSym()
	assert.NoError(t, err)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			assert.Equal(t, m[i][j], s.At(i, j), "symmetric entries should match the source matrix")
		}
	}

	_, err = Matrix{Vector{2, 1}, Vector{-1, 3}}.ToSym()
	assert.Error(t, err, "an asymmetric matrix should be rejected")

	_, err = Matrix{Vector{1, 2, 3}}.ToSym()
	assert.Error(t, err, "a non-square matrix should be rejected")
}
