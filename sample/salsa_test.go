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

package sample_test

import (
	"testing"

	"github.com/fentec-project/gomc/sample"
	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"
)

func testKey(fill byte) *[32]byte {
	var key [32]byte
	for i := range key {
		key[i] = fill + byte(i)
	}
	return &key
}

func TestSalsaSource_Deterministic(t *testing.T) {
	s1 := sample.NewSalsaSource(testKey(3))
	s2 := sample.NewSalsaSource(testKey(3))

	for i := 0; i < 64; i++ {
		assert.Equal(t, s1.Uint64(), s2.Uint64(), "equal keys should produce equal streams")
	}

	s3 := sample.NewSalsaSource(testKey(4))
	same := true
	for i := 0; i < 8; i++ {
		if s1.Uint64() != s3.Uint64() {
			same = false
		}
	}
	assert.False(t, same, "different keys should produce different streams")
}

func TestSalsaSource_Seed(t *testing.T) {
	s1 := sample.NewSalsaSource(testKey(0))
	s1.Seed(42)

	s2 := sample.NewSalsaSource(testKey(9))
	s2.Seed(42)

	for i := 0; i < 32; i++ {
		assert.Equal(t, s1.Uint64(), s2.Uint64(), "re-keyed sources with equal seeds should agree")
	}

	s2.Seed(43)
	same := true
	for i := 0; i < 8; i++ {
		if s1.Uint64() != s2.Uint64() {
			same = false
		}
	}
	assert.False(t, same, "different seeds should produce different streams")
}

func TestSalsaSource_Uniform(t *testing.T) {
	rnd := rand.New(sample.NewSalsaSource(testKey(7)))

	n := 20000
	sum := 0.0
	for i := 0; i < n; i++ {
		u := rnd.Float64()
		if u < 0 || u >= 1 {
			t.Fatalf("draw outside [0,1): %v", u)
		}
		sum += u
	}
	mean := sum / float64(n)

	// mean of uniform draws should be around 0.5
	assert.True(t, mean > 0.47, "mean of the uniform stream is too small")
	assert.True(t, mean < 0.53, "mean of the uniform stream is too big")
}
