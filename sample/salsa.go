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
	"encoding/binary"

	"golang.org/x/crypto/salsa20"
)

// salsaBlock is the number of keystream bytes generated per nonce.
const salsaBlock = 64

// SalsaSource is a deterministic random source whose values are read
// from a salsa20 keystream. The key fully determines the stream, which
// makes the source useful when a chain has to be replayed exactly from
// a compact piece of state. It implements the rand.Source interface
// from golang.org/x/exp/rand and can stand in for NewSource anywhere
// a chain stream is needed.
type SalsaSource struct {
	key  [32]byte
	ctr  uint64
	buf  [salsaBlock]byte
	next int
}

// NewSalsaSource returns an instance of the SalsaSource generator.
// The same key always reproduces the same stream.
func NewSalsaSource(key *[32]byte) *SalsaSource {
	return &SalsaSource{
		key:  *key,
		next: salsaBlock,
	}
}

// Seed re-keys the source. The 64-bit seed is expanded into a fresh
// 32-byte key, one splitmix64 step per key word, and the keystream
// position is reset to the beginning.
func (s *SalsaSource) Seed(seed uint64) {
	z := seed
	for i := 0; i < 4; i++ {
		z += 0x9e3779b97f4a7c15
		w := z
		w = (w ^ (w >> 30)) * 0xbf58476d1ce4e5b9
		w = (w ^ (w >> 27)) * 0x94d049bb133111eb
		w ^= w >> 31
		binary.LittleEndian.PutUint64(s.key[8*i:], w)
	}

	s.ctr = 0
	s.next = salsaBlock
}

// Uint64 returns the next 8 bytes of the keystream as an unsigned
// integer.
func (s *SalsaSource) Uint64() uint64 {
	if s.next == salsaBlock {
		s.refill()
	}

	u := binary.LittleEndian.Uint64(s.buf[s.next:])
	s.next += 8

	return u
}

// refill generates the next keystream block. Each block uses the
// running counter as its nonce, so the stream never repeats until the
// counter wraps.
func (s *SalsaSource) refill() {
	var nonce [8]byte
	binary.LittleEndian.PutUint64(nonce[:], s.ctr)
	s.ctr++

	for i := range s.buf {
		s.buf[i] = 0
	}
	salsa20.XORKeyStream(s.buf[:], s.buf[:], nonce[:], &s.key)
	s.next = 0
}
