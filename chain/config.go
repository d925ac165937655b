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

package chain

import (
	"github.com/pkg/errors"

	"github.com/fentec-project/gomc/data"
)

var (
	// ErrInvalidConfig is returned when a sampler is constructed with
	// parameters outside their allowed range.
	ErrInvalidConfig = errors.New("invalid sampler configuration")
	// ErrInvalidInit is returned when a chain's start point has a
	// non-finite log-density under the target.
	ErrInvalidInit = errors.New("invalid initial state")
)

// Config fixes the run lengths of a single chain.
type Config struct {
	// Iterations is the number of sampling-phase transitions.
	Iterations int
	// BurnIn is the number of warm-up transitions performed before
	// sampling starts. Warm-up states are discarded unless KeepBurnIn
	// is set.
	BurnIn int
	// Thin records every Thin-th sampling iteration, starting with
	// the first.
	Thin int
	// AdaptUntil is the total number of transitions after which
	// kernels stop tuning themselves. Zero freezes adaptation at the
	// end of warm-up.
	AdaptUntil int
	// KeepBurnIn also records the warm-up states, unthinned.
	KeepBurnIn bool
}

// DefaultConfig returns the standard run lengths: 1000 warm-up
// transitions followed by 2000 sampling iterations, no thinning, and
// adaptation frozen when warm-up ends.
func DefaultConfig() Config {
	return Config{
		Iterations: 2000,
		BurnIn:     1000,
		Thin:       1,
	}
}

// Validate checks the run lengths and reports violations as
// ErrInvalidConfig.
func (c Config) Validate() error {
	if c.Iterations < 1 {
		return errors.Wrapf(ErrInvalidConfig, "iterations should be at least 1, got %d", c.Iterations)
	}
	if c.BurnIn < 0 {
		return errors.Wrapf(ErrInvalidConfig, "burn-in should not be negative, got %d", c.BurnIn)
	}
	if c.Thin < 1 {
		return errors.Wrapf(ErrInvalidConfig, "thinning interval should be at least 1, got %d", c.Thin)
	}
	if c.AdaptUntil < 0 {
		return errors.Wrapf(ErrInvalidConfig, "adaptation window should not be negative, got %d", c.AdaptUntil)
	}
	return nil
}

// adaptLimit resolves the number of transitions during which kernels
// may keep tuning themselves.
func (c Config) adaptLimit() int {
	if c.AdaptUntil == 0 {
		return c.BurnIn
	}
	return c.AdaptUntil
}

// EnsembleConfig fixes a multi-chain run.
type EnsembleConfig struct {
	// Chains is the number of independent chains.
	Chains int
	// Workers bounds the number of chains advanced concurrently.
	// Values below 2 select the sequential mode.
	Workers int
	// Seed is the root seed every per-chain stream derives from.
	Seed uint64
	// Init is the start point shared by all chains.
	Init data.Vector
	// Config applies to each chain separately.
	Config
}

// Validate checks the ensemble surface together with the embedded
// Config.
func (c EnsembleConfig) Validate() error {
	if c.Chains < 1 {
		return errors.Wrapf(ErrInvalidConfig, "chain count should be at least 1, got %d", c.Chains)
	}
	if len(c.Init) == 0 {
		return errors.Wrap(ErrInvalidInit, "empty start point")
	}
	return c.Config.Validate()
}
