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

// Package adapt implements the stochastic controller that tunes a
// kernel's proposal scale towards a desired acceptance rate.
//
// The controller performs a Robbins-Monro update on the logarithm of
// the scale with a diminishing step sequence. Diminishing adaptation
// is what keeps the adapted chain's stationary distribution correct:
// adjustments shrink as the number of observed transitions grows, and
// adaptation is frozen entirely after a configured point so that the
// remaining run is a time-homogeneous Markov chain.
package adapt

import (
	"math"

	"github.com/pkg/errors"
)

// Default parameters of the diminishing step sequence
// gain(n) = Gain / n^Kappa.
const (
	// DefaultGain is the numerator of the step sequence.
	DefaultGain = 0.9
	// DefaultKappa is the decay exponent of the step sequence. Any
	// value in (0.5, 1] satisfies the diminishing-adaptation
	// requirement.
	DefaultKappa = 0.9
)

// ErrDiverged signals that a tuned scale stopped being a positive
// finite number. This is fatal for the chain that owns the tuner: it
// means the proposal family cannot be matched to the target density,
// and clamping the scale would only hide that.
var ErrDiverged = errors.New("adapted scale diverged")

// Tunable is the capability a kernel exposes so that a tuner can be
// attached to it: a single positive scale parameter that multiplies
// the kernel's proposal (step size, standard deviation, or a factor
// applied to a covariance draw).
type Tunable interface {
	// Scale returns the current value of the tunable parameter.
	Scale() float64
	// SetScale replaces the tunable parameter.
	SetScale(scale float64)
}

// ScaleTuner adjusts a proposal scale towards a target acceptance
// rate. After the n-th observed transition with realized acceptance
// probability alpha, the update is
//
//	log(scale) += gain/n^kappa * (alpha - targetRate),
//
// so too many acceptances grow the scale and too many rejections
// shrink it. The tuner owns the scale; kernels read it through Scale
// before every proposal.
type ScaleTuner struct {
	target   float64
	gain     float64
	kappa    float64
	logScale float64
	steps    int
	frozen   bool
}

// NewScaleTuner returns a tuner starting from the given scale and
// aiming at the given acceptance rate. It returns an error if scale is
// not a positive finite number or targetRate lies outside (0, 1).
func NewScaleTuner(scale, targetRate float64) (*ScaleTuner, error) {
	if !(scale > 0) || math.IsInf(scale, 1) || math.IsNaN(scale) {
		return nil, errors.New("initial scale should be a positive finite number")
	}
	if !(targetRate > 0 && targetRate < 1) {
		return nil, errors.New("target acceptance rate should be in (0, 1)")
	}

	return &ScaleTuner{
		target:   targetRate,
		gain:     DefaultGain,
		kappa:    DefaultKappa,
		logScale: math.Log(scale),
	}, nil
}

// SetDecay replaces the step sequence parameters. Kappa must lie in
// (0.5, 1] for the adapted chain to keep the correct stationary
// distribution.
func (t *ScaleTuner) SetDecay(gain, kappa float64) error {
	if !(gain > 0) || math.IsInf(gain, 1) || math.IsNaN(gain) {
		return errors.New("gain should be a positive finite number")
	}
	if !(kappa > 0.5 && kappa <= 1) {
		return errors.New("kappa should be in (0.5, 1]")
	}

	t.gain = gain
	t.kappa = kappa
	return nil
}

// Update observes one transition with realized acceptance probability
// alpha and nudges the scale. A frozen tuner ignores the observation.
// The expectation of alpha equals the acceptance rate, so the update
// drives the empirical rate towards the target.
func (t *ScaleTuner) Update(alpha float64) error {
	if t.frozen {
		return nil
	}
	if math.IsNaN(alpha) {
		return errors.Wrap(ErrDiverged, "acceptance probability is NaN")
	}
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}

	t.steps++
	g := t.gain / math.Pow(float64(t.steps), t.kappa)
	t.logScale += g * (alpha - t.target)

	if s := t.Scale(); !(s > 0) || math.IsInf(s, 1) || math.IsNaN(s) {
		return errors.Wrapf(ErrDiverged, "scale became %v after %d updates", s, t.steps)
	}

	return nil
}

// Scale returns the current proposal scale.
func (t *ScaleTuner) Scale() float64 {
	return math.Exp(t.logScale)
}

// SetScale replaces the proposal scale.
func (t *ScaleTuner) SetScale(scale float64) {
	t.logScale = math.Log(scale)
}

// Freeze stops all further adaptation. The tuner keeps its current
// scale and Update becomes a no-op.
func (t *ScaleTuner) Freeze() {
	t.frozen = true
}

// Thaw re-enables adaptation.
func (t *ScaleTuner) Thaw() {
	t.frozen = false
}

// Frozen reports whether the tuner currently ignores observations.
func (t *ScaleTuner) Frozen() bool {
	return t.frozen
}

// Steps returns the number of observations consumed so far. The
// counter only grows.
func (t *ScaleTuner) Steps() int {
	return t.steps
}

// TargetRate returns the acceptance rate the tuner is aiming at.
func (t *ScaleTuner) TargetRate() float64 {
	return t.target
}
