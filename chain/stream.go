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
	"context"
)

// Stream is a pull-based view of the states a run emits, in emission
// order. The underlying runner advances lazily, one emitted state per
// Next, burn-in included; stopping early simply leaves the run where
// it is.
type Stream struct {
	r    *Runner
	ctx  context.Context
	cur  State
	err  error
	done bool
}

// Stream returns the run as a lazy sequence. The sequence shares the
// runner's progress, so it is good for one pass; the runner keeps
// recording emitted states, and Run can still collect the remainder
// after an early stop.
func (r *Runner) Stream(ctx context.Context) *Stream {
	return &Stream{r: r, ctx: ctx}
}

// Next advances the run to its next emitted state and reports whether
// one is available. It returns false when the run completes, fails,
// or is cancelled; Err tells the last two apart from completion.
func (s *Stream) Next() bool {
	if s.done {
		return false
	}

	for s.r.steps < s.r.total {
		emitted, err := s.r.step(s.ctx)
		if err != nil {
			s.err = err
			s.done = true
			return false
		}
		if emitted {
			s.cur = s.r.out[len(s.r.out)-1]
			return true
		}
	}

	s.done = true
	return false
}

// State returns the state produced by the last successful Next.
func (s *Stream) State() State {
	return s.cur
}

// Err returns the error that terminated the stream. It is nil after
// a completed run and after an early stop by the consumer.
func (s *Stream) Err() error {
	return s.err
}
