/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package skuapi

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrOutsideWindow is raised when a timestamp was not written during the
// request that should have written it.
var ErrOutsideWindow = errors.New("timestamp outside time window")

// Clock abstracts time so windows can be tested deterministically.
type Clock func() time.Time

// TimeWindow is a closed interval of unix epoch seconds recorded immediately
// before and after a request.
type TimeWindow struct {
	Start int64
	End   int64
	// Tolerance widens both ends to absorb clock skew between us and the service.
	Tolerance time.Duration
}

// Measure records the window around fn.
func Measure(clock Clock, fn func() error) (TimeWindow, error) {
	if clock == nil {
		clock = time.Now
	}

	start := clock().Unix()
	err := fn()
	end := clock().Unix()

	return TimeWindow{Start: start, End: end}, err
}

// WithTolerance returns a copy of the window widened by the given skew.
func (w TimeWindow) WithTolerance(tolerance time.Duration) TimeWindow {
	w.Tolerance = tolerance

	return w
}

// skew is the tolerance rounded up to whole seconds, timestamps have no
// finer resolution.
func (w TimeWindow) skew() int64 {
	if w.Tolerance <= 0 {
		return 0
	}

	skew := int64(w.Tolerance / time.Second)

	if w.Tolerance%time.Second > 0 {
		skew++
	}

	return skew
}

// Bounds returns the inclusive bounds after the tolerance is applied.
func (w TimeWindow) Bounds() (int64, int64) {
	skew := w.skew()

	return w.Start - skew, w.End + skew
}

func (w TimeWindow) String() string {
	if w.Tolerance <= 0 {
		return fmt.Sprintf("[%d, %d]", w.Start, w.End)
	}

	start, end := w.Bounds()

	return fmt.Sprintf("[%d, %d] (measured [%d, %d] +/- %s)", start, end, w.Start, w.End, w.Tolerance)
}

// Contains checks the named timestamp, in decimal epoch seconds, falls within the window.
func (w TimeWindow) Contains(name, value string) error {
	epoch, err := ParseEpoch(value)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	start, end := w.Bounds()

	if epoch < start || epoch > end {
		return fmt.Errorf("%w: %s %d outside window %s", ErrOutsideWindow, name, epoch, w)
	}

	return nil
}

// ParseEpoch decodes a timestamp as returned by the service.
func ParseEpoch(value string) (int64, error) {
	epoch, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed epoch timestamp %q: %w", value, err)
	}

	return epoch, nil
}
