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
	"net/http"
)

// StatusError is returned when the service answers with a status code other
// than the one the operation expects.
type StatusError struct {
	Method   string
	Path     string
	Expected int
	Actual   int
	Body     string
	TraceID  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status code: expected %d, got %d, body: %s (trace ID: %s)", e.Method, e.Path, e.Expected, e.Actual, e.Body, e.TraceID)
}

// StatusCode returns the status code of a StatusError anywhere in the chain,
// or zero.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Actual
	}

	return 0
}

// IsNotFound tells whether the service reported the SKU as absent.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsBadRequest tells whether the service rejected the request as invalid.
func IsBadRequest(err error) bool {
	return StatusCode(err) == http.StatusBadRequest
}
