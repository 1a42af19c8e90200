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
	"net/url"
	"os"
	"time"

	"github.com/spf13/pflag"
)

// ErrBaseURL is raised when no usable base URL is configured.
var ErrBaseURL = errors.New("invalid base URL")

// ClientOptions allow the client to be configured on the CLI.
type ClientOptions struct {
	// BaseURL is the API stage root, e.g. https://id.execute-api.us-west-2.amazonaws.com/dev.
	BaseURL      string
	Timeout      time.Duration
	LogRequests  bool
	LogResponses bool
}

// AddFlags registers the client flags, defaulting the base URL from the
// environment.
func (o *ClientOptions) AddFlags(f *pflag.FlagSet) {
	f.StringVar(&o.BaseURL, "base-url", os.Getenv("API_BASE_URL"), "SKU API stage root URL, defaults to $API_BASE_URL")
	f.DurationVar(&o.Timeout, "timeout", defaultTimeout, "Per request timeout")
	f.BoolVar(&o.LogRequests, "log-requests", false, "Log every request")
	f.BoolVar(&o.LogResponses, "log-responses", false, "Log every response body")
}

// Validate checks the options can produce a working client.
func (o *ClientOptions) Validate() error {
	if o.BaseURL == "" {
		return fmt.Errorf("%w: not set", ErrBaseURL)
	}

	u, err := url.Parse(o.BaseURL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBaseURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", ErrBaseURL, u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrBaseURL)
	}

	return nil
}

// Options returns the client options the CLI options imply.
func (o *ClientOptions) Options() []Option {
	return []Option{
		WithTimeout(o.Timeout),
		WithRequestLogging(o.LogRequests),
		WithResponseLogging(o.LogResponses),
	}
}
