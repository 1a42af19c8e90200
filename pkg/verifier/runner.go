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

package verifier

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

const (
	FieldSKU         = "sku"
	FieldDescription = "description"
	FieldPrice       = "price"
)

var (
	// ErrUnknownScenario is raised when a scenario is requested by a name that isn't registered.
	ErrUnknownScenario = errors.New("unknown scenario")

	// ErrUnknownField is raised when a field other than the writable ones is named.
	ErrUnknownField = errors.New("unknown field")
)

// CheckFunc runs a check with the given verifier.
type CheckFunc func(ctx context.Context, v *Verifier) error

// Scenario is a single named check.
type Scenario struct {
	Name        string
	Description string
	Run         CheckFunc
}

// check adapts a Verifier method expression to a CheckFunc.
func check(method func(*Verifier, context.Context) error) CheckFunc {
	return func(ctx context.Context, v *Verifier) error {
		return method(v, ctx)
	}
}

// Scenarios returns every check in the order they are run.
func Scenarios() []Scenario {
	rejectEmpty := func(field string) CheckFunc {
		return func(ctx context.Context, v *Verifier) error {
			return v.RejectEmpty(ctx, field)
		}
	}

	return []Scenario{
		{
			Name:        "list",
			Description: "GET /skus returns 200 and an item array",
			Run:         check((*Verifier).List),
		},
		{
			Name:        "list-consistency",
			Description: "listed items equal their single item responses",
			Run:         check((*Verifier).ListConsistency),
		},
		{
			Name:        "fetch-missing",
			Description: "GET /skus/{sku} of an unknown sku returns 404",
			Run:         check((*Verifier).FetchMissing),
		},
		{
			Name:        "delete-missing",
			Description: "DELETE /skus/{sku} of an unknown sku returns 404",
			Run:         check((*Verifier).DeleteMissing),
		},
		{
			Name:        "create-update",
			Description: "POST creates then updates, createdAt is pinned and updatedAt refreshed",
			Run:         check((*Verifier).CreateUpdate),
		},
		{
			Name:        "delete",
			Description: "DELETE returns 200 with an empty body and the sku is gone",
			Run:         check((*Verifier).Delete),
		},
		{
			Name:        "reject-empty-sku",
			Description: "POST with an empty sku returns 400",
			Run:         rejectEmpty(FieldSKU),
		},
		{
			Name:        "reject-empty-description",
			Description: "POST with an empty description returns 400",
			Run:         rejectEmpty(FieldDescription),
		},
		{
			Name:        "reject-empty-price",
			Description: "POST with an empty price returns 400",
			Run:         rejectEmpty(FieldPrice),
		},
	}
}

// Select returns the named scenarios in registration order, or all of them
// when no names are given.
func Select(names []string) ([]Scenario, error) {
	all := Scenarios()

	if len(names) == 0 {
		return all, nil
	}

	wanted := make(map[string]bool, len(names))

	for _, name := range names {
		wanted[name] = true
	}

	var selected []Scenario

	for _, scenario := range all {
		if wanted[scenario.Name] {
			selected = append(selected, scenario)
			delete(wanted, scenario.Name)
		}
	}

	if len(wanted) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScenario, strings.Join(slices.Sorted(maps.Keys(wanted)), ", "))
	}

	return selected, nil
}

// Result is the outcome of a single scenario.
type Result struct {
	Name     string
	Duration time.Duration
	Err      error
}

// Report collects the results of a run.
type Report struct {
	Results []Result
}

// Failed returns the results that did not pass.
func (r *Report) Failed() []Result {
	var failed []Result

	for _, result := range r.Results {
		if result.Err != nil {
			failed = append(failed, result)
		}
	}

	return failed
}

// Run executes the scenarios one after the other.  Every scenario runs even
// when an earlier one fails, a cancelled context stops the run.
func (v *Verifier) Run(ctx context.Context, scenarios []Scenario) (*Report, error) {
	log := log.FromContext(ctx)

	report := &Report{}

	for _, scenario := range scenarios {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		log.Info("running scenario", "scenario", scenario.Name)

		start := time.Now()
		err := scenario.Run(ctx, v)
		duration := time.Since(start)

		if err != nil {
			log.Error(err, "scenario failed", "scenario", scenario.Name, "duration", duration)
		} else {
			log.Info("scenario passed", "scenario", scenario.Name, "duration", duration)
		}

		report.Results = append(report.Results, Result{
			Name:     scenario.Name,
			Duration: duration,
			Err:      err,
		})
	}

	return report, nil
}
