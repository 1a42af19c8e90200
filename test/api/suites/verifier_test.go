/*
Copyright 2024-2025 the Unikorn Authors.
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

//nolint:testpackage,revive // test package in suites is standard for these tests
package suites

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/sku-verifier/pkg/verifier"
)

var _ = Describe("Standalone Verifier", func() {
	Context("When running every scenario against the service", func() {
		It("should pass them all", func() {
			v := verifier.New(client, verifier.Options{
				ListSample: config.ListSampleSize,
				ClockSkew:  config.ClockSkew,
			})

			report, err := v.Run(ctx, verifier.Scenarios())
			Expect(err).NotTo(HaveOccurred())

			for _, result := range report.Results {
				GinkgoWriter.Printf("%s %s err=%v\n", result.Name, result.Duration, result.Err)
			}

			Expect(report.Failed()).To(BeEmpty())
		})
	})
})
