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

package main

import (
	"context"
	goflag "flag"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/unikorn-cloud/sku-verifier/pkg/constants"
	"github.com/unikorn-cloud/sku-verifier/pkg/contract"
	"github.com/unikorn-cloud/sku-verifier/pkg/skuapi"
	"github.com/unikorn-cloud/sku-verifier/pkg/verifier"

	cr "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

func run(ctx context.Context, clientOptions *skuapi.ClientOptions, verifierOptions verifier.Options, names []string, validateSchema bool) (*verifier.Report, error) {
	if err := clientOptions.Validate(); err != nil {
		return nil, err
	}

	scenarios, err := verifier.Select(names)
	if err != nil {
		return nil, err
	}

	options := clientOptions.Options()

	if validateSchema {
		validator, err := contract.NewValidator(clientOptions.BaseURL)
		if err != nil {
			return nil, err
		}

		options = append(options, skuapi.WithResponseValidator(validator))
	}

	client := skuapi.NewClient(clientOptions.BaseURL, options...)

	return verifier.New(client, verifierOptions).Run(ctx, scenarios)
}

func main() {
	var (
		clientOptions   skuapi.ClientOptions
		verifierOptions verifier.Options
		zapOptions      zap.Options
		names           []string
		validateSchema  bool
		list            bool
	)

	clientOptions.AddFlags(pflag.CommandLine)
	verifierOptions.AddFlags(pflag.CommandLine)

	pflag.StringSliceVar(&names, "scenario", nil, "Scenario to run, may be repeated, defaults to all")
	pflag.BoolVar(&validateSchema, "validate-schema", true, "Validate every response against the OpenAPI document")
	pflag.BoolVar(&list, "list", false, "List the scenarios and exit")

	goflags := goflag.NewFlagSet("", goflag.ExitOnError)
	zapOptions.BindFlags(goflags)
	pflag.CommandLine.AddGoFlagSet(goflags)

	pflag.Parse()

	log.SetLogger(zap.New(zap.UseFlagOptions(&zapOptions)))

	if list {
		for _, scenario := range verifier.Scenarios() {
			fmt.Printf("%-26s %s\n", scenario.Name, scenario.Description)
		}

		return
	}

	logger := log.Log.WithName("init")
	logger.Info("verifier starting", "application", constants.Application, "version", constants.Version, "revision", constants.Revision, "baseURL", clientOptions.BaseURL)

	ctx := log.IntoContext(cr.SetupSignalHandler(), log.Log.WithName("verifier"))

	report, err := run(ctx, &clientOptions, verifierOptions, names, validateSchema)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	for _, result := range report.Results {
		status := "PASS"
		if result.Err != nil {
			status = "FAIL"
		}

		fmt.Printf("%s %-26s %s\n", status, result.Name, result.Duration)

		if result.Err != nil {
			fmt.Printf("     %v\n", result.Err)
		}
	}

	if failed := report.Failed(); len(failed) > 0 {
		fmt.Printf("%d of %d scenarios failed\n", len(failed), len(report.Results))
		os.Exit(1)
	}
}
