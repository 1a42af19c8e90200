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

// Package api provides integration test utilities for the SKU API.
//
// # Client
//
// Suites talk to the service through pkg/skuapi, a hand-written client kept
// independent of any generated code.  Any legitimate change to the API must
// have a compensating change there, which keeps API evolution explicit.
// The client gives the suites:
//   - W3C trace context propagation for request correlation
//   - Optional validation of every response against pkg/contract
//   - Direct access to HTTP status codes and response bodies
//
// # Configuration
//
// API_BASE_URL must point at the deployed stage root, for example
// https://1ryu4whyek.execute-api.us-west-2.amazonaws.com/dev.  Values may be
// provided in test/.env.
//
// # Cleanup
//
// Every spec that writes a SKU uses a fresh random identifier and registers
// its deletion with DeferCleanup before the write, so remote state is left as
// it was found whatever the outcome.
package api
