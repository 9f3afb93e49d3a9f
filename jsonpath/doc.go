/*
Copyright 2022 The jsondoc Authors.

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

// Package jsonpath compiles and evaluates JSONPath queries over the
// jsonvalue model. Two dialects are accepted: the modern '$'-rooted
// grammar with wildcards, recursive descent, slices, unions, and
// filters, and the legacy dotted dialect, which is rewritten to the
// modern form and restricted to static (single-location) queries.
//
// Compilation yields an immutable Query; evaluation yields matched
// values, or Locations carrying trackers (the key/index edge chain
// from the root) when the caller needs to mutate at the match sites.
package jsonpath
