// Copyright 2025 Sagedoc Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package engine provides the shared state-machine primitive the document,
// FAQ, query-refinement, and chat pipelines specialize.
//
// A pipeline is a state struct (embedding Fault), a table of named stages,
// and a router. The router inspects which state fields are populated and
// names the next stage; stages populate fields monotonically and never clear
// them. Run drives the loop until the router returns Terminal or the state
// records an error.
//
// Termination is guaranteed structurally: each stage must change the field
// the router inspects, so the number of steps is bounded by the number of
// distinct fields. The engine enforces this with a non-progress guard (one
// controlled retry, then ErrNonProgress) and an absolute step cap, so a
// buggy stage degrades into an error instead of an infinite loop.
package engine
