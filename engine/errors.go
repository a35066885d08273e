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


package engine

import "errors"

var (
	// ErrNonProgress indicates the router selected the same step twice without
	// the state changing, which points at a stage bug.
	ErrNonProgress = errors.New("pipeline made no progress")

	// ErrNoSuchStage indicates the router named a step missing from the stage table.
	ErrNoSuchStage = errors.New("no such stage")
)
