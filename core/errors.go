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


package core

import "errors"

// Domain errors shared across pipelines
var (
	// ErrExtraction indicates the source document is unreadable or corrupt.
	ErrExtraction = errors.New("document extraction failed")

	// ErrEmptyInput indicates a pipeline was entered with a required field missing.
	ErrEmptyInput = errors.New("required input missing")

	// ErrCollaborator indicates an external collaborator call failed or timed out.
	ErrCollaborator = errors.New("collaborator call failed")
)

// Domain validation errors
var (
	// ErrInvalidSession indicates a SessionRecord failed validation.
	ErrInvalidSession = errors.New("invalid session record")

	// ErrEmptySessionID indicates the session Id field is empty.
	ErrEmptySessionID = errors.New("session id cannot be empty")

	// ErrInvalidRole indicates an invalid Role value.
	ErrInvalidRole = errors.New("invalid role")

	// ErrEmptyTurnContent indicates a conversation turn has no content.
	ErrEmptyTurnContent = errors.New("turn content cannot be empty")
)
