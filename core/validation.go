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

import "fmt"

// ValidateSessionRecord validates a SessionRecord according to domain rules.
//
// Validation rules:
//   - Id must not be empty
//   - every history turn must have a valid role and non-empty content
//
// NOT validated (populated by pipelines):
//   - Chunks, Summary, FAQs (empty until the document/FAQ pipelines run)
func ValidateSessionRecord(record *SessionRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidSession)
	}

	if record.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSession, ErrEmptySessionID)
	}

	for i, turn := range record.History {
		if err := ValidateTurn(turn); err != nil {
			return fmt.Errorf("%w: history[%d]: %w", ErrInvalidSession, i, err)
		}
	}

	return nil
}

// ValidateTurn validates a single conversation turn.
func ValidateTurn(turn ConversationTurn) error {
	if err := ValidateRole(turn.Role); err != nil {
		return err
	}
	if turn.Content == "" {
		return ErrEmptyTurnContent
	}
	return nil
}

// ValidateRole validates that a Role has a valid value.
func ValidateRole(role Role) error {
	switch role {
	case RoleUser, RoleAssistant:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrInvalidRole, role)
	}
}
