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

package storage

import "errors"

var (
	// ErrNotFound means no session record exists for the requested ID.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey means a record with the same ID already exists.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrStorageClosed means an operation ran against a closed backend.
	ErrStorageClosed = errors.New("storage is closed")

	// ErrSerializationFailed wraps record encode/decode failures.
	ErrSerializationFailed = errors.New("serialization failed")
)
