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

// Package pipeline implements the document processing pipelines: document
// ingestion and summarization, FAQ generation, query refinement, and chat.
//
// Each pipeline is a small set of stages driven by a router over a shared
// state value (see the engine package). Stages populate state fields exactly
// once; routers select the next stage purely from which fields are present.
// All pipelines share the same collaborator error discipline: transient
// model and embedding failures are retried with backoff inside the stage,
// and exhausted retries surface as core.ErrCollaborator.
package pipeline
