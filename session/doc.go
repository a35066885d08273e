// Package session manages the lifecycle of chat sessions: creation,
// retrieval, partial updates, and deletion, plus an in-process cache of
// non-serializable per-session handles.
package session
