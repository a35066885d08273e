package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Role identifies the author of a conversation turn.
type Role int

const (
	// RoleUser represents the human end user.
	RoleUser Role = iota + 1
	// RoleAssistant represents the answering model.
	RoleAssistant
)

// String returns the wire name of the role.
func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAssistant:
		return "assistant"
	default:
		return "unknown"
	}
}

// Chunk is a bounded unit of source text used as the atomic retrieval and
// summarization input. Chunks are immutable once produced by extraction.
type Chunk struct {
	Id    ID
	Index int
	Text  string
}

// NewChunk creates a chunk with a content-derived ID and a stable index.
func NewChunk(index int, text string) Chunk {
	return Chunk{
		Id:    IDFromContent(text),
		Index: index,
		Text:  text,
	}
}

// Label returns the stable source label used to tag the chunk in retrieval
// results and cited sources.
func (c Chunk) Label() string {
	return fmt.Sprintf("chunk_%d", c.Index)
}

const titleMaxChars = 100

// Title returns the chunk's section title: its first line, capped at 100
// characters. Empty chunks fall back to a generic title.
func (c Chunk) Title() string {
	if c.Text == "" {
		return "Section"
	}
	line, _, _ := strings.Cut(c.Text, "\n")
	if len(line) > titleMaxChars {
		line = line[:titleMaxChars]
	}
	return line
}

// FAQ is a single generated question/answer pair.
// Entries keep generation order and are never deduplicated.
type FAQ struct {
	Question string
	Answer   string
}

// ConversationTurn is one message in a session's chat history.
type ConversationTurn struct {
	Role    Role
	Content string
}

// SessionRecord is the serializable portion of a session: the document-derived
// state plus the conversation history. Non-serializable per-session handles
// (e.g. a prebuilt retrieval index) live outside the record.
type SessionRecord struct {
	Id          string
	DocumentRef string
	Chunks      []Chunk
	Summary     string
	FAQs        []FAQ
	History     []ConversationTurn
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone returns a deep copy of the record. Stored records are cloned on both
// read and write so callers never alias the store's internal state.
func (r *SessionRecord) Clone() *SessionRecord {
	if r == nil {
		return nil
	}
	cp := *r
	if r.Chunks != nil {
		cp.Chunks = make([]Chunk, len(r.Chunks))
		copy(cp.Chunks, r.Chunks)
	}
	if r.FAQs != nil {
		cp.FAQs = make([]FAQ, len(r.FAQs))
		copy(cp.FAQs, r.FAQs)
	}
	if r.History != nil {
		cp.History = make([]ConversationTurn, len(r.History))
		copy(cp.History, r.History)
	}
	return &cp
}

// SessionUpdate is a partial update merged into a stored session record.
// Nil fields are left untouched; non-nil fields replace the stored value.
type SessionUpdate struct {
	Chunks  []Chunk
	Summary *string
	FAQs    []FAQ
	History []ConversationTurn
}

// Apply merges the update into the record. Merge semantics, not
// compare-and-swap: supplied fields override, absent fields are preserved.
func (u *SessionUpdate) Apply(record *SessionRecord) {
	if u.Chunks != nil {
		record.Chunks = u.Chunks
	}
	if u.Summary != nil {
		record.Summary = *u.Summary
	}
	if u.FAQs != nil {
		record.FAQs = u.FAQs
	}
	if u.History != nil {
		record.History = u.History
	}
}
