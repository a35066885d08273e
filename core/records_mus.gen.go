// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	sliceBYi65IyU2sBfUIyoPvnLAQΞΞ = ord.NewSliceSer[Chunk](ChunkMUS)
	sliceFΔT4yjdUEi0AqiqqfXvlsQΞΞ = ord.NewSliceSer[FAQ](FAQMUS)
	slicerFjiΣuZb5gRPnQUwD1tDlgΞΞ = ord.NewSliceSer[ConversationTurn](ConversationTurnMUS)
)

var IDMUS = iDMUS{}

type iDMUS struct{}

func (s iDMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s iDMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	tmp, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ID(tmp)
	return
}

func (s iDMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s iDMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

var RoleMUS = roleMUS{}

type roleMUS struct{}

func (s roleMUS) Marshal(v Role, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s roleMUS) Unmarshal(bs []byte) (v Role, n int, err error) {
	tmp, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = Role(tmp)
	return
}

func (s roleMUS) Size(v Role) (size int) {
	return varint.Int.Size(int(v))
}

func (s roleMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

var ChunkMUS = chunkMUS{}

type chunkMUS struct{}

func (s chunkMUS) Marshal(v Chunk, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += varint.Int.Marshal(v.Index, bs[n:])
	return n + ord.String.Marshal(v.Text, bs[n:])
}

func (s chunkMUS) Unmarshal(bs []byte) (v Chunk, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Index, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s chunkMUS) Size(v Chunk) (size int) {
	size = IDMUS.Size(v.Id)
	size += varint.Int.Size(v.Index)
	return size + ord.String.Size(v.Text)
}

func (s chunkMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	return
}

var FAQMUS = fAQMUS{}

type fAQMUS struct{}

func (s fAQMUS) Marshal(v FAQ, bs []byte) (n int) {
	n = ord.String.Marshal(v.Question, bs)
	return n + ord.String.Marshal(v.Answer, bs[n:])
}

func (s fAQMUS) Unmarshal(bs []byte) (v FAQ, n int, err error) {
	v.Question, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Answer, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s fAQMUS) Size(v FAQ) (size int) {
	size = ord.String.Size(v.Question)
	return size + ord.String.Size(v.Answer)
}

func (s fAQMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	return
}

var ConversationTurnMUS = conversationTurnMUS{}

type conversationTurnMUS struct{}

func (s conversationTurnMUS) Marshal(v ConversationTurn, bs []byte) (n int) {
	n = RoleMUS.Marshal(v.Role, bs)
	return n + ord.String.Marshal(v.Content, bs[n:])
}

func (s conversationTurnMUS) Unmarshal(bs []byte) (v ConversationTurn, n int, err error) {
	v.Role, n, err = RoleMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Content, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s conversationTurnMUS) Size(v ConversationTurn) (size int) {
	size = RoleMUS.Size(v.Role)
	return size + ord.String.Size(v.Content)
}

func (s conversationTurnMUS) Skip(bs []byte) (n int, err error) {
	n, err = RoleMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	return
}

var SessionRecordMUS = sessionRecordMUS{}

type sessionRecordMUS struct{}

func (s sessionRecordMUS) Marshal(v SessionRecord, bs []byte) (n int) {
	n = ord.String.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.DocumentRef, bs[n:])
	n += sliceBYi65IyU2sBfUIyoPvnLAQΞΞ.Marshal(v.Chunks, bs[n:])
	n += ord.String.Marshal(v.Summary, bs[n:])
	n += sliceFΔT4yjdUEi0AqiqqfXvlsQΞΞ.Marshal(v.FAQs, bs[n:])
	n += slicerFjiΣuZb5gRPnQUwD1tDlgΞΞ.Marshal(v.History, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.CreatedAt, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
}

func (s sessionRecordMUS) Unmarshal(bs []byte) (v SessionRecord, n int, err error) {
	v.Id, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.DocumentRef, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Chunks, n1, err = sliceBYi65IyU2sBfUIyoPvnLAQΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Summary, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.FAQs, n1, err = sliceFΔT4yjdUEi0AqiqqfXvlsQΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.History, n1, err = slicerFjiΣuZb5gRPnQUwD1tDlgΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s sessionRecordMUS) Size(v SessionRecord) (size int) {
	size = ord.String.Size(v.Id)
	size += ord.String.Size(v.DocumentRef)
	size += sliceBYi65IyU2sBfUIyoPvnLAQΞΞ.Size(v.Chunks)
	size += ord.String.Size(v.Summary)
	size += sliceFΔT4yjdUEi0AqiqqfXvlsQΞΞ.Size(v.FAQs)
	size += slicerFjiΣuZb5gRPnQUwD1tDlgΞΞ.Size(v.History)
	size += raw.TimeUnixMicro.Size(v.CreatedAt)
	return size + raw.TimeUnixMicro.Size(v.UpdatedAt)
}

func (s sessionRecordMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = sliceBYi65IyU2sBfUIyoPvnLAQΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = sliceFΔT4yjdUEi0AqiqqfXvlsQΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = slicerFjiΣuZb5gRPnQUwD1tDlgΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}
