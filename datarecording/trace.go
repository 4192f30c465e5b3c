package datarecording

import (
	"fmt"

	"github.com/sarchlab/dramctl/hooking"
	"github.com/sarchlab/dramctl/regbank"
	"github.com/sarchlab/dramctl/regs"
)

// Tables written by a TraceHook.
const (
	AccessTable = "register_access"
	EventTable  = "sequence_event"
)

// AccessEntry is a register access row.
type AccessEntry struct {
	ID       string
	Seq      uint64
	Kind     string
	Register string
	Addr     uint32
	Value    uint32
}

// EventEntry is a row for any other hook invocation, such as a command, a
// step or a state change.
type EventEntry struct {
	Seq    uint64
	Domain string
	Pos    string
	Item   string
	Detail string
}

// TraceHook records every hook invocation it sees into a DataRecorder.
type TraceHook struct {
	recorder DataRecorder
	seq      uint64
}

// NewTraceHook creates the trace tables and returns a hook that fills them.
func NewTraceHook(recorder DataRecorder) *TraceHook {
	recorder.CreateTable(AccessTable, AccessEntry{})
	recorder.CreateTable(EventTable, EventEntry{})

	return &TraceHook{recorder: recorder}
}

// Func records the hook context.
func (h *TraceHook) Func(ctx hooking.HookCtx) {
	if access, ok := ctx.Item.(regbank.Access); ok {
		h.recorder.InsertData(AccessTable, AccessEntry{
			ID:       access.ID,
			Seq:      access.Seq,
			Kind:     access.Kind.String(),
			Register: regs.Name(access.Addr),
			Addr:     uint32(access.Addr),
			Value:    access.Value,
		})

		return
	}

	h.seq++

	entry := EventEntry{
		Seq:  h.seq,
		Pos:  ctx.Pos.Name,
		Item: fmt.Sprint(ctx.Item),
	}

	if ctx.Domain != nil {
		entry.Domain = ctx.Domain.Name()
	}

	if ctx.Detail != nil {
		entry.Detail = fmt.Sprint(ctx.Detail)
	}

	h.recorder.InsertData(EventTable, entry)
}
