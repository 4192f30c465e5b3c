package hooking

import (
	"fmt"
	"log"
	"strings"
)

// A LogHook prints every hook context it receives.
type LogHook struct {
	*log.Logger

	// Positions limits the hook to the listed positions. Empty means all.
	Positions []*HookPos
}

// NewLogHook creates a LogHook writing through logger.
func NewLogHook(logger *log.Logger, positions ...*HookPos) *LogHook {
	return &LogHook{Logger: logger, Positions: positions}
}

// Func logs ctx.
func (h *LogHook) Func(ctx HookCtx) {
	if !h.wants(ctx.Pos) {
		return
	}

	var b strings.Builder

	if ctx.Domain != nil {
		fmt.Fprintf(&b, "%s ", ctx.Domain.Name())
	}

	if ctx.Pos != nil {
		fmt.Fprintf(&b, "[%s]", ctx.Pos.Name)
	}

	if ctx.Item != nil {
		fmt.Fprintf(&b, " %v", ctx.Item)
	}

	if ctx.Detail != nil {
		fmt.Fprintf(&b, " (%v)", ctx.Detail)
	}

	h.Print(b.String())
}

func (h *LogHook) wants(pos *HookPos) bool {
	if len(h.Positions) == 0 {
		return true
	}

	for _, p := range h.Positions {
		if p == pos {
			return true
		}
	}

	return false
}
