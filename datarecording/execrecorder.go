package datarecording

import (
	"os"
	"strings"
	"time"
)

// ExecTable is the table that describes the recorded run.
const ExecTable = "exec_info"

// ExecInfo is one property of the recorded run.
type ExecInfo struct {
	Property string
	Value    string
}

// execRecorder records when and how the tool was run.
type execRecorder struct {
	recorder DataRecorder
	entries  []ExecInfo
}

func newExecRecorder(recorder DataRecorder) *execRecorder {
	e := &execRecorder{recorder: recorder}
	recorder.CreateTable(ExecTable, ExecInfo{})

	return e
}

func timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05.000000000")
}

// Start notes the start time and the command line.
func (e *execRecorder) Start() {
	e.entries = append(e.entries,
		ExecInfo{"Start Time", timestamp()},
		ExecInfo{"Command", strings.Join(os.Args, " ")},
	)

	if wd, err := os.Getwd(); err == nil {
		e.entries = append(e.entries, ExecInfo{"Working Directory", wd})
	}
}

// End writes the collected properties with the end time and flushes.
func (e *execRecorder) End() {
	for _, entry := range e.entries {
		e.recorder.InsertData(ExecTable, entry)
	}

	e.recorder.InsertData(ExecTable, ExecInfo{"End Time", timestamp()})
	e.entries = nil

	e.recorder.Flush()
}
