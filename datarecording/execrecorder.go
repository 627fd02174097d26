package datarecording

import (
	"os"
	"strings"
	"time"
)

// ExecTable is the table that an ExecRecorder writes to.
const ExecTable = "exec_info"

const execTimeFormat = "2006-01-02 15:04:05.000000000"

// ExecInfo is a property of a program execution.
type ExecInfo struct {
	Property string
	Value    string
}

// ExecRecorder records how the program was executed: when it started and
// ended, the command line, the working directory and any extra property.
type ExecRecorder struct {
	recorder DataRecorder
	entries  []ExecInfo
}

// NewExecRecorder creates an ExecRecorder and its table.
func NewExecRecorder(recorder DataRecorder) *ExecRecorder {
	recorder.CreateTable(ExecTable, ExecInfo{})

	return &ExecRecorder{recorder: recorder}
}

// Start records the start time, the command and the working directory.
func (e *ExecRecorder) Start() {
	e.Set("Start Time", time.Now().Format(execTimeFormat))
	e.Set("Command", strings.Join(os.Args, " "))

	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}

	e.Set("Working Directory", cwd)
}

// Set records an extra property.
func (e *ExecRecorder) Set(property, value string) {
	e.entries = append(e.entries, ExecInfo{Property: property, Value: value})
}

// End writes all the properties, followed by the end time.
func (e *ExecRecorder) End() {
	e.Set("End Time", time.Now().Format(execTimeFormat))

	for _, entry := range e.entries {
		e.recorder.InsertData(ExecTable, entry)
	}

	e.entries = nil

	e.recorder.Flush()
}
