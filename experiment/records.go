package experiment

import (
	"github.com/sarchlab/partsim/datarecording"
	"github.com/sarchlab/partsim/partition"
	"github.com/sarchlab/partsim/timing"
	"github.com/sarchlab/partsim/workload"
)

// HookPosStep is triggered after every step. The hook item is a StepSample.
var HookPosStep = &timing.HookPos{Name: "Step"}

// HookPosRunEnd is triggered after every run. The hook item is a RunSummary.
var HookPosRunEnd = &timing.HookPos{Name: "RunEnd"}

// StepSample describes what happened in one step.
type StepSample struct {
	Strategy partition.Strategy
	Run      int
	Step     int
	Time     timing.VTime
	Request  workload.Request

	// Offset is where the request was placed. It is -1 if the allocation
	// failed.
	Offset    int
	Probes    int
	Failed    bool
	Fragments int
	Occupied  int
	Capacity  int
}

// RunSummary describes a finished run.
type RunSummary struct {
	Strategy partition.Strategy
	Run      int
	Stats    Stats
}

// Table names used by the RecordingHook.
const (
	StepTable = "partsim_steps"
	RunTable  = "partsim_runs"
)

// StepRecord is a row of the step table.
type StepRecord struct {
	Simulation string
	Strategy   string
	Run        int
	Step       int
	Time       uint64
	Size       int
	Duration   uint32
	Offset     int
	Probes     int
	Failed     bool
	Fragments  int
	Occupied   int
}

// RunRecord is a row of the run table.
type RunRecord struct {
	Simulation    string
	Strategy      string
	Run           int
	Steps         uint64
	Successes     uint64
	Failures      uint64
	Probes        uint64
	Fragments     uint64
	OccupiedUnits uint64
	UnitSteps     uint64
}

// Stats rebuilds the statistics of the run.
func (r RunRecord) Stats() Stats {
	return Stats{
		Steps:         r.Steps,
		Successes:     r.Successes,
		Failures:      r.Failures,
		Probes:        r.Probes,
		Fragments:     r.Fragments,
		OccupiedUnits: r.OccupiedUnits,
		UnitSteps:     r.UnitSteps,
	}
}

// RecordingHook writes step samples and run summaries into a DataRecorder.
type RecordingHook struct {
	recorder     datarecording.DataRecorder
	simulationID string
	recordSteps  bool
}

// NewRecordingHook creates a RecordingHook and the tables it writes to.
// Step samples are only recorded if recordSteps is set, since there is one
// per step.
func NewRecordingHook(
	recorder datarecording.DataRecorder,
	simulationID string,
	recordSteps bool,
) *RecordingHook {
	h := &RecordingHook{
		recorder:     recorder,
		simulationID: simulationID,
		recordSteps:  recordSteps,
	}

	recorder.CreateTable(RunTable, RunRecord{})
	if recordSteps {
		recorder.CreateTable(StepTable, StepRecord{})
	}

	return h
}

// Func records the hook item.
func (h *RecordingHook) Func(ctx timing.HookCtx) {
	switch ctx.Pos {
	case HookPosStep:
		if h.recordSteps {
			h.recordStep(ctx.Item.(StepSample))
		}
	case HookPosRunEnd:
		h.recordRun(ctx.Item.(RunSummary))
	}
}

func (h *RecordingHook) recordStep(s StepSample) {
	h.recorder.InsertData(StepTable, StepRecord{
		Simulation: h.simulationID,
		Strategy:   s.Strategy.String(),
		Run:        s.Run,
		Step:       s.Step,
		Time:       uint64(s.Time),
		Size:       s.Request.Size,
		Duration:   uint32(s.Request.Duration),
		Offset:     s.Offset,
		Probes:     s.Probes,
		Failed:     s.Failed,
		Fragments:  s.Fragments,
		Occupied:   s.Occupied,
	})
}

func (h *RecordingHook) recordRun(r RunSummary) {
	h.recorder.InsertData(RunTable, RunRecord{
		Simulation:    h.simulationID,
		Strategy:      r.Strategy.String(),
		Run:           r.Run,
		Steps:         r.Stats.Steps,
		Successes:     r.Stats.Successes,
		Failures:      r.Stats.Failures,
		Probes:        r.Stats.Probes,
		Fragments:     r.Stats.Fragments,
		OccupiedUnits: r.Stats.OccupiedUnits,
		UnitSteps:     r.Stats.UnitSteps,
	})
}
