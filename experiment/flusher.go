package experiment

import (
	"github.com/sarchlab/partsim/datarecording"
	"github.com/sarchlab/partsim/monitoring"
	"github.com/sarchlab/partsim/timing"
)

// A RecordFlusher writes the buffered records of a data recorder every
// interval time steps. It ticks after all the experiments of a time step
// have stepped and stops once every experiment is done, flushing one last
// time.
type RecordFlusher struct {
	*timing.TickingComponent

	recorder    datarecording.DataRecorder
	interval    timing.VTime
	experiments []*Experiment
}

// NewRecordFlusher creates a RecordFlusher. The interval must be positive.
func NewRecordFlusher(
	name string,
	engine timing.Engine,
	recorder datarecording.DataRecorder,
	interval int,
	experiments []*Experiment,
) *RecordFlusher {
	if interval <= 0 {
		panic("flush interval must be positive")
	}

	f := &RecordFlusher{
		recorder:    recorder,
		interval:    timing.VTime(interval),
		experiments: experiments,
	}
	f.TickingComponent = timing.NewSecondaryTickingComponent(name, engine, f)

	return f
}

// Tick flushes the recorder at the end of an interval or when all the
// experiments are done.
func (f *RecordFlusher) Tick() bool {
	done := f.allDone()

	if done || f.CurrentTime()%f.interval == 0 {
		f.recorder.Flush()
	}

	return !done
}

func (f *RecordFlusher) allDone() bool {
	for _, e := range f.experiments {
		if !e.Done() {
			return false
		}
	}

	return true
}

// progressBarCompleter marks the progress bars of the experiments as
// completed when the simulation ends.
type progressBarCompleter struct {
	monitor     *monitoring.Monitor
	experiments []*Experiment
}

func (c progressBarCompleter) Handle(_ timing.VTime) {
	for _, e := range c.experiments {
		if e.progressBar != nil {
			c.monitor.CompleteProgressBar(e.progressBar)
		}
	}
}
