// Package simulation wires the services that a simulation run needs.
package simulation

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/uber-go/tally/v4"

	"github.com/sarchlab/partsim/datarecording"
	"github.com/sarchlab/partsim/monitoring"
	"github.com/sarchlab/partsim/timing"
)

// A Simulation provides the services required to run experiments: an
// engine, an optional data recorder, an optional monitor and a metrics
// scope.
type Simulation struct {
	id     string
	engine *timing.SerialEngine
	logger logrus.FieldLogger

	dataRecorder datarecording.DataRecorder
	execRecorder *datarecording.ExecRecorder
	recordSteps  bool
	monitor      *monitoring.Monitor

	metrics       tally.Scope
	metricsCloser io.Closer

	components    []timing.Component
	compNameIndex map[string]int
}

// ID returns the ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() *timing.SerialEngine {
	return s.engine
}

// GetLogger returns the logger of the simulation.
func (s *Simulation) GetLogger() logrus.FieldLogger {
	return s.logger
}

// GetDataRecorder returns the data recorder, or nil if recording is off.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// RecordSteps tells if every step should be recorded.
func (s *Simulation) RecordSteps() bool {
	return s.recordSteps
}

// GetMonitor returns the monitor, or nil if monitoring is off.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// RecordExecInfo records a property of the execution, such as a parameter.
// It does nothing if recording is off.
func (s *Simulation) RecordExecInfo(property, value string) {
	if s.execRecorder != nil {
		s.execRecorder.Set(property, value)
	}
}

// GetMetricsScope returns the scope that metrics are reported to.
func (s *Simulation) GetMetricsScope() tally.Scope {
	return s.metrics
}

// RegisterComponent registers a component with the simulation.
func (s *Simulation) RegisterComponent(c timing.Component) {
	compName := c.Name()
	if _, found := s.compNameIndex[compName]; found {
		panic("component " + compName + " already registered")
	}

	s.components = append(s.components, c)
	s.compNameIndex[compName] = len(s.components) - 1

	if s.monitor != nil {
		s.monitor.RegisterComponent(c)
	}
}

// GetComponentByName returns the component with the given name, or nil if
// there is no such component.
func (s *Simulation) GetComponentByName(name string) timing.Component {
	idx, found := s.compNameIndex[name]
	if !found {
		return nil
	}

	return s.components[idx]
}

// Components returns all the registered components.
func (s *Simulation) Components() []timing.Component {
	comps := make([]timing.Component, len(s.components))
	copy(comps, s.components)

	return comps
}

// Run runs the engine until no event is left.
func (s *Simulation) Run() error {
	start := time.Now()

	err := s.engine.Run()
	if err != nil {
		return errors.Wrap(err, "running simulation")
	}

	s.engine.Finished()

	s.logger.WithFields(logrus.Fields{
		"simulation": s.id,
		"time":       uint64(s.engine.CurrentTime()),
		"elapsed":    time.Since(start).String(),
	}).Info("Simulation finished")

	return nil
}

// Terminate flushes and closes the recorder, stops reporting metrics and
// shuts the monitor down.
func (s *Simulation) Terminate() error {
	if s.metricsCloser != nil {
		if err := s.metricsCloser.Close(); err != nil {
			return errors.Wrap(err, "closing metrics scope")
		}
	}

	if s.dataRecorder != nil {
		s.execRecorder.End()

		if err := s.dataRecorder.Close(); err != nil {
			return errors.Wrap(err, "closing data recorder")
		}
	}

	if s.monitor != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		if err := s.monitor.StopServer(ctx); err != nil {
			return errors.Wrap(err, "stopping monitor")
		}
	}

	return nil
}
