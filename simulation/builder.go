package simulation

import (
	"time"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"github.com/uber-go/tally/v4"

	"github.com/sarchlab/partsim/datarecording"
	"github.com/sarchlab/partsim/monitoring"
	"github.com/sarchlab/partsim/timing"
)

// Builder can be used to build a simulation.
type Builder struct {
	monitorOn       bool
	monitorPort     int
	outputFileName  string
	recordOn        bool
	recordSteps     bool
	metricsInterval time.Duration
	logEvents       bool
	logger          logrus.FieldLogger
}

// MakeBuilder creates a new builder. By default, the simulation is neither
// monitored nor recorded.
func MakeBuilder() Builder {
	return Builder{
		logger: logrus.StandardLogger(),
	}
}

// WithMonitoring turns on the monitoring server.
func (b Builder) WithMonitoring() Builder {
	b.monitorOn = true
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithRecording turns on recording. The data is written to
// outputFileName + ".sqlite3". An empty name uses "partsim_" + the
// simulation ID.
func (b Builder) WithRecording(outputFileName string) Builder {
	b.recordOn = true
	b.outputFileName = outputFileName

	return b
}

// WithStepRecording also records every step, not only every run.
func (b Builder) WithStepRecording() Builder {
	b.recordSteps = true
	return b
}

// WithMetricsReporting reports metrics to the logger at debug level every
// interval.
func (b Builder) WithMetricsReporting(interval time.Duration) Builder {
	b.metricsInterval = interval
	return b
}

// WithEventLogging logs every event at trace level.
func (b Builder) WithEventLogging() Builder {
	b.logEvents = true
	return b
}

// WithLogger sets the logger.
func (b Builder) WithLogger(logger logrus.FieldLogger) Builder {
	b.logger = logger
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if !b.recordOn && b.recordSteps {
		panic("step recording cannot be set when recording is disabled")
	}
}

// Build builds the simulation.
func (b Builder) Build() *Simulation {
	b.parametersMustBeValid()

	s := &Simulation{
		id:            xid.New().String(),
		engine:        timing.NewSerialEngine(),
		logger:        b.logger,
		metrics:       tally.NoopScope,
		recordSteps:   b.recordSteps,
		compNameIndex: make(map[string]int),
	}

	if b.logEvents {
		s.engine.AcceptHook(timing.NewEventLogger(b.logger))
	}

	if b.recordOn {
		outputPath := b.outputFileName
		if outputPath == "" {
			outputPath = "partsim_" + s.id
		}

		s.dataRecorder = datarecording.New(outputPath)
		s.execRecorder = datarecording.NewExecRecorder(s.dataRecorder)
		s.execRecorder.Start()
		s.execRecorder.Set("Simulation ID", s.id)
	}

	if b.metricsInterval > 0 {
		s.metrics, s.metricsCloser = tally.NewRootScope(tally.ScopeOptions{
			Prefix:   "partsim",
			Reporter: newLogReporter(b.logger),
		}, b.metricsInterval)
	}

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor().WithLogger(b.logger)
		if b.monitorPort > 0 {
			s.monitor.WithPortNumber(b.monitorPort)
		}

		s.monitor.RegisterEngine(s.engine)
		s.monitor.StartServer()
	}

	return s
}
