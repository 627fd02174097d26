package timing

// TimeTeller can tell the current time.
type TimeTeller interface {
	CurrentTime() VTime
}

// EventScheduler can schedule future events.
type EventScheduler interface {
	Schedule(e Event)
}

// A SimulationEndHandler is called after the simulation ends.
type SimulationEndHandler interface {
	Handle(now VTime)
}

// An Engine keeps a discrete event simulation running.
type Engine interface {
	Hookable
	TimeTeller
	EventScheduler

	// Run processes events until there is no event left.
	Run() error

	// Pause blocks the engine between two events until Continue is called.
	Pause()

	// Continue resumes a paused engine.
	Continue()

	// RegisterSimulationEndHandler registers a handler to be called by
	// Finished.
	RegisterSimulationEndHandler(handler SimulationEndHandler)

	// Finished invokes all the registered SimulationEndHandlers.
	Finished()
}
