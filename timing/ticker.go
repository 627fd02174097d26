package timing

import "sync"

// TickEvent asks a ticking handler to update its state for one time step.
type TickEvent struct {
	EventBase
}

// MakeTickEvent creates a TickEvent.
func MakeTickEvent(handler Handler, time VTime) TickEvent {
	evt := TickEvent{}
	evt.ID = GetIDGenerator().Generate()
	evt.handler = handler
	evt.time = time

	return evt
}

// A Ticker updates its state once per time step. Tick returns false when
// there is nothing left to do, so that ticking can stop.
type Ticker interface {
	Tick() bool
}

// TickScheduler schedules tick events without scheduling the same time step
// twice.
type TickScheduler struct {
	lock      sync.Mutex
	handler   Handler
	Engine    Engine
	secondary bool

	nextTickTime VTime
	scheduled    bool
}

// NewTickScheduler creates a scheduler for tick events.
func NewTickScheduler(handler Handler, engine Engine) *TickScheduler {
	return &TickScheduler{
		handler: handler,
		Engine:  engine,
	}
}

// NewSecondaryTickScheduler creates a scheduler that always schedules
// secondary tick events.
func NewSecondaryTickScheduler(
	handler Handler,
	engine Engine,
) *TickScheduler {
	ts := NewTickScheduler(handler, engine)
	ts.secondary = true

	return ts
}

// TickLater schedules a tick at the next time step.
func (t *TickScheduler) TickLater() {
	t.scheduleAt(t.CurrentTime() + 1)
}

func (t *TickScheduler) scheduleAt(time VTime) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.scheduled && t.nextTickTime >= time {
		return
	}

	t.nextTickTime = time
	t.scheduled = true

	tick := MakeTickEvent(t.handler, time)
	tick.secondary = t.secondary

	t.Engine.Schedule(tick)
}

// CurrentTime returns the current time of the engine.
func (t *TickScheduler) CurrentTime() VTime {
	return t.Engine.CurrentTime()
}

// TickingComponent is a component that updates its state from time step to
// time step. It keeps ticking as long as the ticker makes progress.
type TickingComponent struct {
	*ComponentBase
	*TickScheduler

	ticker Ticker
}

// NewTickingComponent creates a TickingComponent.
func NewTickingComponent(
	name string,
	engine Engine,
	ticker Ticker,
) *TickingComponent {
	tc := new(TickingComponent)
	tc.TickScheduler = NewTickScheduler(tc, engine)
	tc.ComponentBase = NewComponentBase(name)
	tc.ticker = ticker

	return tc
}

// NewSecondaryTickingComponent creates a TickingComponent that ticks after
// all the primary events of each time step.
func NewSecondaryTickingComponent(
	name string,
	engine Engine,
	ticker Ticker,
) *TickingComponent {
	tc := new(TickingComponent)
	tc.TickScheduler = NewSecondaryTickScheduler(tc, engine)
	tc.ComponentBase = NewComponentBase(name)
	tc.ticker = ticker

	return tc
}

// Handle ticks the ticker, and schedules the next tick if progress is made.
func (c *TickingComponent) Handle(_ Event) error {
	madeProgress := c.ticker.Tick()
	if madeProgress {
		c.TickLater()
	}

	return nil
}
