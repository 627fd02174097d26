package timing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("Ticking Component", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *MockEngine
		ticker   *MockTicker
		tc       *TickingComponent
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewMockEngine(mockCtrl)
		ticker = NewMockTicker(mockCtrl)
		tc = NewTickingComponent("TC", engine, ticker)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should have a name", func() {
		Expect(tc.Name()).To(Equal("TC"))
	})

	It("should tick later", func() {
		engine.EXPECT().CurrentTime().Return(VTime(10))
		engine.EXPECT().Schedule(gomock.Any()).
			Do(func(e Event) {
				Expect(e.Time()).To(Equal(VTime(11)))
				Expect(e.Handler()).To(BeIdenticalTo(tc))
				Expect(e.IsSecondary()).To(BeFalse())
			})

		tc.TickLater()
	})

	It("should tick in the next time step when the ticker makes progress", func() {
		engine.EXPECT().CurrentTime().Return(VTime(10))
		engine.EXPECT().Schedule(gomock.Any()).
			Do(func(e Event) {
				Expect(e.Time()).To(Equal(VTime(11)))
			})
		ticker.EXPECT().Tick().Return(true)

		Expect(tc.Handle(MakeTickEvent(tc, 10))).To(Succeed())
	})

	It("should not schedule the same time step twice", func() {
		engine.EXPECT().CurrentTime().Return(VTime(10)).Times(2)
		engine.EXPECT().Schedule(gomock.Any()).
			Do(func(e Event) {
				Expect(e.Time()).To(Equal(VTime(11)))
			})

		ticker.EXPECT().Tick().Return(true).Times(2)
		Expect(tc.Handle(MakeTickEvent(tc, 10))).To(Succeed())
		Expect(tc.Handle(MakeTickEvent(tc, 10))).To(Succeed())
	})

	It("should stop ticking if no progress is made", func() {
		ticker.EXPECT().Tick().Return(false)

		Expect(tc.Handle(MakeTickEvent(tc, 10))).To(Succeed())
	})

	It("should schedule secondary ticks", func() {
		tc = NewSecondaryTickingComponent("TC2", engine, ticker)
		engine.EXPECT().CurrentTime().Return(VTime(3))
		engine.EXPECT().Schedule(gomock.Any()).
			Do(func(e Event) {
				Expect(e.IsSecondary()).To(BeTrue())
			})

		tc.TickLater()
	})
})

var _ = Describe("Ticking a real engine", func() {
	It("should keep ticking until the ticker stops", func() {
		engine := NewSerialEngine()
		counter := &countingTicker{limit: 5}
		tc := NewTickingComponent("counter", engine, counter)

		tc.TickLater()
		Expect(engine.Run()).To(Succeed())

		Expect(counter.ticks).To(Equal(5))
		Expect(engine.CurrentTime()).To(Equal(VTime(5)))
	})

	It("should tick secondary components after primary ones", func() {
		engine := NewSerialEngine()
		var order []string

		primary := &namedTicker{name: "primary", limit: 3, order: &order}
		secondary := &namedTicker{name: "secondary", limit: 3, order: &order}

		NewSecondaryTickingComponent("secondary", engine, secondary).TickLater()
		NewTickingComponent("primary", engine, primary).TickLater()

		Expect(engine.Run()).To(Succeed())

		Expect(order).To(Equal([]string{
			"primary", "secondary",
			"primary", "secondary",
			"primary", "secondary",
		}))
	})
})

type namedTicker struct {
	name  string
	ticks int
	limit int
	order *[]string
}

func (t *namedTicker) Tick() bool {
	t.ticks++
	*t.order = append(*t.order, t.name)

	return t.ticks < t.limit
}

type countingTicker struct {
	ticks int
	limit int
}

func (t *countingTicker) Tick() bool {
	t.ticks++
	return t.ticks < t.limit
}
