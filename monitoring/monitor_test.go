package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/partsim/timing"
)

type sampleComponent struct {
	*timing.ComponentBase

	Counter int
	Label   string
}

func (c *sampleComponent) Handle(_ timing.Event) error {
	c.Counter++
	return nil
}

func newSampleComponent(name string) *sampleComponent {
	return &sampleComponent{
		ComponentBase: timing.NewComponentBase(name),
		Counter:       3,
		Label:         "sample",
	}
}

var _ = Describe("Monitor", func() {
	var (
		engine  *timing.SerialEngine
		m       *Monitor
		handler http.Handler
	)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		handler.ServeHTTP(rec, req)

		return rec
	}

	BeforeEach(func() {
		engine = timing.NewSerialEngine()
		m = NewMonitor()
		m.RegisterEngine(engine)
		m.RegisterComponent(newSampleComponent("FirstFit"))
		m.RegisterComponent(newSampleComponent("BestFit"))
		handler = m.Handler()
	})

	It("should replace ports below 1000 with a random port", func() {
		m.WithPortNumber(80)
		Expect(m.portNumber).To(Equal(0))

		m.WithPortNumber(32776)
		Expect(m.portNumber).To(Equal(32776))
	})

	It("should report the current time", func() {
		rec := get("/api/now")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(MatchJSON(`{"now": 0}`))
	})

	It("should accept components while serving requests", func() {
		var wg sync.WaitGroup
		wg.Add(2)

		go func() {
			defer GinkgoRecover()
			defer wg.Done()

			for i := 0; i < 50; i++ {
				m.RegisterComponent(
					newSampleComponent("Late" + strconv.Itoa(i)))
			}
		}()

		go func() {
			defer GinkgoRecover()
			defer wg.Done()

			for i := 0; i < 50; i++ {
				Expect(get("/api/list_components").Code).
					To(Equal(http.StatusOK))
			}
		}()

		wg.Wait()

		var names []string
		Expect(json.Unmarshal(get("/api/list_components").Body.Bytes(),
			&names)).To(Succeed())
		Expect(names).To(HaveLen(52))
		Expect(get("/api/component/Late49").Code).To(Equal(http.StatusOK))
	})

	It("should list components", func() {
		rec := get("/api/list_components")

		Expect(rec.Body.String()).To(MatchJSON(`["FirstFit", "BestFit"]`))
	})

	It("should pause and continue the engine", func() {
		get("/api/pause")
		Expect(engine.Paused()).To(BeTrue())
		Expect(m.pausedByUser).To(BeTrue())

		get("/api/pause")
		Expect(engine.Paused()).To(BeTrue())

		get("/api/continue")
		Expect(engine.Paused()).To(BeFalse())
		Expect(m.pausedByUser).To(BeFalse())
	})

	It("should serialize a component", func() {
		rec := get("/api/component/FirstFit")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("Counter"))
		Expect(engine.Paused()).To(BeFalse())
	})

	It("should keep the engine paused by the user after inspection", func() {
		get("/api/pause")
		get("/api/component/BestFit")

		Expect(engine.Paused()).To(BeTrue())
	})

	It("should return 404 for unknown components", func() {
		rec := get("/api/component/WorstFit")

		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("should serialize a field", func() {
		req := url.PathEscape(`{"comp_name":"FirstFit","field_name":"Label"}`)
		rec := get("/api/field/" + req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("sample"))
	})

	It("should reject malformed field requests", func() {
		rec := get("/api/field/" + url.PathEscape("{"))

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("should list progress bars", func() {
		bar := m.CreateProgressBar("First Fit", 300)
		bar.IncrementFinished(30)
		bar.IncrementInProgress(2)
		bar.MoveInProgressToFinished(1)

		rec := get("/api/progress")

		var bars []map[string]any
		Expect(json.Unmarshal(rec.Body.Bytes(), &bars)).To(Succeed())
		Expect(bars).To(HaveLen(1))
		Expect(bars[0]["name"]).To(Equal("First Fit"))
		Expect(bars[0]["total"]).To(BeNumerically("==", 300))
		Expect(bars[0]["finished"]).To(BeNumerically("==", 31))
		Expect(bars[0]["in_progress"]).To(BeNumerically("==", 1))
		Expect(bar.Fraction()).To(BeNumerically("~", 31.0/300.0))
	})

	It("should remove completed progress bars", func() {
		bar1 := m.CreateProgressBar("First Fit", 10)
		bar2 := m.CreateProgressBar("Next Fit", 10)

		m.CompleteProgressBar(bar1)

		Expect(m.progressBars).To(ConsistOf(bar2))
	})

	It("should report resource usage", func() {
		rec := get("/api/resource")

		var rsp map[string]any
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp).To(HaveKey("cpu_percent"))
		Expect(rsp).To(HaveKey("memory_size"))
	})

	It("should serve the page", func() {
		rec := get("/")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("partsim monitor"))
	})

	It("should refuse to open a browser before the server starts", func() {
		Expect(m.OpenInBrowser()).NotTo(Succeed())
	})
})
