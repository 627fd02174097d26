// Package monitoring serves the state of a running simulation over HTTP.
package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/sirupsen/logrus"
	"github.com/syifan/goseth"

	"github.com/sarchlab/partsim/monitoring/web"
	"github.com/sarchlab/partsim/timing"
)

// Monitor turns a simulation into a server that can be inspected and
// controlled from a browser.
type Monitor struct {
	engine     timing.Engine
	portNumber int
	logger     logrus.FieldLogger

	componentsLock sync.RWMutex
	components     []timing.Component

	pauseLock    sync.Mutex
	pausedByUser bool

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar

	server *http.Server
	url    string
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{
		logger: logrus.StandardLogger(),
	}
}

// WithPortNumber sets the port number of the monitor. Ports below 1000 are
// not allowed and a random port is used instead.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		m.logger.WithField("port", portNumber).
			Warn("Port is not allowed for monitoring, using a random port")

		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithLogger sets the logger of the monitor.
func (m *Monitor) WithLogger(logger logrus.FieldLogger) *Monitor {
	m.logger = logger
	return m
}

// RegisterEngine registers the engine of the simulation.
func (m *Monitor) RegisterEngine(e timing.Engine) {
	m.engine = e
}

// RegisterComponent registers a component to be inspected.
func (m *Monitor) RegisterComponent(c timing.Component) {
	m.componentsLock.Lock()
	defer m.componentsLock.Unlock()

	m.components = append(m.components, c)
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        timing.GetIDGenerator().Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a progress bar.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Handler returns the HTTP handler that serves the monitor.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pauseEngine)
	r.HandleFunc("/api/continue", m.continueEngine)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/list_components", m.listComponents)
	r.HandleFunc("/api/component/{name}", m.listComponentDetails)
	r.HandleFunc("/api/field/{json}", m.listFieldValue)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts serving the monitor in the background and returns the
// URL of the monitor.
func (m *Monitor) StartServer() string {
	actualPort := ":0"
	if m.portNumber > 0 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	m.url = fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	m.server = &http.Server{
		Handler:           m.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	m.logger.WithField("url", m.url).Info("Monitoring simulation")

	go func() {
		err := m.server.Serve(listener)
		if err != nil && err != http.ErrServerClosed {
			dieOnErr(err)
		}
	}()

	return m.url
}

// OpenInBrowser opens the monitor page in the default browser.
func (m *Monitor) OpenInBrowser() error {
	if m.url == "" {
		return errors.New("monitoring: server is not started")
	}

	return browser.OpenURL(m.url)
}

// StopServer shuts the server down.
func (m *Monitor) StopServer(ctx context.Context) error {
	if m.server == nil {
		return nil
	}

	return m.server.Shutdown(ctx)
}

func (m *Monitor) pauseEngine(w http.ResponseWriter, _ *http.Request) {
	m.pauseLock.Lock()
	defer m.pauseLock.Unlock()

	if !m.pausedByUser {
		m.engine.Pause()
		m.pausedByUser = true
	}

	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) continueEngine(w http.ResponseWriter, _ *http.Request) {
	m.pauseLock.Lock()
	defer m.pauseLock.Unlock()

	if m.pausedByUser {
		m.engine.Continue()
		m.pausedByUser = false
	}

	w.WriteHeader(http.StatusOK)
}

// withEnginePaused runs f while no event is being handled.
func (m *Monitor) withEnginePaused(f func()) {
	m.pauseLock.Lock()
	defer m.pauseLock.Unlock()

	if !m.pausedByUser {
		m.engine.Pause()
		defer m.engine.Continue()
	}

	f()
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]uint64{"now": uint64(m.engine.CurrentTime())})
}

func (m *Monitor) listComponents(w http.ResponseWriter, _ *http.Request) {
	m.componentsLock.RLock()
	names := make([]string, 0, len(m.components))
	for _, c := range m.components {
		names = append(names, c.Name())
	}
	m.componentsLock.RUnlock()

	writeJSON(w, names)
}

func (m *Monitor) listComponentDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	component := m.findComponentOr404(w, name)
	if component == nil {
		return
	}

	buf := new(bytes.Buffer)
	m.withEnginePaused(func() {
		serializer := goseth.NewSerializer()
		serializer.SetRoot(component)
		serializer.SetMaxDepth(1)
		dieOnErr(serializer.Serialize(buf))
	})

	_, err := w.Write(buf.Bytes())
	dieOnErr(err)
}

type fieldReq struct {
	CompName  string `json:"comp_name,omitempty"`
	FieldName string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	req := fieldReq{}

	err := json.Unmarshal([]byte(mux.Vars(r)["json"]), &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	component := m.findComponentOr404(w, req.CompName)
	if component == nil {
		return
	}

	buf := new(bytes.Buffer)
	m.withEnginePaused(func() {
		serializer := goseth.NewSerializer()
		serializer.SetRoot(component)
		serializer.SetMaxDepth(1)

		err = serializer.SetEntryPoint(strings.Split(req.FieldName, "."))
		if err == nil {
			err = serializer.Serialize(buf)
		}
	})

	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	_, err = w.Write(buf.Bytes())
	dieOnErr(err)
}

func (m *Monitor) findComponentOr404(
	w http.ResponseWriter,
	name string,
) timing.Component {
	m.componentsLock.RLock()
	defer m.componentsLock.RUnlock()

	for _, c := range m.components {
		if c.Name() == name {
			return c
		}
	}

	http.Error(w, "Component not found", http.StatusNotFound)

	return nil
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	statuses := make([]progressBarStatus, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		statuses = append(statuses, b.status())
	}
	m.progressBarsLock.Unlock()

	writeJSON(w, statuses)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memoryInfo, err := proc.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")

	_, err = w.Write(data)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
