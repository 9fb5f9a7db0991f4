// Package monitoring serves the state of a running replay over HTTP and lets
// a user pause and resume it.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/rs/xid"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/stdp/hooking"
	"github.com/sarchlab/stdp/lut"
	"github.com/sarchlab/stdp/monitoring/web"
	"github.com/sarchlab/stdp/replay"
	"github.com/sarchlab/stdp/sim"
)

// Engine is the part of the event engine the monitor controls.
type Engine interface {
	hooking.Hookable
	sim.TimeTeller
	Pause()
	Continue()
}

// SynapseSource provides synapse snapshots.
type SynapseSource interface {
	Synapses() []replay.SynapseView
	Synapse(id int) (replay.SynapseView, bool)
}

// Monitor turns a replay into a server that can be watched and controlled
// from a browser.
type Monitor struct {
	engine     Engine
	synapses   SynapseSource
	tables     []*lut.DecayLUT
	portNumber int

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor. Ports below 1000 are
// replaced by a random port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		if portNumber != 0 {
			fmt.Fprintf(os.Stderr,
				"Port number %d is not allowed for the monitor, "+
					"using a random port instead.\n", portNumber)
		}

		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterEngine registers the engine that runs the replay.
func (m *Monitor) RegisterEngine(e Engine) {
	m.engine = e
}

// RegisterSynapses registers where synapse snapshots come from.
func (m *Monitor) RegisterSynapses(s SynapseSource) {
	m.synapses = s
}

// RegisterTables registers the decay tables in use.
func (m *Monitor) RegisterTables(tables ...*lut.DecayLUT) {
	m.tables = append(m.tables, tables...)
}

// RegisterSimulation registers the engine, synapses and tables of s.
func (m *Monitor) RegisterSimulation(s *replay.Simulation) {
	m.RegisterEngine(s.Engine)
	m.RegisterSynapses(s.Learner)
	m.RegisterTables(s.Tables...)
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        xid.New().String(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar from the page.
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

// TrackEvents creates a progress bar that advances with every event the
// registered engine handles.
func (m *Monitor) TrackEvents(name string, total uint64) *ProgressBar {
	bar := m.CreateProgressBar(name, total)
	m.engine.AcceptHook(&eventCounter{bar: bar})

	return bar
}

type eventCounter struct {
	bar *ProgressBar
}

func (c *eventCounter) Func(ctx hooking.HookCtx) {
	if ctx.Pos == sim.HookPosAfterEvent {
		c.bar.IncrementFinished(1)
	}
}

// Router returns the HTTP routes of the monitor.
func (m *Monitor) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pauseEngine)
	r.HandleFunc("/api/continue", m.continueEngine)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/luts", m.listTables)
	r.HandleFunc("/api/synapses", m.listSynapses)
	r.HandleFunc("/api/synapse/{id}", m.synapseDetails)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts serving in the background and returns the URL of the
// monitor.
func (m *Monitor) StartServer() (string, error) {
	listener, err := net.Listen("tcp", ":"+strconv.Itoa(m.portNumber))
	if err != nil {
		return "", fmt.Errorf("monitoring: %w", err)
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring replay with %s\n", url)

	go func() {
		err := http.Serve(listener, m.Router())
		dieOnErr(err)
	}()

	return url, nil
}

// OpenInBrowser opens url with the system browser.
func OpenInBrowser(url string) error {
	return browser.OpenURL(url)
}

func (m *Monitor) pauseEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Pause()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) continueEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Continue()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "{\"now\":%d}", m.engine.CurrentTime())
}

type tableRsp struct {
	Name   string  `json:"name"`
	Size   int     `json:"size"`
	Shift  uint    `json:"shift"`
	Values []int16 `json:"values"`
}

func (m *Monitor) listTables(w http.ResponseWriter, _ *http.Request) {
	rsp := make([]tableRsp, 0, len(m.tables))
	for _, t := range m.tables {
		spec := t.Spec()
		rsp = append(rsp, tableRsp{
			Name:   spec.Name,
			Size:   spec.Size,
			Shift:  spec.Shift,
			Values: t.Values(),
		})
	}

	writeJSON(w, rsp)
}

type synapseRsp struct {
	ID           int     `json:"id"`
	Pre          int     `json:"pre"`
	Post         int     `json:"post"`
	LastPreTime  uint32  `json:"last_pre_time"`
	LastPreTrace int16   `json:"last_pre_trace"`
	Potentiation int32   `json:"potentiation"`
	Depression   int32   `json:"depression"`
	Weight       float64 `json:"weight"`
}

func (m *Monitor) listSynapses(w http.ResponseWriter, _ *http.Request) {
	views := m.synapses.Synapses()

	rsp := make([]synapseRsp, len(views))
	for i, v := range views {
		rsp[i] = synapseRsp{
			ID:           v.ID,
			Pre:          v.Pre,
			Post:         v.Post,
			LastPreTime:  uint32(v.LastPreTime),
			LastPreTrace: int16(v.LastPreTrace),
			Potentiation: v.State.Potentiation,
			Depression:   v.State.Depression,
			Weight:       v.Weight,
		}
	}

	writeJSON(w, rsp)
}

func (m *Monitor) synapseDetails(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid synapse id", http.StatusBadRequest)
		return
	}

	view, ok := m.synapses.Synapse(id)
	if !ok {
		http.Error(w, "Synapse not found", http.StatusNotFound)
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(&view)
	serializer.SetMaxDepth(2)

	err = serializer.Serialize(w)
	dieOnErr(err)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	rsp := make([]progressRsp, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		rsp = append(rsp, b.snapshot())
	}
	m.progressBarsLock.Unlock()

	writeJSON(w, rsp)
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

	memory, err := proc.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memory.RSS,
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
