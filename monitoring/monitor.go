// Package monitoring turns a running simulation into an HTTP server so that
// it can be observed and paused from outside.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/sirupsen/logrus"
	"github.com/syifan/goseth"

	"github.com/sarchlab/eventsim/hooking"
	"github.com/sarchlab/eventsim/resources"
	"github.com/sarchlab/eventsim/sim"
	"github.com/sarchlab/eventsim/tracing"
)

// PrimitiveSnapshot is the state of a primitive after a dispatch.
type PrimitiveSnapshot struct {
	Name    string  `json:"name"`
	Kind    string  `json:"kind"`
	Size    int     `json:"size"`
	Waiting int     `json:"waiting"`
	Time    float64 `json:"time"`
}

// Monitor serves the state of a simulation over HTTP.
//
// The monitor is a hook of the engine. After every dispatch it copies the
// state of the registered primitives, so that requests never read the
// primitives while the simulation mutates them.
type Monitor struct {
	engine          sim.Engine
	portNumber      int
	openBrowser     bool
	profileDuration time.Duration

	stateLock  sync.RWMutex
	primitives []resources.Observable
	snapshots  map[string]PrimitiveSnapshot

	pauseLock  sync.Mutex
	userPaused bool

	upgrader      websocket.Upgrader
	clientsLock   sync.Mutex
	clients       map[*websocket.Conn]bool
	records       chan tracing.DispatchRecord
	broadcastOnce sync.Once
	broadcastDone chan struct{}
	stop          chan struct{}
	stopOnce      sync.Once

	server *http.Server
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{
		profileDuration: time.Second,
		snapshots:       make(map[string]PrimitiveSnapshot),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]bool),
		records:       make(chan tracing.DispatchRecord, 1024),
		broadcastDone: make(chan struct{}),
		stop:          make(chan struct{}),
	}
}

// WithPortNumber sets the port number of the monitor. Ports below 1000 are
// replaced by a random port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		logrus.WithField("port", portNumber).
			Warn("Port number not allowed for the monitor, using a random port")

		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithOpenBrowser makes StartServer open the monitor in a browser.
func (m *Monitor) WithOpenBrowser(open bool) *Monitor {
	m.openBrowser = open
	return m
}

// RegisterEngine registers the engine of the simulation and hooks the
// monitor to it.
func (m *Monitor) RegisterEngine(e sim.Engine) {
	m.engine = e
	e.AcceptHook(m)
}

// RegisterPrimitive registers a primitive to be monitored.
func (m *Monitor) RegisterPrimitive(p resources.Observable) {
	m.stateLock.Lock()
	defer m.stateLock.Unlock()

	for _, registered := range m.primitives {
		if registered.Name() == p.Name() {
			panic(fmt.Sprintf("primitive %s already registered", p.Name()))
		}
	}

	m.primitives = append(m.primitives, p)
	m.snapshots[p.Name()] = m.snapshot(p)
}

func (m *Monitor) snapshot(p resources.Observable) PrimitiveSnapshot {
	var now sim.VTimeInSec
	if m.engine != nil {
		now = m.engine.Now()
	}

	return PrimitiveSnapshot{
		Name:    p.Name(),
		Kind:    fmt.Sprintf("%T", p),
		Size:    p.Size(),
		Waiting: p.Waiting(),
		Time:    float64(now),
	}
}

// Func copies the state of the primitives after each dispatch and streams
// the dispatches to the websocket clients.
func (m *Monitor) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case sim.HookPosBeforeEvent:
		rec, ok := tracing.ParseDispatch(ctx)
		if !ok {
			return
		}

		select {
		case m.records <- rec:
		default:
		}
	case sim.HookPosAfterEvent:
		m.stateLock.Lock()
		defer m.stateLock.Unlock()

		for _, p := range m.primitives {
			m.snapshots[p.Name()] = m.snapshot(p)
		}
	}
}

// Handler returns the HTTP handler of the monitor.
func (m *Monitor) Handler() http.Handler {
	m.broadcastOnce.Do(func() { go m.broadcast() })

	r := mux.NewRouter()
	r.HandleFunc("/api/pause", m.pauseEngine)
	r.HandleFunc("/api/continue", m.continueEngine)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/primitives", m.listPrimitives)
	r.HandleFunc("/api/primitive/{name}", m.primitiveDetails)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.HandleFunc("/api/events", m.streamEvents)

	return r
}

// StartServer starts serving in the background and returns the URL of the
// monitor.
func (m *Monitor) StartServer() string {
	actualPort := ":" + strconv.Itoa(m.portNumber)

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	logrus.WithField("url", url).Info("Monitoring simulation")

	m.server = &http.Server{
		Handler:           m.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		err := m.server.Serve(listener)
		if err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Monitor stopped")
		}
	}()

	if m.openBrowser {
		if err := browser.OpenURL(url); err != nil {
			logrus.WithError(err).Warn("Cannot open browser")
		}
	}

	return url
}

// StopServer stops the server and the streaming of dispatches, then closes
// the websocket clients. Calling it again does nothing new.
func (m *Monitor) StopServer() {
	m.stopOnce.Do(func() { close(m.stop) })

	if m.server != nil {
		_ = m.server.Close()
	}

	m.clientsLock.Lock()
	defer m.clientsLock.Unlock()

	for conn := range m.clients {
		_ = conn.Close()
		delete(m.clients, conn)
	}
}

func (m *Monitor) pauseEngine(w http.ResponseWriter, _ *http.Request) {
	m.pauseLock.Lock()
	defer m.pauseLock.Unlock()

	m.engine.Pause()
	m.userPaused = true

	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) continueEngine(w http.ResponseWriter, _ *http.Request) {
	m.pauseLock.Lock()
	defer m.pauseLock.Unlock()

	m.engine.Continue()
	m.userPaused = false

	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "{\"now\":%.10f}", float64(m.engine.Now()))
}

func (m *Monitor) listPrimitives(w http.ResponseWriter, _ *http.Request) {
	m.stateLock.RLock()
	list := make([]PrimitiveSnapshot, 0, len(m.snapshots))
	for _, s := range m.snapshots {
		list = append(list, s)
	}
	m.stateLock.RUnlock()

	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })

	writeJSON(w, list)
}

func (m *Monitor) findPrimitiveOr404(
	w http.ResponseWriter,
	name string,
) resources.Observable {
	m.stateLock.RLock()
	defer m.stateLock.RUnlock()

	for _, p := range m.primitives {
		if p.Name() == name {
			return p
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_, err := w.Write([]byte("Primitive not found"))
	dieOnErr(err)

	return nil
}

// primitiveDetails serializes the primitive itself. The engine is held
// paused meanwhile, so the serializer never races with a dispatch.
func (m *Monitor) primitiveDetails(w http.ResponseWriter, r *http.Request) {
	p := m.findPrimitiveOr404(w, mux.Vars(r)["name"])
	if p == nil {
		return
	}

	m.pauseLock.Lock()
	defer m.pauseLock.Unlock()

	if !m.userPaused {
		m.engine.Pause()
		defer m.engine.Continue()
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(p)
	serializer.SetMaxDepth(1)

	err := serializer.Serialize(w)
	dieOnErr(err)
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

	memInfo, err := proc.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memInfo.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	time.Sleep(m.profileDuration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func (m *Monitor) streamEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	m.clientsLock.Lock()
	m.clients[conn] = true
	m.clientsLock.Unlock()

	go func() {
		defer func() {
			m.clientsLock.Lock()
			delete(m.clients, conn)
			m.clientsLock.Unlock()

			_ = conn.Close()
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (m *Monitor) broadcast() {
	defer close(m.broadcastDone)

	for {
		select {
		case <-m.stop:
			return
		case rec := <-m.records:
			m.send(rec)
		}
	}
}

func (m *Monitor) send(rec tracing.DispatchRecord) {
	m.clientsLock.Lock()
	defer m.clientsLock.Unlock()

	for conn := range m.clients {
		if err := conn.WriteJSON(rec); err != nil {
			logrus.WithError(err).Debug("Dropping monitor client")
			_ = conn.Close()
			delete(m.clients, conn)
		}
	}
}

// NumClients returns the number of connected websocket clients.
func (m *Monitor) NumClients() int {
	m.clientsLock.Lock()
	defer m.clientsLock.Unlock()

	return len(m.clients)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	bytes, err := json.Marshal(v)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		logrus.Panic(err)
	}
}
