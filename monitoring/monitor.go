// Package monitoring serves the register bank and the sequencer state over
// HTTP while a sequence runs.
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
	"strings"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/rs/xid"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/dramctl/dramc"
	"github.com/sarchlab/dramctl/hooking"
	"github.com/sarchlab/dramctl/monitoring/web"
	"github.com/sarchlab/dramctl/regs"
)

// DefaultEventCapacity is the number of recent events kept for /api/events.
const DefaultEventCapacity = 256

// peeker reads a register without side effects.
type peeker interface {
	Peek(addr regs.Addr) uint32
}

// Event is a hook invocation kept for display.
type Event struct {
	Time   time.Time `json:"time"`
	Domain string    `json:"domain"`
	Pos    string    `json:"pos"`
	Item   string    `json:"item"`
	Detail string    `json:"detail,omitempty"`
}

// Monitor turns a controller run into a server that shows the register bank,
// the power state and recent events.
type Monitor struct {
	bus         regs.Bus
	ctrl        *dramc.Controller
	components  []hooking.Hookable
	portNumber  int
	openBrowser bool

	lock          sync.Mutex
	events        []Event
	eventCapacity int
	progressBars  []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{eventCapacity: DefaultEventCapacity}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithBrowser makes StartServer open the page in the default browser.
func (m *Monitor) WithBrowser(open bool) *Monitor {
	m.openBrowser = open
	return m
}

// WithEventCapacity sets how many recent events are kept.
func (m *Monitor) WithEventCapacity(n int) *Monitor {
	m.eventCapacity = n
	return m
}

// RegisterController registers the controller and its bus.
func (m *Monitor) RegisterController(ctrl *dramc.Controller) {
	m.ctrl = ctrl
	m.bus = ctrl.Bus()
	m.RegisterComponent(ctrl)
}

// RegisterComponent registers a hookable to be inspected and observed.
func (m *Monitor) RegisterComponent(c hooking.Hookable) {
	m.components = append(m.components, c)
	c.AcceptHook(m)
}

// Func records a hook invocation as a recent event.
func (m *Monitor) Func(ctx hooking.HookCtx) {
	e := Event{
		Time: time.Now(),
		Pos:  ctx.Pos.Name,
		Item: fmt.Sprint(ctx.Item),
	}

	if ctx.Domain != nil {
		e.Domain = ctx.Domain.Name()
	}

	if ctx.Detail != nil {
		e.Detail = fmt.Sprint(ctx.Detail)
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	m.events = append(m.events, e)
	if over := len(m.events) - m.eventCapacity; over > 0 {
		m.events = append([]Event(nil), m.events[over:]...)
	}
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        xid.New().String(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.lock.Lock()
	defer m.lock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Handler returns the routes of the monitor.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/registers", m.listRegisters)
	r.HandleFunc("/api/register/{addr}", m.readRegister)
	r.HandleFunc("/api/state", m.state)
	r.HandleFunc("/api/events", m.listEvents)
	r.HandleFunc("/api/list_components", m.listComponents)
	r.HandleFunc("/api/component/{name}", m.listComponentDetails)
	r.HandleFunc("/api/field/{json}", m.listFieldValue)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts the monitor as a web server and returns its URL.
func (m *Monitor) StartServer() (string, error) {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring DRAM controller with %s\n", url)

	go func() {
		err := http.Serve(listener, m.Handler())
		dieOnErr(err)
	}()

	if m.openBrowser {
		if err := browser.OpenURL(url); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot open browser: %v\n", err)
		}
	}

	return url, nil
}

type registerRsp struct {
	Name  string `json:"name"`
	Addr  string `json:"addr"`
	Value string `json:"value"`
}

func (m *Monitor) peek(addr regs.Addr) uint32 {
	if p, ok := m.bus.(peeker); ok {
		return p.Peek(addr)
	}

	return m.bus.Read(addr)
}

func (m *Monitor) busOr503(w http.ResponseWriter) bool {
	if m.bus == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, err := w.Write([]byte("No controller registered"))
		dieOnErr(err)

		return false
	}

	return true
}

func (m *Monitor) listRegisters(w http.ResponseWriter, _ *http.Request) {
	if !m.busOr503(w) {
		return
	}

	known := regs.Known()
	rsp := make([]registerRsp, 0, len(known))

	for _, a := range known {
		rsp = append(rsp, registerRsp{
			Name:  regs.Name(a),
			Addr:  a.String(),
			Value: fmt.Sprintf("0x%08x", m.peek(a)),
		})
	}

	writeJSON(w, rsp)
}

// parseRegister accepts a register name or a hexadecimal address.
func parseRegister(s string) (regs.Addr, bool) {
	for _, a := range regs.Known() {
		if strings.EqualFold(regs.Name(a), s) {
			return a, true
		}
	}

	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil || v%4 != 0 {
		return 0, false
	}

	return regs.Addr(v), true
}

func (m *Monitor) readRegister(w http.ResponseWriter, r *http.Request) {
	if !m.busOr503(w) {
		return
	}

	addr, ok := parseRegister(mux.Vars(r)["addr"])
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		_, err := w.Write([]byte("Invalid register"))
		dieOnErr(err)

		return
	}

	writeJSON(w, registerRsp{
		Name:  regs.Name(addr),
		Addr:  addr.String(),
		Value: fmt.Sprintf("0x%08x", m.peek(addr)),
	})
}

type stateRsp struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

func (m *Monitor) state(w http.ResponseWriter, _ *http.Request) {
	if m.ctrl == nil {
		writeJSON(w, stateRsp{State: "unknown"})
		return
	}

	writeJSON(w, stateRsp{Name: m.ctrl.Name(), State: m.ctrl.State().String()})
}

func (m *Monitor) listEvents(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	events := append([]Event{}, m.events...)
	m.lock.Unlock()

	writeJSON(w, events)
}

func (m *Monitor) listComponents(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(m.components))
	for _, c := range m.components {
		names = append(names, c.Name())
	}

	writeJSON(w, names)
}

func (m *Monitor) listComponentDetails(w http.ResponseWriter, r *http.Request) {
	component := m.findComponentOr404(w, mux.Vars(r)["name"])
	if component == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(component)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

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
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	component := m.findComponentOr404(w, req.CompName)
	if component == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(component)
	serializer.SetMaxDepth(1)

	err = serializer.SetEntryPoint(strings.Split(req.FieldName, "."))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	err = serializer.Serialize(w)
	dieOnErr(err)
}

func (m *Monitor) findComponentOr404(
	w http.ResponseWriter,
	name string,
) hooking.Hookable {
	for _, c := range m.components {
		if c.Name() == name {
			return c
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_, err := w.Write([]byte("Component not found"))
	dieOnErr(err)

	return nil
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	defer m.lock.Unlock()

	writeJSON(w, m.progressBars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
