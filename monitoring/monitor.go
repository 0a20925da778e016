// Package monitoring turns a circuit into a small web server so that an
// external renderer or a developer can inspect node values while the
// simulation runs.
package monitoring

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"

	// Enable profiling endpoints.
	_ "net/http/pprof"

	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"

	"github.com/gridlab/relay/circuit"
)

// Monitor serves the read-only state of one circuit over HTTP. It never
// mutates graph semantics; the only action it can trigger is a timeline
// drain.
type Monitor struct {
	circuit    *circuit.Circuit
	portNumber int
	noBrowser  bool
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor. Ports below 1000 are
// rejected and replaced with a random free port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is not allowed for the monitoring server. "+
				"Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber
	return m
}

// WithoutBrowser prevents the monitor from opening the system browser when
// the server starts.
func (m *Monitor) WithoutBrowser() *Monitor {
	m.noBrowser = true
	return m
}

// RegisterCircuit registers the circuit to be monitored.
func (m *Monitor) RegisterCircuit(c *circuit.Circuit) {
	m.circuit = c
}

// StartServer starts the monitor as a web server. It returns the address the
// server listens on.
func (m *Monitor) StartServer() (string, error) {
	r := mux.NewRouter()
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/drain", m.drain).Methods(http.MethodPost)
	r.HandleFunc("/api/nodes", m.nodes)
	r.HandleFunc("/api/components", m.components)
	r.HandleFunc("/api/resources", m.resources)
	r.PathPrefix("/debug/").Handler(http.DefaultServeMux)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", m.portNumber))
	if err != nil {
		return "", err
	}

	addr := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation at %s\n", addr)

	if !m.noBrowser {
		_ = browser.OpenURL(addr)
	}

	go func() {
		_ = http.Serve(listener, r)
	}()

	return addr, nil
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]float64{
		"now": float64(m.circuit.Timeline().Now()),
	})
}

func (m *Monitor) drain(w http.ResponseWriter, _ *http.Request) {
	if err := m.circuit.Timeline().Drain(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	m.now(w, nil)
}

func (m *Monitor) nodes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.circuit.Snapshot())
}

func (m *Monitor) components(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(m.circuit.Components()))
	for _, c := range m.circuit.Components() {
		names = append(names, c.Name())
	}

	writeJSON(w, names)
}

func (m *Monitor) resources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	memInfo, err := proc.MemoryInfo()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{
		"cpuPercent": cpuPercent,
		"memoryRSS":  memInfo.RSS,
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
