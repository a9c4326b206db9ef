/*
 * MIT License
 *
 * Copyright (c) 2023 EASL and the vHive community
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// A local stand-in for the deployed functions under test. It serves the
// {family}-{memoryMB} URL scheme and reports the response envelope the
// collector expects, including a self-reported cold-start flag. Each function
// path acts as one container: the first hit after process start or after the
// idle timeout is a cold start.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var (
	port          = flag.Int("port", 8080, "Port to listen on")
	idleTimeout   = flag.Duration("idleTimeout", 30*time.Second, "Idle period after which a function reports a cold start again")
	coldInitDelay = flag.Duration("coldInitDelay", 150*time.Millisecond, "Simulated environment initialization time")
	verbosity     = flag.String("verbosity", "info", "Logging verbosity - choose from [info, debug, trace]")
)

var functionPath = regexp.MustCompile(`^/([a-z-]+)-(\d+)$`)

type responseEnvelope struct {
	Performance          performanceReport    `json:"performance"`
	ExecutionEnvironment executionEnvironment `json:"executionEnvironment"`
}

type performanceReport struct {
	TotalExecutionTime float64 `json:"totalExecutionTime"`
}

type executionEnvironment struct {
	ColdStart   bool   `json:"coldStart"`
	MemoryLimit int    `json:"memoryLimit"`
	RequestID   string `json:"requestId"`
}

// containerState tracks per-function warmth, mirroring the process-lifetime
// "initialized" flag a real function carries.
type containerState struct {
	mutex    sync.Mutex
	lastSeen map[string]time.Time
}

func newContainerState() *containerState {
	return &containerState{lastSeen: map[string]time.Time{}}
}

// touch reports whether this invocation hits a fresh environment and records
// the visit.
func (cs *containerState) touch(key string, idleTTL time.Duration) bool {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	now := time.Now()
	last, seen := cs.lastSeen[key]
	cs.lastSeen[key] = now

	return !seen || now.Sub(last) > idleTTL
}

type handler struct {
	state *containerState

	idleTTL   time.Duration
	initDelay time.Duration
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	match := functionPath.FindStringSubmatch(r.URL.Path)
	if match == nil {
		http.Error(w, "unknown function", http.StatusNotFound)
		return
	}

	family := match[1]
	memoryMB, _ := strconv.Atoi(match[2])

	cold := h.state.touch(r.URL.Path, h.idleTTL)

	start := time.Now()
	if cold {
		time.Sleep(h.initDelay)
	}
	busySpin(workDuration(family, memoryMB))
	elapsed := time.Since(start)

	envelope := responseEnvelope{
		Performance: performanceReport{
			TotalExecutionTime: float64(elapsed.Microseconds()) / 1e3,
		},
		ExecutionEnvironment: executionEnvironment{
			ColdStart:   cold,
			MemoryLimit: memoryMB,
			RequestID:   uuid.New().String(),
		},
	}

	log.Tracef("(Serve)\t %s: cold=%v, %.2f[ms]", r.URL.Path, cold, envelope.Performance.TotalExecutionTime)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		log.Warnf("Failed to write response: %v", err)
	}
}

// workDuration models CPU share growing with allocated memory, the way
// serverless providers scale vCPU with the tier.
func workDuration(family string, memoryMB int) time.Duration {
	base := 5 * time.Millisecond
	if family == "compute-heavy" {
		base = 400 * time.Millisecond
	}

	scale := 128.0 / float64(memoryMB)

	return time.Duration(float64(base) * scale)
}

func busySpin(duration time.Duration) {
	deadline := time.Now().Add(duration)
	for time.Now().Before(deadline) {
	}
}

func main() {
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{
		TimestampFormat: time.StampMilli,
		FullTimestamp:   true,
	})
	log.SetOutput(os.Stdout)

	switch *verbosity {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "trace":
		log.SetLevel(log.TraceLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}

	h := &handler{
		state:     newContainerState(),
		idleTTL:   *idleTimeout,
		initDelay: *coldInitDelay,
	}

	addr := fmt.Sprintf(":%d", *port)
	log.Infof("Serving tier functions on %s", addr)
	log.Fatal(http.ListenAndServe(addr, h))
}
