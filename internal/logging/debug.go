package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DebugRecorder persists model traffic to disk for post-hoc inspection:
// raw responses, the requests that produced them, and the errors they
// failed with. Raw responses matter most when a payload fails to parse
// and the recording is the only evidence of what the model produced.
//
// Recordings are written to {dir}/debug as timestamped files and are
// never read back by the program.
type DebugRecorder struct {
	dir     string
	enabled bool
	log     *Logger
}

// RequestRecord is the JSON shape of a recorded model request.
type RequestRecord struct {
	Timestamp   time.Time `json:"timestamp"`
	Agent       string    `json:"agent"`
	Model       string    `json:"model"`
	SystemChars int       `json:"system_chars"`
	Prompt      string    `json:"prompt"`
}

// ErrorRecord is the JSON shape of a recorded model failure.
type ErrorRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Agent     string    `json:"agent"`
	Error     string    `json:"error"`
}

// NewDebugRecorder creates a recorder that writes under dir/debug.
// A disabled recorder silently drops all recordings.
func NewDebugRecorder(dir string, enabled bool, log *Logger) *DebugRecorder {
	if log == nil {
		log = NopLogger()
	}
	return &DebugRecorder{
		dir:     filepath.Join(dir, "debug"),
		enabled: enabled,
		log:     log,
	}
}

// Record writes payload to a timestamped file named after the label,
// e.g. debug_planner_response_20240101_120000.txt. It returns the path
// of the written file, or an empty string if the recorder is disabled.
//
// Recording failures are logged and swallowed. A failed debug dump must
// never interrupt the workflow that triggered it. A nil recorder drops
// everything.
func (r *DebugRecorder) Record(label, payload string) string {
	return r.write(label, ".txt", []byte(payload))
}

// RecordRequest captures an outgoing model request as a JSON snapshot.
func (r *DebugRecorder) RecordRequest(label string, rec RequestRecord) string {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	return r.recordJSON(label, rec)
}

// RecordError captures a failed model call as a JSON snapshot.
func (r *DebugRecorder) RecordError(label string, rec ErrorRecord) string {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	return r.recordJSON(label, rec)
}

func (r *DebugRecorder) recordJSON(label string, v any) string {
	if r == nil || !r.enabled {
		return ""
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		r.log.Warn("failed to encode debug recording", "label", label, "error", err)
		return ""
	}
	return r.write(label, ".json", data)
}

func (r *DebugRecorder) write(label, ext string, payload []byte) string {
	if r == nil || !r.enabled {
		return ""
	}

	if err := os.MkdirAll(r.dir, 0755); err != nil {
		r.log.Warn("failed to create debug directory", "dir", r.dir, "error", err)
		return ""
	}

	name := fmt.Sprintf("debug_%s_%s%s", label, time.Now().Format("20060102_150405"), ext)
	path := filepath.Join(r.dir, name)

	if err := os.WriteFile(path, payload, 0644); err != nil {
		r.log.Warn("failed to write debug recording", "path", path, "error", err)
		return ""
	}

	r.log.Debug("recorded debug payload", "label", label, "path", path, "bytes", len(payload))
	return path
}
