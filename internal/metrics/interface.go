package metrics

import "time"

// Recorder is the set of observations the capture store and the API emit.
// It allows the collectors to be swapped out in tests.
type Recorder interface {
	// RecordConfigLoad counts one live metrics configuration load.
	RecordConfigLoad(entityType, outcome string)

	// RecordCaptureCall records one capture store call. errorCode is empty
	// on success.
	RecordCaptureCall(operation string, duration time.Duration, errorCode string)

	// AddSamplesRecorded counts raw samples written to the store.
	AddSamplesRecorded(count int)

	// RecordHTTPRequest records one served HTTP request.
	RecordHTTPRequest(method, route, status string, duration time.Duration)
}

// Nop discards every observation.
type Nop struct{}

func (Nop) RecordConfigLoad(string, string) {}
func (Nop) RecordCaptureCall(string, time.Duration, string) {}
func (Nop) AddSamplesRecorded(int) {}
func (Nop) RecordHTTPRequest(string, string, string, time.Duration) {}

var (
	_ Recorder = (*PrometheusMetrics)(nil)
	_ Recorder = Nop{}
)
