package model

import "time"

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Result is the outcome of a conversion as reported to clients and event consumers.
type Result struct {
	Status string `json:"status"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Succeeded returns a successful Result pointing at the output file.
func Succeeded(output string) Result {
	return Result{Status: StatusSuccess, Output: output}
}

// Failed returns a failed Result carrying the diagnostic text.
func Failed(diagnostic string) Result {
	return Result{Status: StatusFailed, Error: diagnostic}
}

// ConversionEvent is published once per finished conversion.
type ConversionEvent struct {
	Job        ConversionJob `json:"job"`
	Result     Result        `json:"result"`
	ObjectPath string        `json:"object_path,omitempty"` // set when the result was mirrored
	Elapsed    time.Duration `json:"elapsed_ns"`
	FinishedAt time.Time     `json:"finished_at"`
}
