package model

import (
	"encoding/json"
	"strings"
)

type JobKind string

const (
	JobScan     JobKind = "SCAN"
	JobDownload JobKind = "DOWNLOAD"
	JobPublish  JobKind = "PUBLISH"
)

// Job status phases. Job.Status is free text in practice ("failed: CAPTCHA
// detected", "failed_session", ...), so callers match with the helpers below
// instead of comparing exact values.
const (
	JobPending   = "pending"
	JobRunning   = "running"
	JobCompleted = "completed"
	JobFailed    = "failed"
)

// Job is a read-only snapshot of one unit of external work. Payload fields
// are loosely structured: legally absent, malformed JSON, or JSON objects
// with missing fields — all treated alike by DecodePayload.
type Job struct {
	Kind          JobKind `yaml:"kind" json:"kind"`
	Status        string  `yaml:"status" json:"status"`
	DataPayload   any     `yaml:"data_payload,omitempty" json:"data_payload,omitempty"`
	ResultPayload any     `yaml:"result_payload,omitempty" json:"result_payload,omitempty"`
	ErrorMessage  string  `yaml:"error_message,omitempty" json:"error_message,omitempty"`
}

func (j *Job) IsPending() bool   { return strings.EqualFold(j.Status, JobPending) }
func (j *Job) IsRunning() bool   { return strings.EqualFold(j.Status, JobRunning) }
func (j *Job) IsCompleted() bool { return strings.EqualFold(j.Status, JobCompleted) }

// IsFailed matches "failed" and any elaborated variant ("failed_captcha",
// "failed: session expired").
func (j *Job) IsFailed() bool {
	return strings.HasPrefix(strings.ToLower(j.Status), JobFailed)
}

// Data decodes the job's data payload.
func (j *Job) Data() Payload { return DecodePayload(j.DataPayload) }

// Result decodes the job's result payload.
func (j *Job) Result() Payload { return DecodePayload(j.ResultPayload) }

// Message returns the most specific progress/error text the job carries:
// result payload first, then data payload, then the error message. Empty
// when the job carries no free text at all.
func (j *Job) Message() string {
	if m := j.Result().Message; m != "" {
		return m
	}
	if m := j.Data().Message; m != "" {
		return m
	}
	return j.ErrorMessage
}

// Payload is the decoded form of a job's loosely-typed payload field.
// Known is false for the unknown/unparsed variant: the raw value was absent,
// not an object, or unparsable JSON. All field accessors are zero-valued in
// that case.
type Payload struct {
	Known       bool
	Message     string
	Progress    int
	IsReviewing bool
}

// DecodePayload decodes a payload value that may be a JSON string, an
// already-decoded object, raw bytes, or absent. It never fails; anything
// unrecognizable becomes the unknown variant.
func DecodePayload(raw any) Payload {
	switch v := raw.(type) {
	case nil:
		return Payload{}
	case string:
		return decodePayloadJSON([]byte(v))
	case []byte:
		return decodePayloadJSON(v)
	case json.RawMessage:
		return decodePayloadJSON(v)
	case map[string]any:
		return decodePayloadMap(v)
	default:
		return Payload{}
	}
}

func decodePayloadJSON(b []byte) Payload {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return Payload{}
	}
	return decodePayloadMap(m)
}

func decodePayloadMap(m map[string]any) Payload {
	p := Payload{Known: true}
	if s, ok := m["message"].(string); ok {
		p.Message = s
	}
	p.Progress = asInt(m["progress"])
	if b, ok := m["is_reviewing"].(bool); ok {
		p.IsReviewing = b
	}
	return p
}

func asInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	default:
		return 0
	}
}
