package api

import (
	"encoding/json"
	"fmt"
)

// Envelope is the normalized form of every backend response.
//
// The backend speaks two envelope dialects:
//
//	auth endpoints:     {"status":"success|fail|error","token":...,"data":...,"message":...}
//	resource endpoints: {"success":true|false,"data":...,"message":...,"errors":[...]}
//
// The gateway decodes whichever dialect arrives and callers only ever see
// this one shape. OK is the single field flow control should branch on.
type Envelope struct {
	OK         bool
	Status     string          // raw status string when the auth dialect was used
	Token      string          // present on signup/login responses
	Data       json.RawMessage // the payload, still encoded; use Decode
	Message    string
	Errors     []FieldError
	StatusCode int // the HTTP status the envelope arrived with
}

// FieldError is one entry of a backend validation-error list.
//
// The backend is inconsistent about the element shape; some endpoints
// return plain strings, others {"field":...,"message":...} objects; so
// UnmarshalJSON accepts both.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (f *FieldError) UnmarshalJSON(raw []byte) error {
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		f.Field = ""
		f.Message = s
		return nil
	}

	// Alias type avoids recursing back into this method.
	type alias FieldError
	var a alias
	if err := json.Unmarshal(raw, &a); err != nil {
		return err
	}
	// Some endpoints use "msg" instead of "message".
	if a.Message == "" {
		var m struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(raw, &m); err == nil {
			a.Message = m.Msg
		}
	}
	*f = FieldError(a)
	return nil
}

// Decode unmarshals the envelope's data payload into v.
func (e *Envelope) Decode(v any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("api: envelope has no data payload")
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("api: decoding envelope data: %w", err)
	}
	return nil
}

// ErrorStrings flattens the field-error list into display-ready messages.
// Returns nil when the backend sent no error list.
func (e *Envelope) ErrorStrings() []string {
	if len(e.Errors) == 0 {
		return nil
	}
	out := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		if fe.Field != "" && fe.Message != "" {
			out = append(out, fe.Field+": "+fe.Message)
			continue
		}
		if fe.Message != "" {
			out = append(out, fe.Message)
		}
	}
	return out
}

// wireEnvelope is the union of both backend dialects, decoded as-is before
// normalization.
type wireEnvelope struct {
	Status  string          `json:"status"`
	Success *bool           `json:"success"`
	Token   string          `json:"token"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Errors  []FieldError    `json:"errors"`
}

// normalize folds a decoded wire envelope plus its HTTP status into the
// public Envelope shape.
func (w *wireEnvelope) normalize(httpStatus int) *Envelope {
	env := &Envelope{
		Status:     w.Status,
		Token:      w.Token,
		Data:       w.Data,
		Message:    w.Message,
		Errors:     w.Errors,
		StatusCode: httpStatus,
	}

	switch {
	case w.Success != nil:
		env.OK = *w.Success
	case w.Status != "":
		env.OK = w.Status == "success"
	default:
		// No envelope markers at all; fall back to the HTTP status.
		env.OK = httpStatus >= 200 && httpStatus < 300
	}

	// A 2xx body claiming failure (or vice versa) is resolved in favour of
	// the envelope: the HTTP layer only transports it.
	if httpStatus >= 400 {
		env.OK = false
	}
	return env
}
