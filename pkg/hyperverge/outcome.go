package hyperverge

import "encoding/json"

// Action is a named remote operation the document-verification service
// performs on an uploaded file.
type Action string

const (
	ActionTest         Action = "test"
	ActionReadPAN      Action = "readPAN"
	ActionReadPassport Action = "readPassport"
	ActionReadAadhaar  Action = "readAadhaar"
	ActionReadKYC      Action = "readKYC"
)

// Actions is the closed set of supported actions.
var Actions = []Action{
	ActionTest,
	ActionReadPAN,
	ActionReadPassport,
	ActionReadAadhaar,
	ActionReadKYC,
}

// IsValidAction checks if the given action name is supported.
func IsValidAction(name string) bool {
	for _, a := range Actions {
		if string(a) == name {
			return true
		}
	}

	return false
}

// Outcome is the result of one upload attempt. Exactly one of the two
// variants holds: a failed outcome carries a non-empty Err and no service
// response, a successful outcome carries the service response and an empty
// Err. Use Success and Failure to construct; an Outcome is immutable after
// construction.
type Outcome struct {
	Action     Action          `json:"action"`
	File       string          `json:"file"`
	Status     string          `json:"status,omitempty"`
	StatusCode string          `json:"statusCode,omitempty"`
	Result     json.RawMessage `json:"result,omitempty"`
	Err        string          `json:"err,omitempty"`
}

// Success builds the successful variant from a parsed service response.
func Success(action Action, file string, resp *Response) Outcome {
	return Outcome{
		Action:     action,
		File:       file,
		Status:     resp.Status,
		StatusCode: string(resp.StatusCode),
		Result:     resp.Result,
	}
}

// Failure builds the failed variant. The message must be non-empty.
func Failure(action Action, file, message string) Outcome {
	return Outcome{
		Action: action,
		File:   file,
		Err:    message,
	}
}

// Failed reports whether the outcome is the failed variant.
func (o Outcome) Failed() bool {
	return o.Err != ""
}
