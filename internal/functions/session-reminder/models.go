// internal/functions/session-reminder/models.go
package sessionreminder

// Input is the optional invocation body. An absent or unparsable body
// triggers the normal scheduled (production) path.
type Input struct {
	IsTest    bool   `json:"isTest"`
	TestEmail string `json:"testEmail,omitempty"`
	EventID   string `json:"eventId,omitempty"`
}

// Output is the JSON dispatch summary returned to the caller.
type Output struct {
	Sent    int      `json:"sent"`
	Total   int      `json:"total,omitempty"`
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}
