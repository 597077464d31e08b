// internal/common/mail/sender.go
package mail

import "context"

// Message is the outbound email payload. The transport contract is
// intentionally small: an HTML body and a recipient address.
type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Sender submits one email and reports ok/not-ok.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
