// Package email defines the message value handed to delivery providers.
package email

// Message is a single transactional email. To is the primary recipient and
// Cc may be empty. HTMLBody is optional; an empty string means no HTML part.
type Message struct {
	To       string
	Cc       []string
	Subject  string
	TextBody string
	HTMLBody string
}

// Recipients returns the primary recipient followed by every Cc address.
func (m *Message) Recipients() []string {
	rcpts := make([]string, 0, 1+len(m.Cc))
	rcpts = append(rcpts, m.To)
	return append(rcpts, m.Cc...)
}

// HasHTML reports whether the caller supplied an HTML body.
func (m *Message) HasHTML() bool {
	return m.HTMLBody != ""
}
