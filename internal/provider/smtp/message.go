package smtp

import (
	"bytes"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"
	"time"

	"github.com/shineum/mailsend-lite/internal/email"
)

// sender is the shared From identity.
type sender struct {
	address string
	name    string
}

// header renders the sender as an RFC 5322 From value.
func (s sender) header() string {
	if s.name == "" {
		return s.address
	}
	return (&mail.Address{Name: s.name, Address: s.address}).String()
}

// domain returns the part of the sender address after the @, used as the
// right-hand side of generated Message-IDs.
func (s sender) domain() string {
	if i := strings.LastIndex(s.address, "@"); i >= 0 {
		return s.address[i+1:]
	}
	return "localhost"
}

// buildMessage renders msg as a multipart/alternative MIME message with a
// text/plain part and, when supplied, a text/html part.
func buildMessage(from sender, msg *email.Message, id string, now time.Time) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s\r\n", from.header())
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	if len(msg.Cc) > 0 {
		fmt.Fprintf(&buf, "Cc: %s\r\n", strings.Join(msg.Cc, ", "))
	}
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", msg.Subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", now.Format(time.RFC1123Z))
	fmt.Fprintf(&buf, "Message-ID: <%s@%s>\r\n", id, from.domain())
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")

	writer := multipart.NewWriter(&buf)
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", writer.Boundary())

	if err := writePart(writer, "text/plain; charset=UTF-8", msg.TextBody); err != nil {
		return nil, fmt.Errorf("text part: %w", err)
	}
	if msg.HasHTML() {
		if err := writePart(writer, "text/html; charset=UTF-8", msg.HTMLBody); err != nil {
			return nil, fmt.Errorf("html part: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writePart(writer *multipart.Writer, contentType, body string) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Type", contentType)
	header.Set("Content-Transfer-Encoding", "quoted-printable")

	part, err := writer.CreatePart(header)
	if err != nil {
		return err
	}

	qp := quotedprintable.NewWriter(part)
	if _, err := qp.Write([]byte(body)); err != nil {
		return err
	}
	return qp.Close()
}
