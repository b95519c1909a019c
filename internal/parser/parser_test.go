package parser

import (
	"strings"
	"testing"
)

func TestParsePlainTextEmail(t *testing.T) {
	t.Parallel()

	raw := []byte(strings.Join([]string{
		"From: sender@example.com",
		"To: recipient@example.com",
		"Subject: Test Subject",
		"Message-Id: <test123@example.com>",
		"Content-Type: text/plain",
		"",
		"Hello, this is a plain text email.",
	}, "\r\n"))

	msg, err := Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if msg.From != "sender@example.com" {
		t.Errorf("From: got %q, want %q", msg.From, "sender@example.com")
	}
	if len(msg.To) != 1 || msg.To[0] != "recipient@example.com" {
		t.Errorf("To: got %v, want [recipient@example.com]", msg.To)
	}
	if msg.Subject != "Test Subject" {
		t.Errorf("Subject: got %q, want %q", msg.Subject, "Test Subject")
	}
	if msg.MessageID != "<test123@example.com>" {
		t.Errorf("MessageID: got %q, want %q", msg.MessageID, "<test123@example.com>")
	}
	if msg.TextBody != "Hello, this is a plain text email." {
		t.Errorf("TextBody: got %q, want %q", msg.TextBody, "Hello, this is a plain text email.")
	}
	if msg.HTMLBody != "" {
		t.Errorf("HTMLBody: got %q, want empty", msg.HTMLBody)
	}
}

func TestParseMultipartQuotedPrintable(t *testing.T) {
	t.Parallel()

	raw := []byte(strings.Join([]string{
		"From: \"Firefox Accounts\" <accounts@firefox.com>",
		"To: alice@example.com",
		"Cc: bob@example.com, carol@example.com",
		"Subject: =?UTF-8?q?Caf=C3=A9?=",
		"MIME-Version: 1.0",
		"Content-Type: multipart/alternative; boundary=boundary123",
		"",
		"--boundary123",
		"Content-Type: text/plain; charset=UTF-8",
		"Content-Transfer-Encoding: quoted-printable",
		"",
		"caf=C3=A9 =3D good",
		"--boundary123",
		"Content-Type: text/html; charset=UTF-8",
		"Content-Transfer-Encoding: quoted-printable",
		"",
		"<a href=3D\"x\">qux</a>",
		"--boundary123--",
	}, "\r\n"))

	msg, err := Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if msg.Subject != "Café" {
		t.Errorf("Subject: got %q, want %q", msg.Subject, "Café")
	}
	if len(msg.Cc) != 2 || msg.Cc[1] != "carol@example.com" {
		t.Errorf("Cc: got %v", msg.Cc)
	}
	if msg.TextBody != "café = good" {
		t.Errorf("TextBody: got %q, want %q", msg.TextBody, "café = good")
	}
	if msg.HTMLBody != `<a href="x">qux</a>` {
		t.Errorf("HTMLBody: got %q, want %q", msg.HTMLBody, `<a href="x">qux</a>`)
	}
}

func TestParseTopLevelEncodings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		headers  []string
		body     string
		wantText string
		wantHTML string
	}{
		{
			name:     "base64 text",
			headers:  []string{"Content-Type: text/plain", "Content-Transfer-Encoding: base64"},
			body:     "SGVsbG8s\r\nIFdvcmxk",
			wantText: "Hello, World",
		},
		{
			name:     "quoted-printable html",
			headers:  []string{"Content-Type: text/html", "Content-Transfer-Encoding: quoted-printable"},
			body:     "<p class=3D\"a\">hi</p>",
			wantHTML: `<p class="a">hi</p>`,
		},
		{
			name:     "unparseable content type",
			headers:  []string{"Content-Type: ;;;"},
			body:     "fallback",
			wantText: "fallback",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lines := append([]string{"From: sender@example.com", "To: r@example.com"}, tt.headers...)
			lines = append(lines, "", tt.body)

			msg, err := Parse([]byte(strings.Join(lines, "\r\n")))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if msg.TextBody != tt.wantText {
				t.Errorf("TextBody: got %q, want %q", msg.TextBody, tt.wantText)
			}
			if msg.HTMLBody != tt.wantHTML {
				t.Errorf("HTMLBody: got %q, want %q", msg.HTMLBody, tt.wantHTML)
			}
		})
	}
}

func TestParseMalformedMIME(t *testing.T) {
	t.Parallel()

	t.Run("completely invalid message", func(t *testing.T) {
		t.Parallel()
		raw := []byte("not a valid email at all\x00\x01\x02")
		_, err := Parse(raw)
		if err == nil {
			t.Error("expected error for completely invalid message, got nil")
		}
	})

	t.Run("missing content type defaults to text/plain", func(t *testing.T) {
		t.Parallel()
		raw := []byte(strings.Join([]string{
			"From: sender@example.com",
			"To: recipient@example.com",
			"Subject: No Content Type",
			"",
			"Body without content type header",
		}, "\r\n"))

		msg, err := Parse(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if msg.TextBody != "Body without content type header" {
			t.Errorf("TextBody: got %q, want %q", msg.TextBody, "Body without content type header")
		}
	})

	t.Run("multipart missing boundary", func(t *testing.T) {
		t.Parallel()
		raw := []byte(strings.Join([]string{
			"From: sender@example.com",
			"To: recipient@example.com",
			"Content-Type: multipart/mixed",
			"",
			"some body",
		}, "\r\n"))

		_, err := Parse(raw)
		if err == nil {
			t.Error("expected error for multipart missing boundary, got nil")
		}
	})
}

func TestParseEmptyAddressFields(t *testing.T) {
	t.Parallel()

	raw := []byte(strings.Join([]string{
		"From: sender@example.com",
		"Subject: No To",
		"Content-Type: text/plain",
		"",
		"Body",
	}, "\r\n"))

	msg, err := Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if msg.To != nil {
		t.Errorf("To: got %v, want nil", msg.To)
	}
	if msg.Cc != nil {
		t.Errorf("Cc: got %v, want nil", msg.Cc)
	}
}

func TestParseNestedMultipartSkipsAttachments(t *testing.T) {
	t.Parallel()

	raw := []byte(strings.Join([]string{
		"From: sender@example.com",
		"To: recipient@example.com",
		"Subject: Nested Multipart",
		"X-Custom: kept",
		"Content-Type: multipart/mixed; boundary=outer",
		"",
		"--outer",
		"Content-Type: multipart/alternative; boundary=inner",
		"",
		"--inner",
		"Content-Type: text/plain",
		"",
		"Plain text part",
		"--inner",
		"Content-Type: text/html",
		"",
		"<p>HTML part</p>",
		"--inner--",
		"--outer",
		"Content-Type: text/plain; name=\"notes.txt\"",
		"Content-Disposition: attachment; filename=\"notes.txt\"",
		"",
		"attached text",
		"--outer--",
	}, "\r\n"))

	msg, err := Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if msg.TextBody != "Plain text part" {
		t.Errorf("TextBody: got %q, want %q", msg.TextBody, "Plain text part")
	}
	if msg.HTMLBody != "<p>HTML part</p>" {
		t.Errorf("HTMLBody: got %q, want %q", msg.HTMLBody, "<p>HTML part</p>")
	}
	if got := msg.Headers["X-Custom"]; len(got) != 1 || got[0] != "kept" {
		t.Errorf("Headers[X-Custom]: got %v, want [kept]", got)
	}
}
