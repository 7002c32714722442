package gmail

import (
	"encoding/base64"
	"fmt"
	"mime"
	"regexp"
	"strings"
	"time"

	"github.com/deskmate/deskmate/internal/session"
)

// Envelope is the logical form of an outgoing email before MIME encoding.
// From is fixed per deployment; an empty From lets Gmail fill in the
// authenticated user's address.
type Envelope struct {
	From        string
	To          []string
	Cc          []string
	Bcc         []string
	Subject     string
	Body        string
	Attachments []session.Attachment
}

// htmlTagPattern decides whether a body is sent as text/html.
var htmlTagPattern = regexp.MustCompile(`(?i)<([a-z][a-z0-9]*)\b[^>]*>`)

const base64LineLength = 76

// BuildRaw assembles a transport-safe Gmail raw message from the envelope:
// an RFC 2822 header block, a base64 body, and one multipart/mixed part per
// attachment, the whole message encoded with URL-safe base64 without
// padding as the Gmail API requires.
func BuildRaw(env Envelope) (string, error) {
	to := cleanAddresses(env.To)
	if len(to) == 0 {
		return "", fmt.Errorf("at least one recipient is required")
	}
	cc := cleanAddresses(env.Cc)
	bcc := cleanAddresses(env.Bcc)

	contentType := "text/plain"
	if htmlTagPattern.MatchString(env.Body) {
		contentType = "text/html"
	}

	var b strings.Builder

	if env.From != "" {
		b.WriteString("From: ")
		b.WriteString(strings.TrimSpace(env.From))
		b.WriteString("\r\n")
	}
	b.WriteString("To: ")
	b.WriteString(strings.Join(to, ", "))
	b.WriteString("\r\n")
	// Empty recipient lists produce no header line at all.
	if len(cc) > 0 {
		b.WriteString("Cc: ")
		b.WriteString(strings.Join(cc, ", "))
		b.WriteString("\r\n")
	}
	if len(bcc) > 0 {
		b.WriteString("Bcc: ")
		b.WriteString(strings.Join(bcc, ", "))
		b.WriteString("\r\n")
	}
	b.WriteString("Subject: ")
	b.WriteString(encodeRFC2047(env.Subject))
	b.WriteString("\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")

	if len(env.Attachments) == 0 {
		b.WriteString(fmt.Sprintf("Content-Type: %s; charset=\"UTF-8\"\r\n", contentType))
		b.WriteString("Content-Transfer-Encoding: base64\r\n")
		b.WriteString("\r\n")
		b.WriteString(wrapBase64(base64.StdEncoding.EncodeToString([]byte(env.Body))))
	} else {
		boundary := fmt.Sprintf("deskmate_%d", time.Now().UnixNano())
		b.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=\"%s\"\r\n", boundary))
		b.WriteString("\r\n")

		// Body part.
		b.WriteString("--" + boundary + "\r\n")
		b.WriteString(fmt.Sprintf("Content-Type: %s; charset=\"UTF-8\"\r\n", contentType))
		b.WriteString("Content-Transfer-Encoding: base64\r\n")
		b.WriteString("\r\n")
		b.WriteString(wrapBase64(base64.StdEncoding.EncodeToString([]byte(env.Body))))
		b.WriteString("\r\n")

		for _, att := range env.Attachments {
			attType := att.MIMEType
			if attType == "" {
				attType = "application/octet-stream"
			}
			b.WriteString("--" + boundary + "\r\n")
			b.WriteString(fmt.Sprintf("Content-Type: %s; name=\"%s\"\r\n", attType, att.Name))
			b.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=\"%s\"\r\n", att.Name))
			b.WriteString("Content-Transfer-Encoding: base64\r\n")
			b.WriteString("\r\n")
			b.WriteString(wrapBase64(base64.StdEncoding.EncodeToString(att.Data)))
			b.WriteString("\r\n")
		}
		b.WriteString("--" + boundary + "--")
	}

	return base64.RawURLEncoding.EncodeToString([]byte(b.String())), nil
}

// cleanAddresses trims whitespace from each address and drops empties.
func cleanAddresses(addrs []string) []string {
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		if trimmed := strings.TrimSpace(a); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// wrapBase64 folds a base64 string at 76 characters per line, the standard
// mail transport line length.
func wrapBase64(s string) string {
	if len(s) <= base64LineLength {
		return s
	}
	var b strings.Builder
	for len(s) > base64LineLength {
		b.WriteString(s[:base64LineLength])
		b.WriteString("\r\n")
		s = s[base64LineLength:]
	}
	b.WriteString(s)
	return b.String()
}

// encodeRFC2047 encodes a header value for non-ASCII characters (like
// German umlauts) according to RFC 2047.
func encodeRFC2047(s string) string {
	needsEncoding := false
	for _, r := range s {
		if r > 127 {
			needsEncoding = true
			break
		}
	}
	if !needsEncoding {
		return s
	}
	return mime.BEncoding.Encode("UTF-8", s)
}
