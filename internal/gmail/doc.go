// Package gmail wraps the Gmail API for sending email, managing drafts and
// listing messages.
//
// The package also contains the MIME envelope builder: a pure function that
// assembles an RFC 2822 message (single-part or multipart/mixed with
// attachments) and encodes it into the URL-safe base64 form the Gmail API
// expects in the Raw field.
package gmail
