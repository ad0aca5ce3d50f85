package notify

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strconv"
	"time"

	"github.com/google/uuid"

	"memento/internal/platform/config"
)

// SMTPSender delivers mail through an authenticated SMTP relay.
type SMTPSender struct {
	addr string
	auth smtp.Auth
	from string
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPSender{
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		auth: auth,
		from: cfg.From,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("smtp: empty recipient")
	}
	raw, err := buildMIME(s.from, msg)
	if err != nil {
		return err
	}

	envelopeFrom := s.from
	if addr, err := mail.ParseAddress(s.from); err == nil {
		envelopeFrom = addr.Address
	}

	// net/smtp has no context support; run it aside and honour cancellation.
	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(s.addr, s.auth, envelopeFrom, []string{msg.To}, raw)
	}()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func buildMIME(from string, msg Message) ([]byte, error) {
	var buf bytes.Buffer
	header := textproto.MIMEHeader{}
	header.Set("From", from)
	header.Set("To", msg.To)
	header.Set("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	header.Set("Date", time.Now().UTC().Format(time.RFC1123Z))
	header.Set("Message-ID", "<"+uuid.NewString()+"@memento>")
	header.Set("MIME-Version", "1.0")

	if len(msg.Attachments) == 0 {
		header.Set("Content-Type", "text/plain; charset=utf-8")
		writeHeader(&buf, header)
		buf.WriteString(msg.Body)
		return buf.Bytes(), nil
	}

	mw := multipart.NewWriter(&buf)
	header.Set("Content-Type", "multipart/mixed; boundary="+mw.Boundary())
	var head bytes.Buffer
	writeHeader(&head, header)

	part, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/plain; charset=utf-8"}})
	if err != nil {
		return nil, err
	}
	if _, err := part.Write([]byte(msg.Body)); err != nil {
		return nil, err
	}
	for _, a := range msg.Attachments {
		part, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {a.ContentType},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {mime.FormatMediaType("attachment", map[string]string{"filename": a.Filename})},
		})
		if err != nil {
			return nil, err
		}
		enc := base64.NewEncoder(base64.StdEncoding, part)
		if _, err := enc.Write(a.Data); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	return append(head.Bytes(), buf.Bytes()...), nil
}

func writeHeader(buf *bytes.Buffer, h textproto.MIMEHeader) {
	for k, vs := range h {
		for _, v := range vs {
			fmt.Fprintf(buf, "%s: %s\r\n", k, v)
		}
	}
	buf.WriteString("\r\n")
}
