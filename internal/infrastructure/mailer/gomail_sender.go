// Package mailer implementa el envío del reporte diario por SMTP.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"github.com/gadgetops/resale-api/internal/application/dailystock"
	"github.com/gadgetops/resale-api/pkg/config"
)

// Asegura que el sender implementa el puerto del caso de uso.
var _ dailystock.ReportSender = (*GomailSender)(nil)

// GomailSender envía correos HTML con adjunto PDF vía SMTP usando gomail.
type GomailSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewGomailSender construye el sender con la configuración SMTP.
func NewGomailSender(cfg config.SMTPConfig) *GomailSender {
	return &GomailSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send envía el correo. El adjunto es opcional (nil lo omite).
func (s *GomailSender) Send(ctx context.Context, to, subject, htmlBody string, attachment []byte, filename string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	if len(attachment) > 0 {
		msg.Attach(filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := io.Copy(w, bytes.NewReader(attachment))
			return err
		}))
	}

	// gomail no acepta context; respetar cancelación antes de marcar.
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("enviar correo a %s: %w", to, err)
	}
	return nil
}
