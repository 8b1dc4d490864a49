package contact

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"

	"shoestore/models"
)

// Mailer delivers one HTML message.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

type SMTPMailer struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, html string) error {
	from := m.From
	if from == "" {
		from = m.User
	}

	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		from, to, mime.QEncoding.Encode("utf-8", subject), html,
	)

	var auth smtp.Auth
	if m.User != "" {
		auth = smtp.PlainAuth("", m.User, m.Password, m.Host)
	}

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(net.JoinHostPort(m.Host, m.Port), auth, from, []string{to}, []byte(msg))
	}()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogMailer stands in when SMTP is not configured.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, to, subject, _ string) error {
	zap.L().Warn("smtp not configured, contact message not sent",
		zap.String("to", to), zap.String("subject", subject))
	return nil
}

var messageTemplate = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html lang="ar" dir="rtl">
<body style="font-family: Tahoma, Arial, sans-serif; direction: rtl; text-align: right; color: #333;">
  <div style="max-width: 600px; margin: 0 auto;">
    <h2 style="text-align: center;">رسالة جديدة من نموذج الاتصال</h2>
    <div style="background-color: #f9f9f9; padding: 20px; border-radius: 8px;">
      <p><strong>الاسم:</strong> {{.Name}}</p>
      <p><strong>البريد الإلكتروني:</strong> {{.Email}}</p>
      <p><strong>الهاتف:</strong> {{.Phone}}</p>
      <p><strong>الرسالة:</strong></p>
      <p style="white-space: pre-wrap; background-color: #fff; padding: 15px; border-right: 3px solid #4a90e2;">{{.Message}}</p>
    </div>
    <p style="margin-top: 20px; font-size: 12px; color: #999; text-align: center;">{{.SiteName}} · {{.Year}}</p>
  </div>
</body>
</html>
`))

type emailData struct {
	models.ContactMessage
	SiteName string
	Year     int
}

// Render builds the RTL Arabic e-mail body. Every field is HTML-escaped.
func Render(msg models.ContactMessage, siteName string, now time.Time) (string, error) {
	var buf bytes.Buffer
	if err := messageTemplate.Execute(&buf, emailData{ContactMessage: msg, SiteName: siteName, Year: now.Year()}); err != nil {
		return "", fmt.Errorf("template execution error: %w", err)
	}
	return buf.String(), nil
}

func Subject(msg models.ContactMessage) string {
	return "رسالة جديدة من " + strings.TrimSpace(msg.Name)
}
