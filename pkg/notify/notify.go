// Package notify delivers admin notification emails. Sends are always
// fire-and-forget from the caller's point of view; a delivery failure never
// affects the mutation that triggered it.
package notify

import (
	"fmt"
	"log"
	"net/smtp"
	"time"
)

// Config holds SMTP settings. With Enabled false the mailer only logs, which
// is the development default.
type Config struct {
	Enabled   bool
	SMTPHost  string
	SMTPPort  int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// Mailer sends plain-text notification emails over SMTP.
type Mailer struct {
	cfg Config
}

func NewMailer(cfg Config) *Mailer {
	return &Mailer{cfg: cfg}
}

// Send delivers one message. When the mailer is disabled it logs the
// subject instead.
func (m *Mailer) Send(to, subject, body string) error {
	if !m.cfg.Enabled {
		log.Printf("[NOTIFY] would send to %s: %s", to, subject)
		return nil
	}
	if m.cfg.SMTPHost == "" || m.cfg.Username == "" || m.cfg.Password == "" {
		return fmt.Errorf("mailer not configured")
	}
	from := m.cfg.FromEmail
	if m.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.FromEmail)
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", from, to, subject, body)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	if err := smtp.SendMail(addr, auth, m.cfg.FromEmail, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// GuestAddedMessage builds the "new guestbook entry" notification.
func GuestAddedMessage(name, email, role, publicAction string, at time.Time) (subject, body string) {
	subject = fmt.Sprintf("New guestbook entry from %s", name)
	body = fmt.Sprintf(`Someone signed your guestbook.

Name: %s
Email: %s
Role: %s
Reason: %s
Signed: %s`, name, email, role, publicAction, at.Format("January 2, 2006 at 3:04 PM"))
	return subject, body
}

// ResumeDownloadedMessage builds the "resume downloaded" notification.
func ResumeDownloadedMessage(fileName string, downloadCount int, at time.Time) (subject, body string) {
	subject = "Your resume was downloaded"
	body = fmt.Sprintf(`Your resume was just downloaded.

File: %s
Total downloads: %d
Downloaded: %s`, fileName, downloadCount, at.Format("January 2, 2006 at 3:04 PM"))
	return subject, body
}
