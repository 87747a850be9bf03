package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

// Mailer delivers transactional mail over plain SMTP. Works against a
// local MailHog (no auth, no TLS) and regular servers (PlainAuth +
// STARTTLS).
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	fromName string
	useTLS   bool
}

type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	TLS       bool
}

func NewMailer(config *Config) *Mailer {
	return &Mailer{
		host:     config.Host,
		port:     config.Port,
		username: config.Username,
		password: config.Password,
		from:     config.FromEmail,
		fromName: config.FromName,
		useTLS:   config.TLS,
	}
}

// Send delivers a single HTML message. The context deadline bounds the
// dial; SMTP conversation errors are returned to the caller so flows
// like the password reset can compensate.
func (m *Mailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	headers := []string{
		fmt.Sprintf("From: %s <%s>", m.fromName, m.from),
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
	}

	var sb strings.Builder
	for _, h := range headers {
		sb.WriteString(h + "\r\n")
	}
	sb.WriteString("\r\n")
	sb.WriteString(htmlBody)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	dialer := &net.Dialer{Timeout: 5 * time.Second}
	if deadline, ok := ctx.Deadline(); ok {
		dialer.Deadline = deadline
	}

	addr := net.JoinHostPort(m.host, strconv.Itoa(m.port))
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if err := c.Hello("localhost"); err != nil {
		return err
	}

	if m.useTLS {
		if ok, _ := c.Extension("STARTTLS"); ok {
			cfg := &tls.Config{ServerName: m.host}
			if err := c.StartTLS(cfg); err != nil {
				return err
			}
			if err := c.Hello("localhost"); err != nil {
				return err
			}
		}
	}

	if auth != nil {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(auth); err != nil {
				return err
			}
		}
	}

	if err := c.Mail(m.from); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(sb.String())); err != nil {
		return err
	}
	return w.Close()
}

// SendPasswordReset mails the raw reset token link. The token in the
// link is the only unhashed copy in existence.
func (m *Mailer) SendPasswordReset(ctx context.Context, to, name, resetURL string, validFor time.Duration) error {
	body := fmt.Sprintf(
		`<h2>Password reset</h2>
<p>Hi %s,</p>
<p>Forgot your password? Submit a PATCH request with your new password to:</p>
<p><a href="%s">%s</a></p>
<p>The link is valid for %d minutes. If you didn't request a reset, ignore this email.</p>`,
		name, resetURL, resetURL, int(validFor.Minutes()),
	)
	return m.Send(ctx, to, "Your password reset token", body)
}

// SendWelcome greets a freshly signed-up user.
func (m *Mailer) SendWelcome(ctx context.Context, to, name string) error {
	body := fmt.Sprintf(`<h2>Welcome to GoTours</h2><p>Hi %s, glad to have you on board.</p>`, name)
	return m.Send(ctx, to, "Welcome to GoTours", body)
}
