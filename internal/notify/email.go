package notify

import (
	"crypto/tls"
	"fmt"
	"net/smtp"

	"github.com/Raghucharan16/Market-Alerts/internal/models"
)

// Mailer sends alert emails over SMTP with implicit TLS. This is the legacy
// notification path, superseded by the Discord webhook but kept for users
// without a webhook configured.
type Mailer struct {
	host     string
	port     int
	username string
	password string
}

// NewMailer creates an SMTP mailer. Returns nil when no credentials are
// configured so callers can treat the mailer as absent.
func NewMailer(host string, port int, username, password string) *Mailer {
	if username == "" || password == "" {
		return nil
	}
	return &Mailer{host: host, port: port, username: username, password: password}
}

// Send delivers a plain-text alert email to a single recipient
func (m *Mailer) Send(to string, alert *models.Alert) error {
	subject := fmt.Sprintf("📈 Profit Alert: %s", alert.Symbol)
	direction := "up"
	if alert.AlertType == models.AlertTypeLoss {
		subject = fmt.Sprintf("📉 Loss Alert: %s", alert.Symbol)
		direction = "down"
	}

	body := fmt.Sprintf(
		"%s ALERT: %s is %s to %s! (ATP: %s, Target: %s, Change: %s%%)",
		alert.AlertType, alert.Symbol, direction,
		alert.CurrentPrice.StringFixed(2), alert.BuyPrice.StringFixed(2),
		alert.ThresholdPrice.StringFixed(2), alert.PercentageChange.StringFixed(2),
	)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.username, to, subject, body)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.host})
	if err != nil {
		return fmt.Errorf("failed to dial smtp server: %w", err)
	}

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create smtp client: %w", err)
	}
	defer client.Close()

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth failed: %w", err)
	}
	if err := client.Mail(m.username); err != nil {
		return fmt.Errorf("smtp MAIL failed: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp RCPT failed: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA failed: %w", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish message: %w", err)
	}

	return client.Quit()
}
