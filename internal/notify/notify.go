// Package notify sends email notifications for UAT record activity.
// Delivery is best-effort: the portal never fails a save because the
// mail server was unreachable.
package notify

import (
	"fmt"
	"log"
	"net/smtp"

	"teportal/internal/models"
	"teportal/internal/store"
)

// SMTPSendFunc is the function used to send emails. Override in tests.
var SMTPSendFunc = smtp.SendMail

// EmailConfig is the email_config collection, a single JSON object.
type EmailConfig struct {
	Enabled        bool   `json:"enabled"`
	SMTPServer     string `json:"smtp_server"`
	SMTPPort       int    `json:"smtp_port"`
	SenderEmail    string `json:"sender_email"`
	SenderPassword string `json:"sender_password"`
	UseTLS         bool   `json:"use_tls"`
	NotifyOnCreate bool   `json:"notify_on_create"`
	NotifyOnUpdate bool   `json:"notify_on_update"`
	AdminEmail     string `json:"admin_email"`
}

// DefaultEmailConfig is what a fresh portal starts with.
func DefaultEmailConfig() EmailConfig {
	return EmailConfig{
		SMTPServer:     "smtp.gmail.com",
		SMTPPort:       587,
		UseTLS:         true,
		NotifyOnCreate: true,
		NotifyOnUpdate: true,
	}
}

const configCollection = "email_config"

// Mailer sends portal notification emails using the stored config.
type Mailer struct {
	Store *store.Store
}

func NewMailer(s *store.Store) *Mailer {
	return &Mailer{Store: s}
}

// Config returns the stored email configuration, falling back to the
// defaults when none has been saved yet.
func (m *Mailer) Config() (EmailConfig, error) {
	cfg := DefaultEmailConfig()
	if err := m.Store.Load(configCollection, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// SaveConfig stores a new email configuration.
func (m *Mailer) SaveConfig(cfg EmailConfig) error {
	unlock := m.Store.Lock(configCollection)
	defer unlock()
	return m.Store.Save(configCollection, cfg)
}

// Send delivers one plain-text email through the configured server.
func (m *Mailer) Send(to, subject, body string) error {
	cfg, err := m.Config()
	if err != nil {
		return err
	}
	if !cfg.Enabled || cfg.SMTPServer == "" {
		return fmt.Errorf("email not configured or disabled")
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		cfg.SenderEmail, to, subject, body)

	addr := fmt.Sprintf("%s:%d", cfg.SMTPServer, cfg.SMTPPort)
	var auth smtp.Auth
	if cfg.SenderEmail != "" {
		auth = smtp.PlainAuth("", cfg.SenderEmail, cfg.SenderPassword, cfg.SMTPServer)
	}
	return SMTPSendFunc(addr, auth, cfg.SenderEmail, []string{to}, []byte(msg))
}

// NotifyUAT emails the admin address about a created or updated UAT
// record, honoring the notify_on_create / notify_on_update switches.
// Failures are logged and swallowed.
func (m *Mailer) NotifyUAT(action string, rec *models.UATRecord) {
	cfg, err := m.Config()
	if err != nil || !cfg.Enabled || cfg.AdminEmail == "" {
		return
	}
	switch action {
	case "CREATE":
		if !cfg.NotifyOnCreate {
			return
		}
	case "UPDATE":
		if !cfg.NotifyOnUpdate {
			return
		}
	default:
		return
	}

	subject := fmt.Sprintf("UAT %s: %s %s", action, rec.TrialID, rec.UATRound)
	body := rec.EmailBody
	if body == "" {
		body = fmt.Sprintf("Trial: %s\nRound: %s\nStatus: %s\nResult: %s\nPlanned: %s to %s",
			rec.TrialID, rec.UATRound, rec.Status, rec.Result, rec.PlannedStartDate, rec.PlannedEndDate)
	}
	if err := m.Send(cfg.AdminEmail, subject, body); err != nil {
		log.Printf("notify: uat %s email: %v", action, err)
	}
}
