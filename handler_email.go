package main

import (
	"net/http"

	"teportal/internal/audit"
	"teportal/internal/notify"
)

const passwordMask = "****"

func handleGetEmailConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := mailer.Config()
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	if cfg.SenderPassword != "" {
		cfg.SenderPassword = passwordMask
	}
	jsonResp(w, cfg)
}

func handleUpdateEmailConfig(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	var cfg notify.EmailConfig
	if err := decodeBody(r, &cfg); err != nil {
		jsonErr(w, "Invalid request body", 400)
		return
	}

	// Keep the stored password when the client echoes the mask back.
	if cfg.SenderPassword == passwordMask {
		existing, err := mailer.Config()
		if err != nil {
			writeRepoErr(w, err)
			return
		}
		cfg.SenderPassword = existing.SenderPassword
	}
	if cfg.SMTPPort <= 0 {
		cfg.SMTPPort = 587
	}

	if err := mailer.SaveConfig(cfg); err != nil {
		writeRepoErr(w, err)
		return
	}
	auditor.Record(sess.Username, audit.ActionUpdate, "email_config", "Updated email configuration", nil)

	if cfg.SenderPassword != "" {
		cfg.SenderPassword = passwordMask
	}
	jsonResp(w, cfg)
}

func handleTestEmail(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	var body struct {
		To string `json:"to"`
	}
	if err := decodeBody(r, &body); err != nil {
		jsonErr(w, "Invalid request body", 400)
		return
	}
	if body.To == "" {
		jsonErr(w, "to address required", 400)
		return
	}

	if err := mailer.Send(body.To, "Test Engineer Portal Test Email",
		"This is a test email. If you received this, email notifications are configured correctly."); err != nil {
		jsonErr(w, "send failed: "+err.Error(), 500)
		return
	}
	auditor.Record(sess.Username, audit.ActionUpdate, "email_config", "Sent test email to "+body.To, nil)
	jsonResp(w, map[string]string{"status": "sent", "to": body.To})
}
