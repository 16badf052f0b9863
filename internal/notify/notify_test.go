package notify

import (
	"net/smtp"
	"strings"
	"testing"

	"teportal/internal/models"
	"teportal/internal/store"
)

func testMailer(t *testing.T, cfg EmailConfig) *Mailer {
	t.Helper()
	m := NewMailer(store.NewMemory())
	if err := m.SaveConfig(cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}
	return m
}

func captureSend(t *testing.T) *[][]byte {
	t.Helper()
	var sent [][]byte
	orig := SMTPSendFunc
	SMTPSendFunc = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		sent = append(sent, msg)
		return nil
	}
	t.Cleanup(func() { SMTPSendFunc = orig })
	return &sent
}

func TestSendDisabled(t *testing.T) {
	m := testMailer(t, EmailConfig{Enabled: false, SMTPServer: "localhost"})
	sent := captureSend(t)

	if err := m.Send("a@example.com", "subject", "body"); err == nil {
		t.Error("expected error when email is disabled")
	}
	if len(*sent) != 0 {
		t.Errorf("nothing should be sent, got %d messages", len(*sent))
	}
}

func TestSendComposesMessage(t *testing.T) {
	m := testMailer(t, EmailConfig{
		Enabled: true, SMTPServer: "localhost", SMTPPort: 2525,
		SenderEmail: "portal@example.com",
	})
	sent := captureSend(t)

	if err := m.Send("a@example.com", "Hello", "body text"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(*sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(*sent))
	}
	msg := string((*sent)[0])
	for _, want := range []string{"To: a@example.com", "Subject: Hello", "body text"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestNotifyUATHonorsSwitches(t *testing.T) {
	rec := &models.UATRecord{TrialID: "NN1234", UATRound: "Round 1"}

	m := testMailer(t, EmailConfig{
		Enabled: true, SMTPServer: "localhost", SMTPPort: 2525,
		AdminEmail: "admin@example.com", NotifyOnCreate: true, NotifyOnUpdate: false,
	})
	sent := captureSend(t)

	m.NotifyUAT("CREATE", rec)
	if len(*sent) != 1 {
		t.Fatalf("create should notify, got %d messages", len(*sent))
	}
	m.NotifyUAT("UPDATE", rec)
	if len(*sent) != 1 {
		t.Errorf("update notifications are off, got %d messages", len(*sent))
	}
	m.NotifyUAT("DELETE", rec)
	if len(*sent) != 1 {
		t.Errorf("deletes never notify, got %d messages", len(*sent))
	}
}

func TestConfigDefaults(t *testing.T) {
	m := NewMailer(store.NewMemory())
	cfg, err := m.Config()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if cfg.SMTPServer != "smtp.gmail.com" || cfg.SMTPPort != 587 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Enabled {
		t.Error("email should start disabled")
	}
	if !cfg.NotifyOnCreate || !cfg.NotifyOnUpdate {
		t.Error("notify switches should default on")
	}
}
