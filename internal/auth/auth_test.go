package auth

import (
	"testing"
	"time"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pw")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "s3cret-pw" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPassword(hash, "s3cret-pw") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestRoleLevels(t *testing.T) {
	if RoleLevel(RoleSuperuser) <= RoleLevel(RoleManager) {
		t.Error("superuser must outrank manager")
	}
	if RoleLevel(RoleManager) <= RoleLevel(RoleAdmin) {
		t.Error("manager must outrank admin")
	}
	if RoleLevel("made-up") != 0 {
		t.Error("unknown role must have level 0")
	}

	for _, role := range []string{RoleSuperuser, RoleManager, RoleAdmin} {
		if !IsElevated(role) {
			t.Errorf("%s should be elevated", role)
		}
	}
	if IsElevated(RoleUser) {
		t.Error("user role must not be elevated")
	}
}

func TestCanGrant(t *testing.T) {
	if !CanGrant(RoleSuperuser, RoleManager) {
		t.Error("superuser should grant manager")
	}
	if !CanGrant(RoleAdmin, RoleAdmin) {
		t.Error("granting one's own level is allowed")
	}
	if CanGrant(RoleAdmin, RoleSuperuser) {
		t.Error("nobody grants above their own level")
	}
	if CanGrant("made-up", RoleUser) || CanGrant(RoleAdmin, "made-up") {
		t.Error("unknown roles must never be grantable")
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := NewSessions(time.Hour)

	sess := s.Start("jane", RoleUser, true)
	if sess.Token == "" {
		t.Fatal("expected a session token")
	}

	got, ok := s.Get(sess.Token)
	if !ok {
		t.Fatal("session not found after Start")
	}
	if got.Username != "jane" || got.Role != RoleUser || !got.Reviewer {
		t.Errorf("session fields lost: %+v", got)
	}

	s.End(sess.Token)
	if _, ok := s.Get(sess.Token); ok {
		t.Error("session survived End")
	}
}

func TestSessionExpiry(t *testing.T) {
	s := NewSessions(time.Hour)
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return now })

	sess := s.Start("jane", RoleUser, false)

	now = now.Add(30 * time.Minute)
	if _, ok := s.Get(sess.Token); !ok {
		t.Fatal("session expired too early")
	}

	// The lookup above slid the expiry forward another hour.
	now = now.Add(59 * time.Minute)
	if _, ok := s.Get(sess.Token); !ok {
		t.Fatal("sliding expiry not applied")
	}

	now = now.Add(2 * time.Hour)
	if _, ok := s.Get(sess.Token); ok {
		t.Error("expired session still readable")
	}
}

func TestEndAllFor(t *testing.T) {
	s := NewSessions(time.Hour)
	a := s.Start("jane", RoleUser, false)
	b := s.Start("jane", RoleUser, false)
	c := s.Start("bob", RoleUser, false)

	s.EndAllFor("jane")
	if _, ok := s.Get(a.Token); ok {
		t.Error("jane's first session survived")
	}
	if _, ok := s.Get(b.Token); ok {
		t.Error("jane's second session survived")
	}
	if _, ok := s.Get(c.Token); !ok {
		t.Error("bob's session was dropped")
	}
}
