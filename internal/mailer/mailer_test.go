package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Zachkp/cutroom/internal/store"
)

func testInquiry() store.Inquiry {
	return store.Inquiry{
		ID:          "5f0c",
		Name:        "Aiko\r\nBcc: attacker@example.com",
		Email:       "aiko@example.jp",
		ProjectType: "wedding",
		Message:     "Two camera ceremony edit.\nAbout 20 minutes.",
		CreatedAt:   time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC),
	}
}

func TestNotifyNotConfigured(t *testing.T) {
	m := NewSMTP(Config{Host: "smtp.example.com", Port: "587"}, zap.NewNop())
	err := m.Notify(context.Background(), testInquiry())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNotifySends(t *testing.T) {
	cfg := Config{Host: "smtp.example.com", Port: "587", User: "site@example.com", Pass: "secret", To: "owner@example.com"}

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	m := NewSMTP(cfg, zap.NewNop()).WithSender(func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	})

	require.NoError(t, m.Notify(context.Background(), testInquiry()))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "site@example.com", gotFrom)
	assert.Equal(t, []string{"owner@example.com"}, gotTo)

	msg := string(gotMsg)
	assert.Contains(t, msg, "Reply-To: aiko@example.jp\r\n")
	assert.Contains(t, msg, "Subject: Portfolio inquiry: Aiko  Bcc: attacker@example.com (Wedding / 結婚式)\r\n")
	assert.NotContains(t, msg, "\r\nBcc:")
	assert.Contains(t, msg, "Two camera ceremony edit.\r\nAbout 20 minutes.")
	assert.Contains(t, msg, "Received: 2026-10-18 09:00 UTC")

	header, _, ok := strings.Cut(msg, "\r\n\r\n")
	require.True(t, ok)
	assert.Len(t, strings.Split(header, "\r\n"), 6)
}

func TestNotifySendError(t *testing.T) {
	cfg := Config{Host: "h", Port: "25", User: "u", Pass: "p", To: "t@example.com"}
	m := NewSMTP(cfg, zap.NewNop()).WithSender(func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	})
	err := m.Notify(context.Background(), testInquiry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
