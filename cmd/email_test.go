package cmd

import (
	"strings"
	"testing"
)

func TestSendEmailDryRun(t *testing.T) {
	setupWrappedDb(t)

	config := SendEmailConfig{
		To:     "listener@example.com",
		From:   "wrapped@example.com",
		Year:   2023,
		DryRun: true,
	}
	// No SMTP or SendGrid credentials are configured, so a nil error means
	// the dry run never reached a delivery path.
	if err := sendEmail(config); err != nil {
		t.Fatalf("sendEmail: %v", err)
	}
}

func TestSendEmailRequiresCredentials(t *testing.T) {
	setupWrappedDb(t)

	config := SendEmailConfig{
		To:   "listener@example.com",
		From: "wrapped@example.com",
		Year: 2023,
	}
	err := sendEmail(config)
	if err == nil {
		t.Fatal("Expected error without SMTP credentials")
	}
	if !strings.Contains(err.Error(), "smtp_username") {
		t.Errorf("Expected credentials error, got %v", err)
	}
}
