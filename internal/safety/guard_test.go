package safety

import (
	"strings"
	"testing"
	"time"
)

func TestRequiresConfirmation(t *testing.T) {
	g := NewGuard(0, nil)

	tests := []struct {
		command string
		want    bool
	}{
		// Destructive verbs.
		{"delete this email", true},
		{"remove the file", true},
		{"empty the trash", true},
		{"send the message", true},
		{"post this update", true},
		{"pay the invoice", true},
		{"buy it now", true},
		{"quit the application", true},
		{"shutdown the computer", true},
		{"close all windows", true},
		{"format the drive", true},
		{"permanently erase everything", true},

		// Plain safe commands.
		{"scroll down", false},
		{"open the settings", false},
		{"type hello world", false},
		{"show me the inbox", false},

		// Safe verbs win over sensitive keywords in the same command.
		{"click the submit button", false},
		{"tap the delete icon", false},
		{"search for payment options", false},
		{"open the trash", false},

		// Word boundaries: substrings of other words don't trigger.
		{"go to the sendoff page", false},
		{"highlight the deleterious passage", false},
	}

	for _, tt := range tests {
		if got := g.RequiresConfirmation(tt.command); got != tt.want {
			t.Errorf("RequiresConfirmation(%q) = %v, want %v", tt.command, got, tt.want)
		}
	}
}

func TestConfirmationPrompt(t *testing.T) {
	g := NewGuard(0, nil)

	tests := []struct {
		command string
		want    string
	}{
		{"delete this email", "delete this"},
		{"send the message", "send this"},
		{"quit the application", "quit this application"},
		{"pay the invoice", "complete this payment"},
		{"submit the form", "submit this"},
		{"format the drive", "perform this action"},
	}

	for _, tt := range tests {
		prompt := g.ConfirmationPrompt(tt.command)
		if !strings.Contains(prompt, tt.want) {
			t.Errorf("ConfirmationPrompt(%q) = %q, want it to mention %q", tt.command, prompt, tt.want)
		}
		if !strings.Contains(prompt, "Confirm") || !strings.Contains(prompt, "Cancel") {
			t.Errorf("prompt should offer both choices: %q", prompt)
		}
	}
}

func TestParseResponse(t *testing.T) {
	g := NewGuard(0, nil)

	tests := []struct {
		text string
		want Response
	}{
		{"confirm", ResponseConfirmed},
		{"Yes", ResponseConfirmed},
		{"yes please", ResponseConfirmed},
		{"go ahead", ResponseConfirmed},
		{"okay do it", ResponseConfirmed},
		{"cancel", ResponseCancelled},
		{"No", ResponseCancelled},
		{"stop!", ResponseCancelled},
		{"never mind", ResponseCancelled},
		{"what?", ResponseUnclear},
		{"", ResponseUnclear},
		{"maybe later", ResponseUnclear},
	}

	for _, tt := range tests {
		if got := g.ParseResponse(tt.text); got != tt.want {
			t.Errorf("ParseResponse(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestGuard_PendingLifecycle(t *testing.T) {
	g := NewGuard(0, nil)

	if g.HasPending() {
		t.Fatal("new guard should have no pending command")
	}

	g.SetPending("delete this email")
	cmd, ok := g.PendingCommand()
	if !ok || cmd != "delete this email" {
		t.Fatalf("expected pending command, got %q, %v", cmd, ok)
	}

	g.ClearPending()
	if g.HasPending() {
		t.Error("expected no pending after clear")
	}
}

func TestGuard_PendingOverwrite(t *testing.T) {
	g := NewGuard(0, nil)
	g.SetPending("delete this email")
	g.SetPending("quit the application")

	cmd, _ := g.PendingCommand()
	if cmd != "quit the application" {
		t.Errorf("expected latest pending command, got %q", cmd)
	}
}

func TestGuard_PendingTTL(t *testing.T) {
	now := time.Now()
	g := NewGuard(time.Minute, nil)
	g.now = func() time.Time { return now }

	g.SetPending("delete this email")

	now = now.Add(59 * time.Second)
	if !g.HasPending() {
		t.Error("pending should survive within TTL")
	}

	now = now.Add(2 * time.Second)
	if g.HasPending() {
		t.Error("pending should expire after TTL")
	}
}
