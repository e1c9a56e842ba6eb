// Package safety classifies commands as safe or destructive and manages the
// confirmation flow that gates destructive ones.
package safety

import (
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultPendingTTL bounds how long a confirmation can stay pending. A reply
// arriving after the TTL finds no pending command, the same way an expired
// cache entry reads as absent.
const DefaultPendingTTL = 2 * time.Minute

// sensitivePatterns flag commands whose effects are hard to undo. Matching
// is whole-word, case-insensitive, anywhere in the command.
var sensitivePatterns = []*regexp.Regexp{
	// Deletion
	regexp.MustCompile(`(?i)\b(delete|remove|trash|erase|clear|empty)\b`),
	// Sending / publishing
	regexp.MustCompile(`(?i)\b(send|submit|post|publish|share)\b`),
	// Financial
	regexp.MustCompile(`(?i)\b(pay|purchase|buy|transfer|checkout|order)\b`),
	// System
	regexp.MustCompile(`(?i)\b(quit|shutdown|restart|reboot|logout|signout|close\s+all)\b`),
	// Permanent changes
	regexp.MustCompile(`(?i)\b(format|wipe|reset|uninstall|permanently)\b`),
}

// safePatterns short-circuit the sensitive check: a command that reads as an
// observation or navigation verb is never gated, even when it also contains
// a sensitive keyword ("click the submit button").
var safePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(open|view|show|read|look|find|search|scroll|navigate)\b`),
	regexp.MustCompile(`(?i)\b(copy|select|highlight)\b`),
	regexp.MustCompile(`(?i)\b(click|tap)\b`),
}

var confirmWords = []string{"confirm", "yes", "proceed", "go ahead", "do it", "okay"}
var cancelWords = []string{"cancel", "no", "stop", "abort", "never mind", "don't"}

// Response is the tri-state outcome of parsing a confirmation reply.
type Response int

const (
	ResponseUnclear Response = iota
	ResponseConfirmed
	ResponseCancelled
)

// Guard detects destructive commands and holds at most one command awaiting
// the user's explicit confirmation. The pending slot is a single shared
// cell: a second sensitive command overwrites an unresolved first one.
type Guard struct {
	mu         sync.Mutex
	pending    string
	pendingAt  time.Time
	pendingTTL time.Duration
	log        *zap.Logger
	now        func() time.Time
}

// NewGuard creates a guard. A non-positive pendingTTL uses DefaultPendingTTL.
func NewGuard(pendingTTL time.Duration, log *zap.Logger) *Guard {
	if pendingTTL <= 0 {
		pendingTTL = DefaultPendingTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Guard{pendingTTL: pendingTTL, log: log, now: time.Now}
}

// RequiresConfirmation reports whether the command must be confirmed before
// execution. Safe patterns take precedence over sensitive ones.
func (g *Guard) RequiresConfirmation(command string) bool {
	for _, p := range safePatterns {
		if p.MatchString(command) {
			return false
		}
	}
	for _, p := range sensitivePatterns {
		if p.MatchString(command) {
			g.log.Info("command requires confirmation", zap.String("command", command))
			return true
		}
	}
	return false
}

// promptActions maps a detected destructive verb to the phrase spoken in the
// confirmation prompt. Checked in order.
var promptActions = []struct {
	re     *regexp.Regexp
	action string
}{
	{regexp.MustCompile(`(?i)\bdelete\b`), "delete this"},
	{regexp.MustCompile(`(?i)\bsend\b`), "send this"},
	{regexp.MustCompile(`(?i)\bquit\b`), "quit this application"},
	{regexp.MustCompile(`(?i)\b(pay|purchase)\b`), "complete this payment"},
	{regexp.MustCompile(`(?i)\bsubmit\b`), "submit this"},
}

// ConfirmationPrompt builds the spoken prompt for a sensitive command,
// naming the detected destructive verb when one is recognized.
func (g *Guard) ConfirmationPrompt(command string) string {
	action := "perform this action"
	for _, pa := range promptActions {
		if pa.re.MatchString(command) {
			action = pa.action
			break
		}
	}
	return "I'm about to " + action + ". Say 'Confirm' to proceed or 'Cancel' to stop."
}

// ParseResponse interprets the user's reply to a confirmation prompt.
// Confirm words are checked before cancel words; anything matching neither
// set is unclear.
func (g *Guard) ParseResponse(text string) Response {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, w := range confirmWords {
		if strings.Contains(lower, w) {
			return ResponseConfirmed
		}
	}
	for _, w := range cancelWords {
		if strings.Contains(lower, w) {
			return ResponseCancelled
		}
	}
	return ResponseUnclear
}

// SetPending records a command awaiting confirmation, replacing any
// unresolved one.
func (g *Guard) SetPending(command string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending != "" && g.pending != command {
		g.log.Warn("overwriting unresolved pending confirmation",
			zap.String("previous", g.pending), zap.String("command", command))
	}
	g.pending = command
	g.pendingAt = g.now()
}

// HasPending reports whether a command is awaiting confirmation.
func (g *Guard) HasPending() bool {
	_, ok := g.PendingCommand()
	return ok
}

// PendingCommand returns the command awaiting confirmation. A pending
// command older than the TTL reads as absent and is cleared.
func (g *Guard) PendingCommand() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending == "" {
		return "", false
	}
	if g.now().Sub(g.pendingAt) >= g.pendingTTL {
		g.log.Info("pending confirmation expired", zap.String("command", g.pending))
		g.pending = ""
		return "", false
	}
	return g.pending, true
}

// ClearPending discards any pending confirmation.
func (g *Guard) ClearPending() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = ""
}
