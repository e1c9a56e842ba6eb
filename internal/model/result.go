package model

// Verification records how the post-action check concluded. The kernel is
// deliberately optimistic: an indeterminate check counts as success, but the
// three-valued result lets callers and tests distinguish "we actually saw the
// screen change" from "we assumed it worked".
type Verification string

const (
	// VerifyConfirmed means the re-perceived screen showed a change
	// attributable to the action.
	VerifyConfirmed Verification = "confirmed"
	// VerifyAssumed means no signal was available either way and the action
	// is treated as successful because execution itself did not error.
	VerifyAssumed Verification = "assumed"
	// VerifyFailed means the check affirmatively concluded the action had no
	// effect.
	VerifyFailed Verification = "failed"
)

// Passed reports whether the verification outcome counts as success.
func (v Verification) Passed() bool {
	return v == VerifyConfirmed || v == VerifyAssumed
}

// Result is the terminal outcome of one top-level command.
type Result struct {
	ID                 string       `yaml:"id"                            json:"id"`
	Success            bool         `yaml:"success"                       json:"success"`
	Message            string       `yaml:"message"                       json:"message"`
	Attempts           int          `yaml:"attempts"                      json:"attempts"`
	VerificationPassed bool         `yaml:"verification_passed"           json:"verification_passed"`
	Verification       Verification `yaml:"verification,omitempty"        json:"verification,omitempty"`
	NeedsConfirmation  bool         `yaml:"needs_confirmation"            json:"needs_confirmation"`
	ConfirmationPrompt string       `yaml:"confirmation_prompt,omitempty" json:"confirmation_prompt,omitempty"`
	ActionTaken        *Action      `yaml:"action_taken,omitempty"        json:"action_taken,omitempty"`
	Tier               string       `yaml:"tier,omitempty"                json:"tier,omitempty"` // set when the router resolved the command
}
