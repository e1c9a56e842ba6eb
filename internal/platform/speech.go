package platform

import (
	"os/exec"

	"go.uber.org/zap"
)

// SaySpeaker voices text through the macOS `say` command. The subprocess is
// started and left to run so a slow TTS engine never blocks the caller.
type SaySpeaker struct {
	log *zap.Logger
}

// NewSaySpeaker creates a Speaker backed by `say`.
func NewSaySpeaker(log *zap.Logger) *SaySpeaker {
	if log == nil {
		log = zap.NewNop()
	}
	return &SaySpeaker{log: log}
}

func (s *SaySpeaker) Speak(text string) {
	if text == "" {
		return
	}
	if err := exec.Command("say", text).Start(); err != nil {
		s.log.Warn("tts failed", zap.Error(err))
	}
}

// NopSpeaker discards all speech. Used in tests and on hosts without TTS.
type NopSpeaker struct{}

func (NopSpeaker) Speak(string) {}
