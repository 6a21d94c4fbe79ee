package config

import "fmt"

// Practice defaults shared by the CLI flags and the config template.
const (
	DefaultLimit      = 20
	DefaultWeakTop    = 8
	DefaultWeakFactor = 2.0
	DefaultWeakWindow = 20
	DefaultResetMode  = "sentence"
	DefaultInputMode  = "progressive"
	DefaultLogLevel   = "info"
)

// DefaultTemplate returns the commented config written by `cardtype config`.
func DefaultTemplate() string {
	return fmt.Sprintf(`# cardtype configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# deck = "french.txt"        # Deck path, or a name inside %s
# limit = %d                 # Cards per run (0 = whole deck)
# focus-weak = false         # Bias card order toward weak characters and low scores
# weak-top = %d              # Number of weak characters to focus on
# weak-factor = %.1f         # Weight factor for weak characters
# weak-window = %d           # Number of recent sessions to compute weak chars
# due-only = false           # Only practice cards whose review is due

[behavior]
# reset-mode = %q     # sentence | word
# input-mode = %q  # progressive | accompanying
# show-timer = true
# auto-finish = true         # Move to the next card as soon as the target is typed

[tolerance]
# case-sensitive = true
# handle-punctuation = true
# auto-punctuation = true
# ignore-punctuation-errors = false
# handle-whitespace = true
# ignore-extra-spaces = true
# auto-correct-spaces = true

[fields]
# prompt = "Front"
# target = "Back"
# audio = "Audio"
#
# [[fields.deck]]
# name = "Spanish"
# prompt = "Word"
# target = "Sentence"

[logging]
# level = %q
# file = "%s"
`,
		DefaultDeckDir(),
		DefaultLimit,
		DefaultWeakTop,
		DefaultWeakFactor,
		DefaultWeakWindow,
		DefaultResetMode,
		DefaultInputMode,
		DefaultLogLevel,
		DefaultLogPath(),
	)
}
