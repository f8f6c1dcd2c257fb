// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import (
	"fmt"

	"github.com/llehouerou/tilawa/internal/player"
)

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Content operations
	OpPageLoad     Op = "load page"
	OpRecitersLoad Op = "load reciters"

	// Playback operations
	OpPlaybackStart Op = "start recitation"
	OpPlaybackSeek  Op = "seek"
	OpNextPage      Op = "continue to the next page"

	// Settings
	OpSettingsLoad Op = "load settings"
	OpSettingsSave Op = "save settings"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

// ForKind describes a playback failure and what the user can do about
// it. Aborted loads have no message.
func ForKind(kind player.ErrorKind, verseKey string) string {
	subject := "this verse"
	if verseKey != "" {
		subject = "verse " + verseKey
	}

	var problem string
	switch kind {
	case player.KindAborted:
		return ""
	case player.KindNoAudioAvailable:
		return "No recitation is available for this page."
	case player.KindDecode:
		return fmt.Sprintf("The recitation for %s is damaged. Try another reciter.", subject)
	case player.KindNetwork:
		problem = fmt.Sprintf("Could not reach the recitation for %s. Check your connection.", subject)
	case player.KindUnsupportedSource:
		problem = fmt.Sprintf("The recitation for %s is unavailable for this reciter.", subject)
	case player.KindAutoplayDenied:
		problem = "Audio output is unavailable."
	default:
		problem = fmt.Sprintf("Playback of %s failed.", subject)
	}

	if kind.Retryable() {
		return problem + " Press play to retry."
	}
	return problem + " Please report it."
}
