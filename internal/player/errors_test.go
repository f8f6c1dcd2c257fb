package player

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	base := errors.New("boom")
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindUnknown},
		{"plain", base, KindUnknown},
		{"play error", newError(KindDecode, base), KindDecode},
		{"wrapped play error", fmt.Errorf("ctx: %w", newError(KindNetwork, base)), KindNetwork},
		{"canceled", context.Canceled, KindAborted},
		{"deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), KindNetwork},
		{"not loaded", ErrNotLoaded, KindNoAudioAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestPlayError_Unwrap(t *testing.T) {
	err := newError(KindNoAudioAvailable, ErrNotLoaded)

	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.Equal(t, "no audio available: no clip loaded", err.Error())
	assert.Equal(t, "decode", (&PlayError{Kind: KindDecode}).Error())
}

func TestErrorKind_Retryable(t *testing.T) {
	assert.True(t, KindNetwork.Retryable())
	assert.True(t, KindAutoplayDenied.Retryable())
	assert.False(t, KindDecode.Retryable())
	assert.False(t, KindUnsupportedSource.Retryable())
	assert.False(t, KindAborted.Retryable())
}

func TestClassifyLoad(t *testing.T) {
	assert.Equal(t, KindAborted, classifyLoad(context.Canceled).Kind)
	assert.Equal(t, KindNetwork, classifyLoad(context.DeadlineExceeded).Kind)
	assert.Equal(t, KindNetwork, classifyLoad(errors.New("connection reset")).Kind)
	assert.Equal(t, KindDecode, classifyLoad(newError(KindDecode, nil)).Kind)
}

func TestValidateSource(t *testing.T) {
	for _, ok := range []string{
		"https://verses.quran.com/Alafasy/mp3/001001.mp3",
		"http://localhost:8080/a.mp3",
	} {
		assert.NoError(t, validateSource(ok), ok)
	}
	for _, bad := range []string{
		"",
		"Alafasy/mp3/001001.mp3",
		"file:///tmp/a.mp3",
		"ftp://example.com/a.mp3",
		"https://",
	} {
		assert.Equal(t, KindUnsupportedSource, KindOf(validateSource(bad)), bad)
	}
}

func TestLevelToVolume(t *testing.T) {
	assert.InDelta(t, 0.0, levelToVolume(1), 1e-9)
	assert.InDelta(t, -1.0, levelToVolume(0.5), 1e-9)
	assert.InDelta(t, -10.0, levelToVolume(0), 1e-9)
	assert.InDelta(t, 1.0, clampLevel(3), 1e-9)
	assert.InDelta(t, 0.0, clampLevel(-1), 1e-9)
}
