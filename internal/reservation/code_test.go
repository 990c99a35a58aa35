package reservation

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type takenCodes map[string]bool

func (t takenCodes) CodeExists(_ context.Context, code string) (bool, error) {
	return t[code], nil
}

type failingChecker struct{ err error }

func (f failingChecker) CodeExists(context.Context, string) (bool, error) {
	return false, f.err
}

func TestCodeGenerator_Format(t *testing.T) {
	gen := NewCodeGenerator(takenCodes{}, 4, 10)

	for i := 0; i < 200; i++ {
		code, err := gen.Generate(context.Background())
		require.NoError(t, err)
		require.Len(t, code, 4)
		for _, c := range code {
			assert.Contains(t, CodeAlphabet, string(c))
		}
	}
}

func TestCodeGenerator_RetriesOnCollision(t *testing.T) {
	// 0,1,26,27 -> "AB01"; 0,1,28,29 -> "AB23".
	gen := NewCodeGenerator(takenCodes{"AB01": true}, 4, 10)
	gen.random = bytes.NewReader([]byte{0, 1, 26, 27, 0, 1, 28, 29})

	code, err := gen.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AB23", code)
}

func TestCodeGenerator_SkipsBiasedBytes(t *testing.T) {
	gen := NewCodeGenerator(takenCodes{}, 4, 1)
	gen.random = bytes.NewReader([]byte{255, 0, 252, 1, 36, 37})

	code, err := gen.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ABAB", code)
}

func TestCodeGenerator_Exhausted(t *testing.T) {
	gen := NewCodeGenerator(takenCodes{"AAAA": true}, 4, 3)
	gen.random = bytes.NewReader(make([]byte, 12))

	_, err := gen.Generate(context.Background())
	assert.ErrorIs(t, err, ErrCodeExhausted)
}

func TestCodeGenerator_CheckerError(t *testing.T) {
	boom := errors.New("db down")
	gen := NewCodeGenerator(failingChecker{err: boom}, 4, 3)

	_, err := gen.Generate(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestCodeGenerator_RandomSourceError(t *testing.T) {
	gen := NewCodeGenerator(takenCodes{}, 4, 3)
	gen.random = bytes.NewReader([]byte{1, 2})

	_, err := gen.Generate(context.Background())
	assert.Error(t, err)
}

func TestCodeGenerator_NonPositiveSettings(t *testing.T) {
	tests := []struct {
		name        string
		length      int
		maxAttempts int
	}{
		{"Zero Length", 0, 10},
		{"Negative Length", -4, 10},
		{"Zero Attempts", 4, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewCodeGenerator(takenCodes{}, tt.length, tt.maxAttempts)
			code, err := gen.Generate(context.Background())
			require.Error(t, err)
			assert.NotErrorIs(t, err, ErrCodeExhausted)
			assert.Empty(t, code)
		})
	}
}
