package telemetry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizerLevels(t *testing.T) {
	input := "meu email é ana@example.com e o cartão 4111 1111 1111 1111"

	assert.Equal(t, input, NewSanitizer(PIILevelFull, "salt").Text(input))
	assert.Equal(t, "[REDACTED]", NewSanitizer(PIILevelNone, "salt").Text(input))

	hashed := NewSanitizer(PIILevelHashed, "salt").Text(input)
	assert.NotContains(t, hashed, "ana@example.com")
	assert.NotContains(t, hashed, "4111")
	assert.Contains(t, hashed, "[EMAIL:")
	assert.Contains(t, hashed, "[CARD:REDACTED]")
}

func TestSanitizerKeepsArithmetic(t *testing.T) {
	s := NewSanitizer(PIILevelHashed, "salt")
	assert.Equal(t, "quanto é 2+2?", s.Text("quanto é 2+2?"))
	assert.Equal(t, "", s.Text(""))
}

func TestSanitizerDocuments(t *testing.T) {
	s := NewSanitizer(PIILevelHashed, "salt")
	out := s.Text("CPF 123.456.789-09")
	assert.Equal(t, "CPF [CPF:REDACTED]", out)
}

func TestSanitizerUserID(t *testing.T) {
	hashed := NewSanitizer(PIILevelHashed, "salt")
	a := hashed.UserID("user-1")
	assert.Len(t, a, 8)
	assert.Equal(t, a, hashed.UserID("user-1"))
	assert.NotEqual(t, a, NewSanitizer(PIILevelHashed, "other").UserID("user-1"))

	assert.Equal(t, "user-1", NewSanitizer(PIILevelFull, "").UserID("user-1"))
	assert.Equal(t, "[REDACTED]", NewSanitizer(PIILevelNone, "").UserID("user-1"))
	assert.Equal(t, "", hashed.UserID(""))
}

func TestNewSanitizerUnknownLevel(t *testing.T) {
	s := NewSanitizer(PIILevel("partial"), "salt")
	assert.Equal(t, PIILevelHashed, s.Level())
	assert.False(t, strings.Contains(s.Text("a@b.io"), "a@b.io"))
}
