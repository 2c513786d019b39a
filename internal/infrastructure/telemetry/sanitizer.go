// Package telemetry redacts personal data from user text before it leaves
// the process in logs or events.
package telemetry

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
)

// PIILevel defines how much user content is kept.
type PIILevel string

const (
	// PIILevelNone redacts all user content.
	PIILevelNone PIILevel = "none"
	// PIILevelHashed replaces detected PII with salted hashes.
	PIILevelHashed PIILevel = "hashed"
	// PIILevelFull keeps content as is.
	PIILevelFull PIILevel = "full"
)

const redacted = "[REDACTED]"

type piiPattern struct {
	re     *regexp.Regexp
	label  string
	hashed bool
}

// Patterns run in order; card and document numbers go first so their digits
// are not picked up as phone numbers.
var piiPatterns = []piiPattern{
	{re: regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`), label: "EMAIL", hashed: true},
	{re: regexp.MustCompile(`\b\d{4}[- ]?\d{4}[- ]?\d{4}[- ]?\d{4}\b`), label: "CARD"},
	{re: regexp.MustCompile(`\b\d{3}\.?\d{3}\.?\d{3}-?\d{2}\b`), label: "CPF"},
	{re: regexp.MustCompile(`\b\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}\b`), label: "CNPJ"},
	{re: regexp.MustCompile(`(?:\+?55\s?)?\(?\b\d{2}\)?\s?9?\d{4}[-\s]?\d{4}\b`), label: "PHONE", hashed: true},
	{re: regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`), label: "IP", hashed: true},
}

// Sanitizer applies a PIILevel to user text and identifiers.
type Sanitizer struct {
	level PIILevel
	salt  string
}

// NewSanitizer creates a sanitizer. Unknown levels behave as PIILevelHashed.
func NewSanitizer(level PIILevel, salt string) *Sanitizer {
	switch level {
	case PIILevelNone, PIILevelHashed, PIILevelFull:
	default:
		level = PIILevelHashed
	}
	return &Sanitizer{level: level, salt: salt}
}

// Level returns the effective level.
func (s *Sanitizer) Level() PIILevel {
	return s.level
}

// Text sanitizes free text such as a user message or an answer.
func (s *Sanitizer) Text(input string) string {
	if input == "" {
		return ""
	}
	switch s.level {
	case PIILevelNone:
		return redacted
	case PIILevelFull:
		return input
	default:
		return s.maskPII(input)
	}
}

// UserID sanitizes a user identifier.
func (s *Sanitizer) UserID(userID string) string {
	if userID == "" {
		return ""
	}
	switch s.level {
	case PIILevelNone:
		return redacted
	case PIILevelFull:
		return userID
	default:
		return s.hash(userID)
	}
}

func (s *Sanitizer) maskPII(input string) string {
	result := input
	for _, p := range piiPatterns {
		p := p
		result = p.re.ReplaceAllStringFunc(result, func(match string) string {
			if p.hashed {
				return "[" + p.label + ":" + s.hash(match) + "]"
			}
			return "[" + p.label + ":REDACTED]"
		})
	}
	return result
}

// hash returns the first 8 hex chars of the salted SHA-256 of data.
func (s *Sanitizer) hash(data string) string {
	sum := sha256.Sum256([]byte(data + s.salt))
	return hex.EncodeToString(sum[:])[:8]
}
