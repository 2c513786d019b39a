package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuleClassifier(t *testing.T) {
	classifier := NewRuleClassifier()

	tests := []struct {
		name    string
		message string
		want    Category
	}{
		{"symbol operator", "2+2", CategoryMath},
		{"plain greeting", "hello", CategoryKnowledge},
		{"question without digits", "what is the capital", CategoryKnowledge},
		{"english word operator", "5 times 3", CategoryMath},
		{"multi word operator", "10 divided by 2", CategoryMath},
		{"portuguese word operator", "quanto é 7 vezes 8?", CategoryMath},
		{"portuguese multi word", "9 elevado a 2", CategoryMath},
		{"accented operator", "2 elevado à 3", CategoryMath},
		{"operator at start of message", "mais 3", CategoryMath},
		{"uppercase word operator", "5 TIMES 3", CategoryMath},
		{"parentheses", "(12)", CategoryMath},
		{"unicode multiplication", "6 × 7", CategoryMath},
		{"percent", "qual é 15% de 200", CategoryMath},
		{"digit without operator", "my card ends in 1234", CategoryKnowledge},
		{"operator without digit", "what is plus minus", CategoryKnowledge},
		{"operator word inside another word", "timestamp 2024", CategoryKnowledge},
		{"empty", "", CategoryKnowledge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifier.Classify(tt.message))
		})
	}
}

func TestRuleClassifierExtraWords(t *testing.T) {
	classifier := NewRuleClassifier("mal", " ", "TIMES")

	assert.Equal(t, CategoryMath, classifier.Classify("3 mal 4"))
	assert.Equal(t, CategoryMath, classifier.Classify("3 times 4"))
	assert.Equal(t, CategoryKnowledge, NewRuleClassifier().Classify("3 mal 4"))
}

func TestRuleClassifierUnicodeWords(t *testing.T) {
	classifier := NewRuleClassifier("über", "até à potência")

	tests := []struct {
		name    string
		message string
		want    Category
	}{
		{"leading non-ascii letter", "8 über 2", CategoryMath},
		{"uppercase non-ascii", "8 ÜBER 2", CategoryMath},
		{"trailing non-ascii letter", "2 até à potência 3", CategoryMath},
		{"non-ascii word inside another word", "8 süber 2", CategoryKnowledge},
		{"accented operator glued to a letter", "2 elevado àquilo 3", CategoryKnowledge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifier.Classify(tt.message))
		})
	}
}

func TestRuleClassifierDeterministic(t *testing.T) {
	classifier := NewRuleClassifier()
	for i := 0; i < 10; i++ {
		assert.Equal(t, CategoryMath, classifier.Classify("1 plus 1"))
	}
}
