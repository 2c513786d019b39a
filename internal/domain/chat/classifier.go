package chat

import (
	"regexp"
	"sort"
	"strings"
)

// Category is the kind of question a message is routed as.
type Category string

const (
	CategoryMath      Category = "Math"
	CategoryKnowledge Category = "Knowledge"
)

// Classifier maps a message to a category. Implementations must be
// deterministic and free of side effects.
type Classifier interface {
	Classify(message string) Category
}

// DefaultOperatorWords are the word operators recognized out of the box,
// in English and Portuguese.
var DefaultOperatorWords = []string{
	"times", "multiplied by", "divided by", "plus", "minus", "mod", "modulo", "power of",
	"mais", "menos", "vezes", "multiplicado por", "dividido por", "elevado a", "elevado à",
}

// wordEdge matches the start or end of an operator word. \b only knows ASCII
// word characters, so accented operators need the Unicode classes.
const wordEdge = `[^\p{L}\p{N}_]`

var (
	digitPattern    = regexp.MustCompile(`\d`)
	operatorSymbols = regexp.MustCompile(`[+\-−*×/÷^%()]`)
)

// RuleClassifier is the Classifier that routes a message to Math when it has
// at least one decimal digit and at least one arithmetic operator, written
// as a symbol or as a word.
type RuleClassifier struct {
	words *regexp.Regexp
}

// NewRuleClassifier builds a classifier recognizing DefaultOperatorWords plus
// the given extra words. Matching is case-insensitive and on word boundaries.
func NewRuleClassifier(extraWords ...string) *RuleClassifier {
	seen := make(map[string]struct{})
	words := make([]string, 0, len(DefaultOperatorWords)+len(extraWords))
	for _, w := range append(append([]string{}, DefaultOperatorWords...), extraWords...) {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, regexp.QuoteMeta(w))
	}

	// longest first so multi-word operators win over their prefixes
	sort.Slice(words, func(i, j int) bool { return len(words[i]) > len(words[j]) })

	return &RuleClassifier{
		words: regexp.MustCompile(`(?:^|` + wordEdge + `)(?:` + strings.Join(words, "|") + `)(?:$|` + wordEdge + `)`),
	}
}

// Classify implements Classifier.
func (c *RuleClassifier) Classify(message string) Category {
	lower := strings.ToLower(message)
	if !digitPattern.MatchString(lower) {
		return CategoryKnowledge
	}
	if operatorSymbols.MatchString(lower) || c.words.MatchString(lower) {
		return CategoryMath
	}
	return CategoryKnowledge
}
