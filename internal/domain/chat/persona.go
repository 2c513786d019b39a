package chat

import "fmt"

// PersonaTemplates holds one format string per (category, outcome) pair.
// Each template has a single %s verb for the responder's raw text.
type PersonaTemplates struct {
	MathSuccess      string
	MathFailure      string
	KnowledgeSuccess string
	KnowledgeFailure string
}

// Persona template sets by locale.
var personaLocales = map[string]PersonaTemplates{
	"pt-BR": {
		MathSuccess:      "A resposta é: %s Fácil! 😎",
		MathFailure:      "%s Me perdoe! 😔",
		KnowledgeSuccess: "Aqui está o que encontrei nos artigos da Central de Ajuda da InfinitePay: %s Espero ter sido útil! 😊",
		KnowledgeFailure: "%s Me perdoe! 😔",
	},
	"en": {
		MathSuccess:      "The answer is: %s Easy! 😎",
		MathFailure:      "%s Sorry about that! 😔",
		KnowledgeSuccess: "Here is what I found in the InfinitePay Help Center articles: %s Hope this helps! 😊",
		KnowledgeFailure: "%s Sorry about that! 😔",
	},
}

// DefaultPersonaLocale is used when an unknown locale is requested.
const DefaultPersonaLocale = "pt-BR"

// PersonaComposer decorates a responder's raw text for the user.
type PersonaComposer struct {
	templates PersonaTemplates
}

// NewPersonaComposer returns a composer for locale, falling back to
// DefaultPersonaLocale.
func NewPersonaComposer(locale string) *PersonaComposer {
	templates, ok := personaLocales[locale]
	if !ok {
		templates = personaLocales[DefaultPersonaLocale]
	}
	return &PersonaComposer{templates: templates}
}

// Compose returns the user-facing string for a responder outcome. Categories
// without templates get the raw text back.
func (p *PersonaComposer) Compose(category Category, success bool, text string) string {
	var tmpl string
	switch {
	case category == CategoryMath && success:
		tmpl = p.templates.MathSuccess
	case category == CategoryMath:
		tmpl = p.templates.MathFailure
	case category == CategoryKnowledge && success:
		tmpl = p.templates.KnowledgeSuccess
	case category == CategoryKnowledge:
		tmpl = p.templates.KnowledgeFailure
	default:
		return text
	}
	return fmt.Sprintf(tmpl, text)
}
