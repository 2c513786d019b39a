package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPersonaComposer(t *testing.T) {
	composer := NewPersonaComposer("pt-BR")

	tests := []struct {
		name     string
		category Category
		success  bool
		text     string
		want     string
	}{
		{"math success", CategoryMath, true, "4", "A resposta é: 4 Fácil! 😎"},
		{"math failure", CategoryMath, false, "could not resolve the expression", "could not resolve the expression Me perdoe! 😔"},
		{
			"knowledge success", CategoryKnowledge, true, "A taxa é 2%.",
			"Aqui está o que encontrei nos artigos da Central de Ajuda da InfinitePay: A taxa é 2%. Espero ter sido útil! 😊",
		},
		{"knowledge failure", CategoryKnowledge, false, "Não encontrei.", "Não encontrei. Me perdoe! 😔"},
		{"unknown category", Category("Weather"), true, "sunny", "sunny"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, composer.Compose(tt.category, tt.success, tt.text))
		})
	}
}

func TestPersonaComposerLocales(t *testing.T) {
	assert.Equal(t, "The answer is: 4 Easy! 😎", NewPersonaComposer("en").Compose(CategoryMath, true, "4"))
	assert.Equal(t, "A resposta é: 4 Fácil! 😎", NewPersonaComposer("xx").Compose(CategoryMath, true, "4"))
}
