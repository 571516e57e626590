package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		body string
		vars map[string]any
		want string
	}{
		{"simple", "Hi {{name}}", map[string]any{"name": "Ani"}, "Hi Ani"},
		{"inner whitespace", "Hi {{ name }}!", map[string]any{"name": "Ani"}, "Hi Ani!"},
		{"repeated", "{{a}}-{{a}}", map[string]any{"a": 1}, "1-1"},
		{"unmatched left verbatim", "Order {{ no }} for {{name}}", map[string]any{"name": "Ani"}, "Order {{ no }} for Ani"},
		{"dotted name", "{{customer.name}}", map[string]any{"customer.name": "Budi"}, "Budi"},
		{"nil value", "[{{x}}]", map[string]any{"x": nil}, "[]"},
		{"not a placeholder", "{{ two words }}", map[string]any{"two": "x"}, "{{ two words }}"},
		{"no placeholders", "plain", nil, "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.body, tt.vars))
		})
	}
}

func TestRequiredVariables_FirstAppearanceOrder(t *testing.T) {
	got := RequiredVariables("{{b}} {{a}} {{ b }} {{c}}")

	assert.Equal(t, []string{"b", "a", "c"}, got)
}

func TestRequiredVariables_None(t *testing.T) {
	assert.Empty(t, RequiredVariables("no variables here"))
}

func TestValidate_ReportsMissing(t *testing.T) {
	got := Validate("Hi {{name}}, order {{no}}", map[string]any{"name": "A"})

	assert.False(t, got.Valid)
	assert.Equal(t, []string{"no"}, got.MissingVariables)
}

func TestValidate_AllPresent(t *testing.T) {
	got := Validate("Hi {{name}}", map[string]any{"name": "A", "extra": "ignored"})

	assert.True(t, got.Valid)
	assert.Empty(t, got.MissingVariables)
}

func TestPreview_MissingVariablesProduceNoMessage(t *testing.T) {
	got := Preview("Hi {{name}}, order {{no}}", map[string]any{"name": "A"})

	assert.False(t, got.Valid)
	assert.Equal(t, []string{"no"}, got.MissingVariables)
	assert.Equal(t, []string{"name", "no"}, got.RequiredVariables)
	assert.Empty(t, got.Message)
}

func TestPreview_Renders(t *testing.T) {
	got := Preview("Hi {{name}}, order {{no}}", map[string]any{"name": "A", "no": "ORD-1"})

	assert.True(t, got.Valid)
	assert.Equal(t, "Hi A, order ORD-1", got.Message)
}
