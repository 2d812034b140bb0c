package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		stripTags bool
		expected  string
	}{
		{
			name:      "Tags, sentinels, escape and placeholder",
			input:     "<b>Deal $1 damage.</b>\\n[x]",
			stripTags: true,
			expected:  "Deal 1 damage.\n",
		},
		{
			name:      "Formatted mode keeps markup",
			input:     "<b>Battlecry:</b> Deal $2 damage.",
			stripTags: false,
			expected:  "<b>Battlecry:</b> Deal 2 damage.",
		},
		{
			name:      "Italic tags stripped",
			input:     "<i>Flavor</i>",
			stripTags: true,
			expected:  "Flavor",
		},
		{
			name:      "Hash sentinel on healing",
			input:     "Restore #3 Health.",
			stripTags: true,
			expected:  "Restore 3 Health.",
		},
		{
			name:      "Formatted mode still expands newline",
			input:     "[x]<b>Taunt</b>\\nDivine Shield",
			stripTags: false,
			expected:  "<b>Taunt</b>\nDivine Shield",
		},
		{
			name:      "Empty string",
			input:     "",
			stripTags: true,
			expected:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input, tt.stripTags))
		})
	}
}

func TestParseOverload(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"Single digit", "Overload: (2)", 2},
		{"Multi digit", "Overload: (12)", 12},
		{"Embedded in text", "Deal 3 damage. Overload: (1)", 1},
		{"First match wins", "Overload: (3) Overload: (4)", 3},
		{"No overload", "Deal 3 damage.", -1},
		{"Empty", "", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseOverload(tt.input))
		})
	}
}

func TestAlternativeText(t *testing.T) {
	names := []string{"Feuerball", "Boule de feu"}
	texts := []string{"Verursacht $6 Schaden.", ""}

	assert.Equal(t, "[Feuerball]\nVerursacht 6 Schaden.\n-\n[Boule de feu]", alternativeText(names, texts, false))
	assert.Equal(t, "", alternativeText(nil, nil, false))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "al-akir-the-windlord", fileName("Al'Akir the Windlord"))
	assert.Equal(t, "mr-smite", fileName("Mr. Smite!"))
}
