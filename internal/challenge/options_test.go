package challenge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestParseOptions(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []Option
	}{
		{
			name: "label with color and plain label",
			raw:  "Yes (#FF0000), No",
			want: []Option{{Label: "Yes", Color: strPtr("#FF0000")}, {Label: "No"}},
		},
		{
			name: "named color kept verbatim",
			raw:  "Done (#green) ,  Pending(#ffa500)",
			want: []Option{{Label: "Done", Color: strPtr("#green")}, {Label: "Pending", Color: strPtr("#ffa500")}},
		},
		{
			name: "tokens without label are dropped",
			raw:  "A, , (#fff), B",
			want: []Option{{Label: "A"}, {Label: "B"}},
		},
		{
			name: "empty color gives no color",
			raw:  "Yes (#), No",
			want: []Option{{Label: "Yes"}, {Label: "No"}},
		},
		{
			name: "empty spec",
			raw:  "   ",
			want: []Option{},
		},
		{
			name: "unterminated parenthesis stays in label",
			raw:  "Maybe (#abc",
			want: []Option{{Label: "Maybe (#abc"}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseOptions(tc.raw))
		})
	}
}

func TestParseOptionsIsDeterministic(t *testing.T) {
	raw := "One (#111), Two, Three (#333)"
	first := ParseOptions(raw)
	second := ParseOptions(raw)
	require.Equal(t, first, second)
	assert.Equal(t, []string{"One", "Two", "Three"}, Labels(first))
}

func TestResolveColor(t *testing.T) {
	opts := []Option{{Label: "Yes", Color: strPtr("#abc")}}

	t.Run("case and whitespace insensitive", func(t *testing.T) {
		got := ResolveColor("y e s", opts)
		require.NotNil(t, got)
		assert.Equal(t, "#abc", *got)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Nil(t, ResolveColor("no", opts))
	})

	t.Run("punctuation is not folded", func(t *testing.T) {
		assert.Nil(t, ResolveColor("Yes!", opts))
	})

	t.Run("first match wins even when its color is nil", func(t *testing.T) {
		dup := []Option{{Label: "Ok"}, {Label: "OK", Color: strPtr("#000")}}
		assert.Nil(t, ResolveColor("ok", dup))
	})
}
