package syndetics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHigherQualityCover(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "small GIF upgraded to large JPEG",
			input:    "https://secure.syndetics.com/index.aspx?isbn=123456789/SC.GIF",
			expected: "https://secure.syndetics.com/index.aspx?isbn=123456789%2FLC.jpg",
		},
		{
			name:     "other query parameters preserved",
			input:    "https://secure.syndetics.com/index.aspx?isbn=9780316387781/SC.GIF&client=sfpl&type=rn12",
			expected: "https://secure.syndetics.com/index.aspx?client=sfpl&isbn=9780316387781%2FLC.jpg&type=rn12",
		},
		{
			name:     "placeholder without isbn parameter unchanged",
			input:    "https://cor-liv-cdn-static.bibliocommons.com/assets/default_covers/icon-book-93409e4decdf10c55296c91a97ac2653.png",
			expected: "https://cor-liv-cdn-static.bibliocommons.com/assets/default_covers/icon-book-93409e4decdf10c55296c91a97ac2653.png",
		},
		{
			name:     "isbn parameter without filename unchanged",
			input:    "https://secure.syndetics.com/index.aspx?isbn=123456789",
			expected: "https://secure.syndetics.com/index.aspx?isbn=123456789",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, HigherQualityCover(tc.input))
		})
	}
}
