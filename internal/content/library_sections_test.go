package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildLibraryContent(t *testing.T) {
	details := &LibraryBookDetails{
		Title:       "Ancillary Justice",
		Author:      "Leckie, Ann",
		CallNumber:  "SF LECKIE",
		Branch:      "Central Library",
		ISBN:        "9780316246620",
		Description: "A soldier in a body that used to be a starship.",
		CatalogURL:  "https://sfpl.bibliocommons.com/item/show/2837203030_ancillary_justice",
	}

	t.Run("availability and description", func(t *testing.T) {
		result := BuildLibraryContent(details, []string{"availability", "description"})

		assert.Contains(t, result, "## Library Availability")
		assert.Contains(t, result, "| **Branch** | Central Library |")
		assert.Contains(t, result, "| **Call Number** | SF LECKIE |")
		assert.Contains(t, result, "| **Author** | Leckie, Ann |")
		assert.Contains(t, result, "| **ISBN** | 9780316246620 |")
		assert.Contains(t, result, "[full record](https://sfpl.bibliocommons.com/item/show/2837203030_ancillary_justice)")
		assert.Contains(t, result, "## Description")
		assert.Contains(t, result, "A soldier in a body that used to be a starship.")

		// Availability comes before description
		availIdx := strings.Index(result, "## Library Availability")
		descIdx := strings.Index(result, "## Description")
		assert.Less(t, availIdx, descIdx)
	})

	t.Run("availability only", func(t *testing.T) {
		result := BuildLibraryContent(details, []string{"availability"})
		assert.Contains(t, result, "## Library Availability")
		assert.NotContains(t, result, "## Description")
	})

	t.Run("missing call number is marked", func(t *testing.T) {
		partial := &LibraryBookDetails{
			Title:  "Book Without Shelving Info",
			Branch: "Central Library",
		}
		result := BuildLibraryContent(partial, []string{"availability"})
		assert.Contains(t, result, "| **Call Number** | not listed |")
	})

	t.Run("empty description section is skipped", func(t *testing.T) {
		noDesc := &LibraryBookDetails{Title: "T", CallNumber: "FIC T"}
		result := BuildLibraryContent(noDesc, []string{"availability", "description"})
		assert.NotContains(t, result, "## Description")
	})

	t.Run("nil details", func(t *testing.T) {
		assert.Equal(t, "", BuildLibraryContent(nil, []string{"availability"}))
	})
}

func TestBuildCoverImageEmbed(t *testing.T) {
	assert.Equal(t, "![[Seveneves - cover.jpg|250]]", BuildCoverImageEmbed("Seveneves - cover.jpg", 0))
	assert.Equal(t, "![[Seveneves - cover.jpg|300]]", BuildCoverImageEmbed("Seveneves - cover.jpg", 300))
	assert.Equal(t, "", BuildCoverImageEmbed("", 250))
}
