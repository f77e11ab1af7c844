package content

import (
	"fmt"
)

// defaultEmbedWidth is the display width used when the caller does not pick one.
const defaultEmbedWidth = 250

// BuildCoverImageEmbed generates Obsidian embed syntax for a cover image.
// Returns: ![[filename|250]]
func BuildCoverImageEmbed(coverFilename string, width int) string {
	if coverFilename == "" {
		return ""
	}
	if width <= 0 {
		width = defaultEmbedWidth
	}
	return fmt.Sprintf("![[%s|%d]]", coverFilename, width)
}
