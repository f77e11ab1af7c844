package lookup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/lepinkainen/stacks/internal/book"
	"github.com/lepinkainen/stacks/internal/config"
	"github.com/lepinkainen/stacks/internal/content"
	"github.com/lepinkainen/stacks/internal/fileutil"
	"github.com/lepinkainen/stacks/internal/obsidian"
)

func writeBookToMarkdown(ctx context.Context, ab book.AvailableBook, directory string) error {
	filePath := fileutil.GetMarkdownFilePath(ab.Title, directory)

	coverRef, coverEmbed := resolveCover(ctx, ab, directory)

	details := &content.LibraryBookDetails{
		Title:       ab.Title,
		Author:      ab.Author,
		CallNumber:  ab.CallNumber,
		Branch:      ab.Branch,
		ISBN:        ab.ISBN,
		Description: ab.Description,
		CatalogURL:  ab.FullRecordLink,
	}
	libraryContent := content.BuildLibraryContent(details, []string{"availability", "description"})

	// A note written on an earlier run gets its managed block and
	// availability fields refreshed in place, keeping whatever the user
	// added around them.
	if existing, err := os.ReadFile(filePath); err == nil {
		note, parseErr := obsidian.ParseMarkdown(existing)
		if parseErr == nil && content.HasLibraryContentMarkers(note.Body) {
			return refreshNote(note, ab, coverRef, libraryContent, filePath)
		}
	}

	fm := obsidian.NewFrontmatterWithTitle(fileutil.SanitizeFilename(ab.Title))
	fm.Set("type", "book")
	if ab.Author != "" {
		fm.Set("author", ab.Author)
	}
	if ab.CallNumber != "" {
		fm.Set("call_number", ab.CallNumber)
	}
	if ab.Branch != "" {
		fm.Set("branch", ab.Branch)
	}
	if ab.ISBN != "" {
		fm.Set("isbn", ab.ISBN)
	}
	if coverRef != "" {
		fm.Set("cover", coverRef)
	}
	obsidian.ApplyTagSet(fm, availabilityTags(ab))

	var body strings.Builder
	if coverEmbed != "" {
		body.WriteString(coverEmbed)
		body.WriteString("\n\n")
	}
	body.WriteString(content.WrapWithLibraryMarkers(libraryContent))

	markdown, err := obsidian.BuildNoteMarkdown(fm, body.String())
	if err != nil {
		return fmt.Errorf("failed to build markdown: %w", err)
	}

	written, err := fileutil.WriteFileWithOverwrite(filePath, markdown, 0644, config.OverwriteFiles)
	if err != nil {
		return err
	}
	fileutil.LogFileWriteResult(written, filePath)
	return nil
}

// refreshNote updates the availability facts of an existing note without
// touching user content outside the managed block.
func refreshNote(note *obsidian.Note, ab book.AvailableBook, coverRef, libraryContent, filePath string) error {
	fm := note.Frontmatter
	if ab.Author != "" {
		fm.Set("author", ab.Author)
	}
	if ab.CallNumber != "" {
		fm.Set("call_number", ab.CallNumber)
	}
	if ab.Branch != "" {
		fm.Set("branch", ab.Branch)
	}
	if ab.ISBN != "" {
		fm.Set("isbn", ab.ISBN)
	}
	if coverRef != "" && fm.GetString("cover") == "" {
		fm.Set("cover", coverRef)
	}
	fm.Set("tags", obsidian.MergeTags(fm.GetStringArray("tags"), availabilityTags(ab).GetSorted()))

	note.Body = content.ReplaceLibraryContent(note.Body, libraryContent)

	markdown, err := note.Build()
	if err != nil {
		return fmt.Errorf("failed to build markdown: %w", err)
	}

	if _, err := fileutil.WriteFileWithOverwrite(filePath, markdown, 0644, true); err != nil {
		return err
	}
	slog.Info("Refreshed availability note", "filename", filePath)
	return nil
}

func availabilityTags(ab book.AvailableBook) *obsidian.TagSet {
	tags := obsidian.NewTagSet()
	tags.Add("book")
	tags.Add("library/available")
	tags.AddIf(ab.Branch != "", fmt.Sprintf("branch/%s", ab.Branch))
	return tags
}

// resolveCover decides what the note records for its cover image. With cover
// downloads enabled the image lands in the attachments directory and the
// note embeds it wiki-style; otherwise the note keeps the remote URL.
func resolveCover(ctx context.Context, ab book.AvailableBook, directory string) (coverRef, coverEmbed string) {
	if ab.CoverImage == "" {
		return "", ""
	}
	if !config.DownloadCovers {
		return ab.CoverImage, fmt.Sprintf("![](%s)", ab.CoverImage)
	}

	result, err := fileutil.DownloadCover(ctx, fileutil.CoverDownloadOptions{
		URL:       ab.CoverImage,
		OutputDir: directory,
		Filename:  fileutil.BuildCoverFilename(ab.Title),
	})
	if err != nil {
		slog.Warn("Failed to download cover", "title", ab.Title, "error", err)
		return ab.CoverImage, fmt.Sprintf("![](%s)", ab.CoverImage)
	}
	if result == nil {
		return "", ""
	}
	return result.RelativePath, content.BuildCoverImageEmbed(result.Filename, 0)
}
