package content

import (
	"strings"
)

const (
	// LibraryDataStart is the start marker for library availability content
	LibraryDataStart = "<!-- LIBRARY_DATA_START -->"
	// LibraryDataEnd is the end marker for library availability content
	LibraryDataEnd = "<!-- LIBRARY_DATA_END -->"
)

// WrapWithLibraryMarkers wraps content with library availability markers
func WrapWithLibraryMarkers(content string) string {
	if content == "" {
		return ""
	}

	var builder strings.Builder
	builder.WriteString(LibraryDataStart)
	builder.WriteString("\n")
	builder.WriteString(strings.TrimSpace(content))
	builder.WriteString("\n")
	builder.WriteString(LibraryDataEnd)
	return builder.String()
}

// HasLibraryContentMarkers checks if note contains library availability markers
func HasLibraryContentMarkers(noteContent string) bool {
	return strings.Contains(noteContent, LibraryDataStart) &&
		strings.Contains(noteContent, LibraryDataEnd)
}

// GetLibraryContent extracts content between library availability markers
func GetLibraryContent(noteContent string) (string, bool) {
	startIndex := strings.Index(noteContent, LibraryDataStart)
	endIndex := strings.Index(noteContent, LibraryDataEnd)

	if startIndex == -1 || endIndex == -1 || endIndex <= startIndex {
		return "", false
	}

	// Extract content between markers
	start := startIndex + len(LibraryDataStart)
	content := noteContent[start:endIndex]
	return strings.TrimSpace(content), true
}

// ReplaceLibraryContent replaces content between library availability markers
// with new content. If markers don't exist, returns the original body unchanged.
func ReplaceLibraryContent(body string, newContent string) string {
	if !HasLibraryContentMarkers(body) {
		return body
	}
	startIdx := strings.Index(body, LibraryDataStart)
	endIdx := strings.Index(body, LibraryDataEnd)
	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return body
	}

	before := strings.TrimSpace(body[:startIdx])
	after := strings.TrimSpace(body[endIdx+len(LibraryDataEnd):])

	var builder strings.Builder
	if before != "" {
		builder.WriteString(before)
		builder.WriteString("\n\n")
	}
	builder.WriteString(LibraryDataStart)
	builder.WriteString("\n")
	builder.WriteString(strings.TrimSpace(newContent))
	builder.WriteString("\n")
	builder.WriteString(LibraryDataEnd)
	if after != "" {
		builder.WriteString("\n")
		builder.WriteString(after)
	}
	return builder.String()
}
