package content

import (
	"fmt"
	"strings"
)

// LibraryBookDetails contains the information needed to generate library
// availability content sections
type LibraryBookDetails struct {
	Title       string
	Author      string
	CallNumber  string
	Branch      string
	ISBN        string
	Description string
	CatalogURL  string
}

// BuildLibraryContent generates library availability sections based on the
// provided book details
// sections can include: "availability", "description"
func BuildLibraryContent(details *LibraryBookDetails, sections []string) string {
	if details == nil {
		return ""
	}

	sectionMap := make(map[string]bool)
	for _, s := range sections {
		sectionMap[s] = true
	}

	var builder strings.Builder
	first := true

	if sectionMap["availability"] {
		builder.WriteString(buildAvailabilitySection(details))
		first = false
	}

	if sectionMap["description"] && details.Description != "" {
		if !first {
			builder.WriteString("\n")
		}
		builder.WriteString(buildLibraryDescriptionSection(details))
	}

	return builder.String()
}

// buildAvailabilitySection creates the branch availability table
func buildAvailabilitySection(details *LibraryBookDetails) string {
	var builder strings.Builder
	builder.WriteString("## Library Availability\n\n")
	builder.WriteString("| | |\n")
	builder.WriteString("|---|---|\n")

	if details.Branch != "" {
		builder.WriteString(fmt.Sprintf("| **Branch** | %s |\n", details.Branch))
	}

	if details.CallNumber != "" {
		builder.WriteString(fmt.Sprintf("| **Call Number** | %s |\n", details.CallNumber))
	} else {
		builder.WriteString("| **Call Number** | not listed |\n")
	}

	if details.Author != "" {
		builder.WriteString(fmt.Sprintf("| **Author** | %s |\n", details.Author))
	}

	if details.ISBN != "" {
		builder.WriteString(fmt.Sprintf("| **ISBN** | %s |\n", details.ISBN))
	}

	if details.CatalogURL != "" {
		builder.WriteString(fmt.Sprintf("| **Catalog** | [full record](%s) |\n", details.CatalogURL))
	}

	return builder.String()
}

// buildLibraryDescriptionSection creates the description section
func buildLibraryDescriptionSection(details *LibraryBookDetails) string {
	var builder strings.Builder
	builder.WriteString("## Description\n\n")
	builder.WriteString(details.Description)
	builder.WriteString("\n")
	return builder.String()
}
