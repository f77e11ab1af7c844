// Package search implements the command that checks catalog availability
// for an arbitrary list of books, no shelf account required.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/lepinkainen/stacks/internal/bibliocommons"
	"github.com/lepinkainen/stacks/internal/book"
	"github.com/lepinkainen/stacks/internal/csvutil"
)

var newCatalog = func(subdomain string) *bibliocommons.Client {
	return bibliocommons.New(subdomain)
}

var descriptorHeader = []string{"isbn", "title", "author"}

// Search reads book descriptors from the input CSV, reconciles them against
// the catalog and writes every requested output.
func Search() error {
	ctx := context.Background()

	descriptors, err := csvutil.ProcessCSV(inputFile, parseDescriptorRow, csvutil.ProcessorOptions{
		FieldsPerRecord: 3,
		ExpectedHeader:  descriptorHeader,
		SkipInvalid:     true,
	})
	if err != nil {
		return fmt.Errorf("failed to read input CSV: %w", err)
	}
	if len(descriptors) == 0 {
		slog.Info("Input file has no usable books, nothing to search")
		return nil
	}
	slog.Info("Read search input", "file", inputFile, "books", len(descriptors))

	reconciler := bibliocommons.NewReconciler(newCatalog(catalog), bibliocommons.ReconcileOptions{
		Branch:      branchName,
		Language:    language,
		AllFormats:  allFormats,
		BatchSize:   viper.GetInt("bibliocommons.batchsize"),
		MaxQueryLen: viper.GetInt("bibliocommons.maxquerylen"),
	})

	var available []book.AvailableBook
	err = reconciler.Reconcile(ctx, descriptors, func(record book.Record) {
		ab := book.AvailableBook{Record: record, Branch: branchName}
		if ab.CallNumber != "" {
			slog.Info(fmt.Sprintf("%s - %s", ab.Title, ab.CallNumber))
		} else {
			slog.Info(fmt.Sprintf("%s - call number not listed", ab.Title))
		}
		available = append(available, ab)
	})
	if err != nil {
		return fmt.Errorf("catalog lookup failed: %w", err)
	}

	slog.Info("Search finished", "wanted", len(descriptors), "available", len(available), "branch", branchName)

	if writeJSON {
		if err := writeRecordsToJSON(available, jsonOutput); err != nil {
			slog.Error("Error writing books to JSON", "error", err)
		}
	}
	if csvOutput != "" {
		if err := writeRecordsToCSV(available, csvOutput); err != nil {
			slog.Error("Error writing books to CSV", "error", err)
		}
	}
	return nil
}

// parseDescriptorRow turns one isbn,title,author row into a descriptor. A
// row needs either an ISBN or a title and author pair to be searchable.
func parseDescriptorRow(record []string) (book.Descriptor, error) {
	d := book.Descriptor{
		ISBN:   strings.TrimSpace(record[0]),
		Title:  strings.TrimSpace(record[1]),
		Author: strings.TrimSpace(record[2]),
	}
	if d.ISBN == "" && (d.Title == "" || d.Author == "") {
		return book.Descriptor{}, fmt.Errorf("missing value: need an isbn or both title and author")
	}
	return d, nil
}
