package cmdutil

import (
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/lepinkainen/stacks/internal/datastore"
)

// WriteToDatastore writes records to the configured Datasette-compatible
// store, either a local SQLite file or a remote Datasette instance depending
// on datasette.mode (local when unset). When datasette.enabled is false this
// is a quiet no-op.
func WriteToDatastore[T any](records []T, schema, table, description string, mapper func(T) map[string]any) error {
	if !viper.GetBool("datasette.enabled") {
		return nil
	}

	slog.Info("Writing to datastore", "what", description, "count", len(records))

	rows := make([]map[string]any, len(records))
	for i, record := range records {
		rows[i] = mapper(record)
	}

	mode := viper.GetString("datasette.mode")
	if mode == "" {
		mode = "local"
	}

	switch mode {
	case "local":
		store := datastore.NewSQLiteStore(viper.GetString("datasette.dbfile"))
		if err := store.Connect(); err != nil {
			return fmt.Errorf("failed to connect to SQLite database: %w", err)
		}
		defer func() { _ = store.Close() }()

		if err := store.CreateTable(schema); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
		if err := store.BatchInsert("stacks", table, rows); err != nil {
			return fmt.Errorf("failed to insert records: %w", err)
		}
		slog.Info("Wrote records to SQLite database", "table", table, "count", len(rows))
	case "remote":
		client := datastore.NewDatasetteClient(
			viper.GetString("datasette.remote_url"),
			viper.GetString("datasette.api_token"),
		)
		if err := client.Connect(); err != nil {
			return fmt.Errorf("failed to connect to remote Datasette: %w", err)
		}
		defer func() { _ = client.Close() }()

		if err := client.BatchInsert("stacks", table, rows); err != nil {
			return fmt.Errorf("failed to insert records to remote Datasette: %w", err)
		}
		slog.Info("Wrote records to remote Datasette", "table", table, "count", len(rows))
	default:
		return fmt.Errorf("invalid Datasette mode: %s", mode)
	}

	return nil
}
