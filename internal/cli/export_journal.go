package cli

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/readkeep/tbrlist/internal/config"
	"github.com/readkeep/tbrlist/internal/database"
	"github.com/readkeep/tbrlist/internal/database/books"
	"github.com/readkeep/tbrlist/internal/exporters"
)

// ExportJournalCommand renders the reading list as journal text.
type ExportJournalCommand struct {
	DatabasePath string
	OutputPath   string
}

// NewExportJournalCommand creates a new ExportJournalCommand
func NewExportJournalCommand() *ExportJournalCommand {
	return &ExportJournalCommand{}
}

// ParseFlags parses command line flags
func (cmd *ExportJournalCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export-journal", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.StringVar(&cmd.OutputPath, "output", "", "Output file (defaults to stdout)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export-journal [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export the reading list as a plain-text journal.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Print the journal to stdout:\n")
		fmt.Fprintf(os.Stderr, "  %s export-journal\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Write the journal to a file:\n")
		fmt.Fprintf(os.Stderr, "  %s export-journal -output reading_journal.txt\n", os.Args[0])
	}

	return fs.Parse(args)
}

// Run executes the export
func (cmd *ExportJournalCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	entries, err := books.NewRepository(db.DB).ListTBR()
	if err != nil {
		return fmt.Errorf("failed to read reading list: %w", err)
	}
	journal := exporters.RenderJournal(entries, time.Now())

	if cmd.OutputPath == "" {
		fmt.Print(journal)
		return nil
	}
	if err := os.WriteFile(cmd.OutputPath, []byte(journal), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", cmd.OutputPath, err)
	}
	fmt.Printf("Exported %d books to %s\n", len(entries), cmd.OutputPath)
	return nil
}
