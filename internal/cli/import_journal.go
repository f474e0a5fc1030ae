package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/readkeep/tbrlist/internal/config"
	"github.com/readkeep/tbrlist/internal/database"
	"github.com/readkeep/tbrlist/internal/database/books"
	"github.com/readkeep/tbrlist/internal/importers"
)

// ImportJournalCommand reconciles a journal text file against the
// database.
type ImportJournalCommand struct {
	DatabasePath string
	InputPath    string
}

// NewImportJournalCommand creates a new ImportJournalCommand
func NewImportJournalCommand() *ImportJournalCommand {
	return &ImportJournalCommand{}
}

// ParseFlags parses command line flags
func (cmd *ImportJournalCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import-journal", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.StringVar(&cmd.InputPath, "input", "", "Journal text file to import (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import-journal -input <file> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import a previously exported reading journal. Books already on the\n")
		fmt.Fprintf(os.Stderr, "list get rating updates; unknown books are added.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s import-journal -input reading_journal.txt\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.InputPath == "" {
		fs.Usage()
		return fmt.Errorf("-input is required")
	}
	return nil
}

// Run executes the import
func (cmd *ImportJournalCommand) Run() error {
	data, err := os.ReadFile(cmd.InputPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", cmd.InputPath, err)
	}

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	result, err := importers.NewImporter(books.NewRepository(db.DB)).Import(string(data))
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("Parsed %d books: %d added, %d updated, %d skipped\n",
		result.TotalImported, result.NewBooksAdded, result.UpdatesMade, result.SkippedBooks)
	return nil
}
