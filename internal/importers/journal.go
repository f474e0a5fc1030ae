// Package importers reconciles parsed journal records against the stored
// reading list: known books get rating-only updates, unknown books are
// inserted with their parsed fields.
package importers

import (
	"log"
	"strings"

	"github.com/readkeep/tbrlist/internal/database/books"
	"github.com/readkeep/tbrlist/internal/entities"
	"github.com/readkeep/tbrlist/internal/parsers"
)

// Result summarizes one import run.
type Result struct {
	TotalImported int `json:"total_imported"`
	NewBooksAdded int `json:"new_books_added"`
	UpdatesMade   int `json:"updates_made"`
	SkippedBooks  int `json:"skipped_books"`
}

// Importer wires the journal parser to the books repository.
type Importer struct {
	repo *books.Repository
}

// NewImporter creates a new journal importer.
func NewImporter(repo *books.Repository) *Importer {
	return &Importer{repo: repo}
}

// Import parses journal text and reconciles every record against the
// store. Books are matched by the case-insensitive (title, author) pair:
// a match with a differing parsed rating gets a rating update, a match
// without one is skipped, and everything else is added as a new book.
// Per-book failures are logged and counted as skips so one bad record
// cannot abort the rest of the file.
func (imp *Importer) Import(text string) (*Result, error) {
	parsed := parsers.ParseJournal(text)
	result := &Result{TotalImported: len(parsed)}

	existing, err := imp.repo.ListTBR()
	if err != nil {
		return nil, err
	}
	byKey := make(map[string]books.Entry, len(existing))
	for _, entry := range existing {
		byKey[bookKey(entry.Title, entry.Author)] = entry
	}

	for _, record := range parsed {
		entry, found := byKey[bookKey(record.Title, record.Author)]
		if found {
			if record.Rating > 0 && record.Rating != entry.Rating {
				if err := imp.repo.UpdateRating(entry.TBRID, record.Rating); err != nil {
					log.Printf("Failed to update rating for %q: %v", record.Title, err)
					result.SkippedBooks++
					continue
				}
				result.UpdatesMade++
			} else {
				result.SkippedBooks++
			}
			continue
		}

		bookID, err := imp.repo.AddBook(books.NewBook{
			Title:           record.Title,
			AuthorName:      record.Author,
			Genre:           record.Genre,
			Category:        record.Category,
			PageCount:       record.PageCount,
			PublicationYear: record.PublicationYear,
			Priority:        record.Priority,
			StatusID:        statusID(record.Status),
		})
		if err != nil {
			log.Printf("Failed to add book %q: %v", record.Title, err)
			result.SkippedBooks++
			continue
		}
		if record.Rating > 0 {
			if err := imp.applyRating(bookID, record.Rating); err != nil {
				log.Printf("Failed to set rating for %q: %v", record.Title, err)
			}
		}
		result.NewBooksAdded++
	}

	return result, nil
}

func (imp *Importer) applyRating(bookID uint, rating int) error {
	tbrID, err := imp.repo.EntryIDForBook(bookID)
	if err != nil {
		return err
	}
	return imp.repo.UpdateRating(tbrID, rating)
}

func statusID(tag parsers.StatusTag) uint {
	switch tag {
	case parsers.StatusCompleted:
		return entities.StatusCompleted
	case parsers.StatusInProgress:
		return entities.StatusCurrentlyReading
	case parsers.StatusDidNotFinish:
		return entities.StatusDidNotFinish
	default:
		return entities.StatusToRead
	}
}

func bookKey(title, author string) string {
	return strings.ToLower(strings.TrimSpace(title)) + "|" + strings.ToLower(strings.TrimSpace(author))
}
