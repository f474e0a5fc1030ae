// Package books provides database operations for the reading list: the
// author/genre dedup resolver, book and TBR entry CRUD, and the orphan
// sweep that keeps the lookup tables tight.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	bookID, err := repo.AddBook(books.NewBook{Title: "Dune", AuthorName: "Frank Herbert", Genre: "Sci-Fi"})
package books

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/readkeep/tbrlist/internal/database"
	"github.com/readkeep/tbrlist/internal/entities"
)

// Repository handles all book and TBR list database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// NewBook carries the caller-supplied fields for AddBook. Zero values fall
// back to defaults (priority 5, status "To Read").
type NewBook struct {
	Title           string
	AuthorName      string
	Genre           string
	Category        string
	PageCount       int
	PublicationYear int
	Priority        int
	StatusID        uint
}

// BookUpdate carries the fields for UpdateBook. Priority is optional; nil
// leaves the TBR entry's priority untouched.
type BookUpdate struct {
	Title           string
	AuthorName      string
	Genre           string
	Category        string
	PageCount       int
	PublicationYear int
	Priority        *int
}

// Entry is a TBR list row joined with its book, author, genre and status,
// the shape every read path (listing, export, import reconciliation)
// consumes. Dates are rendered as calendar dates.
type Entry struct {
	TBRID           uint   `json:"tbr_id"`
	BookID          uint   `json:"book_id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Genre           string `json:"genre"`
	Category        string `json:"category,omitempty"`
	Status          string `json:"status"`
	Priority        int    `json:"priority"`
	DateAdded       string `json:"date_added"`
	DateCompleted   string `json:"date_completed,omitempty"`
	PageCount       int    `json:"page_count,omitempty"`
	PublicationYear int    `json:"publication_year,omitempty"`
	Rating          int    `json:"rating,omitempty"`
}

const dateLayout = "2006-01-02"

// ResolveAuthor returns the id of the author with the given name, creating
// the row if it does not exist. Matching is case-insensitive.
func (r *Repository) ResolveAuthor(name string) (uint, error) {
	return resolveAuthor(r.db, name)
}

// ResolveGenre returns the id of the genre with the given name, creating
// the row if it does not exist. A non-empty category overwrites the stored
// one on an existing genre (last write wins).
func (r *Repository) ResolveGenre(name, category string) (uint, error) {
	return resolveGenre(r.db, name, category)
}

func resolveAuthor(tx *gorm.DB, name string) (uint, error) {
	var author entities.Author
	err := tx.Where("LOWER(name) = LOWER(?)", name).First(&author).Error
	if err == gorm.ErrRecordNotFound {
		author = entities.Author{Name: name}
		if err := tx.Create(&author).Error; err != nil {
			return 0, err
		}
		return author.ID, nil
	}
	if err != nil {
		return 0, err
	}
	return author.ID, nil
}

func resolveGenre(tx *gorm.DB, name, category string) (uint, error) {
	var genre entities.Genre
	err := tx.Where("LOWER(name) = LOWER(?)", name).First(&genre).Error
	if err == gorm.ErrRecordNotFound {
		genre = entities.Genre{Name: name, Category: category}
		if err := tx.Create(&genre).Error; err != nil {
			return 0, err
		}
		return genre.ID, nil
	}
	if err != nil {
		return 0, err
	}
	if category != "" && genre.Category != category {
		if err := tx.Model(&genre).Update("category", category).Error; err != nil {
			return 0, err
		}
	}
	return genre.ID, nil
}

// AddBook resolves author and genre, inserts the book, and creates its TBR
// entry dated today — all in one transaction, so no partial rows survive a
// failure. Returns the new book id.
func (r *Repository) AddBook(fields NewBook) (uint, error) {
	if fields.Priority == 0 {
		fields.Priority = entities.DefaultPriority
	}
	if fields.StatusID == 0 {
		fields.StatusID = entities.StatusToRead
	}

	var bookID uint
	err := r.db.Transaction(func(tx *gorm.DB) error {
		authorID, err := resolveAuthor(tx, fields.AuthorName)
		if err != nil {
			return fmt.Errorf("failed to resolve author: %w", err)
		}
		genreID, err := resolveGenre(tx, fields.Genre, fields.Category)
		if err != nil {
			return fmt.Errorf("failed to resolve genre: %w", err)
		}

		book := entities.Book{
			Title:           fields.Title,
			AuthorID:        authorID,
			GenreID:         genreID,
			PageCount:       fields.PageCount,
			PublicationYear: fields.PublicationYear,
		}
		if err := tx.Create(&book).Error; err != nil {
			return err
		}

		entry := entities.TBREntry{
			BookID:    book.ID,
			StatusID:  fields.StatusID,
			Priority:  fields.Priority,
			DateAdded: database.Today(),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		bookID = book.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return bookID, nil
}

// UpdateBook re-resolves author and genre (possibly creating new rows) and
// overwrites the book's fields. The old author/genre may be left without
// references; orphans are not swept here.
func (r *Repository) UpdateBook(bookID uint, fields BookUpdate) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			return fmt.Errorf("book %d: %w", bookID, err)
		}

		authorID, err := resolveAuthor(tx, fields.AuthorName)
		if err != nil {
			return fmt.Errorf("failed to resolve author: %w", err)
		}
		genreID, err := resolveGenre(tx, fields.Genre, fields.Category)
		if err != nil {
			return fmt.Errorf("failed to resolve genre: %w", err)
		}

		updates := map[string]any{
			"title":            fields.Title,
			"author_id":        authorID,
			"genre_id":         genreID,
			"page_count":       fields.PageCount,
			"publication_year": fields.PublicationYear,
		}
		if err := tx.Model(&book).Updates(updates).Error; err != nil {
			return err
		}

		if fields.Priority != nil {
			err := tx.Model(&entities.TBREntry{}).
				Where("book_id = ?", bookID).
				Update("priority", *fields.Priority).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteBook removes the book's TBR entry and the book itself, then sweeps
// authors and genres no longer referenced by any book.
func (r *Repository) DeleteBook(bookID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", bookID).Delete(&entities.TBREntry{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&entities.Book{}, bookID).Error; err != nil {
			return err
		}
		return sweepOrphans(tx)
	})
}

// SweepOrphans removes every author and genre referenced by zero books.
// It is a global sweep, not scoped to any particular deletion.
func (r *Repository) SweepOrphans() error {
	return sweepOrphans(r.db)
}

func sweepOrphans(tx *gorm.DB) error {
	if err := tx.Exec(`
		DELETE FROM authors
		WHERE id NOT IN (SELECT author_id FROM books)
	`).Error; err != nil {
		return err
	}
	return tx.Exec(`
		DELETE FROM genres
		WHERE id NOT IN (SELECT genre_id FROM books)
	`).Error
}

// ClearAll empties the TBR list, books, authors and genres tables.
func (r *Repository) ClearAll() error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, stmt := range []string{
			"DELETE FROM tbr_list",
			"DELETE FROM books",
			"DELETE FROM authors",
			"DELETE FROM genres",
		} {
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateStatus sets the TBR entry's status. Transitioning to "Completed"
// stamps date_completed with today's date; any other transition clears it.
func (r *Repository) UpdateStatus(tbrID uint, statusID uint) error {
	var entry entities.TBREntry
	if err := r.db.First(&entry, tbrID).Error; err != nil {
		return fmt.Errorf("tbr entry %d: %w", tbrID, err)
	}

	updates := map[string]any{"status_id": statusID}
	if statusID == entities.StatusCompleted {
		updates["date_completed"] = database.Today()
	} else {
		updates["date_completed"] = nil
	}
	return r.db.Model(&entry).Updates(updates).Error
}

// UpdateRating resolves the TBR entry to its book and sets the book's
// rating.
func (r *Repository) UpdateRating(tbrID uint, rating int) error {
	var entry entities.TBREntry
	if err := r.db.First(&entry, tbrID).Error; err != nil {
		return fmt.Errorf("tbr entry %d: %w", tbrID, err)
	}
	result := r.db.Model(&entities.Book{}).Where("id = ?", entry.BookID).Update("rating", rating)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("book %d: %w", entry.BookID, gorm.ErrRecordNotFound)
	}
	return nil
}

// GetBookByTitleAndAuthor looks a book up by its case-insensitive
// (title, author) pair, the same key the journal importer reconciles on.
func (r *Repository) GetBookByTitleAndAuthor(title, author string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.
		Joins("JOIN authors ON books.author_id = authors.id").
		Where("LOWER(books.title) = LOWER(?) AND LOWER(authors.name) = LOWER(?)", title, author).
		Preload("Author").
		Preload("Genre").
		First(&book).Error
	if err != nil {
		return nil, fmt.Errorf("book %q by %q: %w", title, author, err)
	}
	return &book, nil
}

// EntryIDForBook returns the TBR entry id belonging to a book.
func (r *Repository) EntryIDForBook(bookID uint) (uint, error) {
	var entry entities.TBREntry
	if err := r.db.Where("book_id = ?", bookID).First(&entry).Error; err != nil {
		return 0, fmt.Errorf("book %d: %w", bookID, err)
	}
	return entry.ID, nil
}

// ListTBR returns the whole reading list joined with book, author, genre
// and status, most urgent and most recently added first.
func (r *Repository) ListTBR() ([]Entry, error) {
	return r.listEntries(r.db)
}

// SearchBooks returns TBR entries whose title or author matches the query
// (case-insensitive substring), in the usual list order.
func (r *Repository) SearchBooks(query string) ([]Entry, error) {
	pattern := "%" + query + "%"
	scope := r.db.Where(`book_id IN (
		SELECT b.id FROM books b
		JOIN authors a ON b.author_id = a.id
		WHERE LOWER(b.title) LIKE LOWER(?) OR LOWER(a.name) LIKE LOWER(?)
	)`, pattern, pattern)
	return r.listEntries(scope)
}

func (r *Repository) listEntries(scope *gorm.DB) ([]Entry, error) {
	var rows []entities.TBREntry
	err := scope.
		Preload("Book").
		Preload("Book.Author").
		Preload("Book.Genre").
		Preload("Status").
		Order("priority DESC, date_added DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entry := Entry{
			TBRID:           row.ID,
			BookID:          row.BookID,
			Title:           row.Book.Title,
			Author:          row.Book.Author.Name,
			Genre:           row.Book.Genre.Name,
			Category:        row.Book.Genre.Category,
			Status:          row.Status.Name,
			Priority:        row.Priority,
			DateAdded:       row.DateAdded.Format(dateLayout),
			PageCount:       row.Book.PageCount,
			PublicationYear: row.Book.PublicationYear,
			Rating:          row.Book.Rating,
		}
		if row.DateCompleted != nil {
			entry.DateCompleted = row.DateCompleted.Format(dateLayout)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ListAuthors returns all authors ordered by name.
func (r *Repository) ListAuthors() ([]entities.Author, error) {
	var authors []entities.Author
	err := r.db.Order("name").Find(&authors).Error
	return authors, err
}

// ListGenres returns all genres ordered by name.
func (r *Repository) ListGenres() ([]entities.Genre, error) {
	var genres []entities.Genre
	err := r.db.Order("name").Find(&genres).Error
	return genres, err
}

// ListStatuses returns the fixed reading status lookup set.
func (r *Repository) ListStatuses() ([]entities.ReadingStatus, error) {
	var statuses []entities.ReadingStatus
	err := r.db.Order("id").Find(&statuses).Error
	return statuses, err
}
