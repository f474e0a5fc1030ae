// Package stats provides the read-only reporting queries and the
// recommendation heuristic. Nothing here writes to the store.
package stats

import (
	"time"

	"gorm.io/gorm"

	"github.com/readkeep/tbrlist/internal/entities"
)

// Repository runs aggregation queries over the reading list.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new stats repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type GenreCount struct {
	Genre string `json:"genre"`
	Count int64  `json:"count"`
}

type MonthCount struct {
	Month string `json:"month"` // YYYY-MM
	Count int64  `json:"count"`
}

// Summary is the full stats payload served by the stats endpoint.
type Summary struct {
	TotalBooks         int64         `json:"total_books"`
	ByStatus           []StatusCount `json:"by_status"`
	TopGenres          []GenreCount  `json:"top_genres"`
	AverageRating      float64       `json:"average_rating"`
	CompletedThisYear  int64         `json:"completed_this_year"`
	PagesRead          int64         `json:"pages_read"`
	MonthlyCompletions []MonthCount  `json:"monthly_completions"`
}

// RatedGroup is a genre or author with its average rating across rated
// books.
type RatedGroup struct {
	Name          string  `json:"name"`
	AverageRating float64 `json:"average_rating"`
	RatedBooks    int64   `json:"rated_books"`
}

// Suggestion is one recommended To Read entry.
type Suggestion struct {
	TBRID    uint   `json:"tbr_id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Genre    string `json:"genre"`
	Priority int    `json:"priority"`
}

// Recommendations pairs the favored genres/authors with the To Read books
// matching them.
type Recommendations struct {
	FavoriteGenres  []RatedGroup `json:"favorite_genres"`
	FavoriteAuthors []RatedGroup `json:"favorite_authors"`
	Suggested       []Suggestion `json:"suggested"`
}

// TotalBooks counts all books in the catalog.
func (r *Repository) TotalBooks() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Count(&count).Error
	return count, err
}

// CountByStatus groups the TBR list by reading status.
func (r *Repository) CountByStatus() ([]StatusCount, error) {
	var counts []StatusCount
	err := r.db.Raw(`
		SELECT rs.name AS status, COUNT(*) AS count
		FROM tbr_list t
		JOIN reading_statuses rs ON t.status_id = rs.id
		GROUP BY rs.id
		ORDER BY rs.id
	`).Scan(&counts).Error
	return counts, err
}

// CountByGenre groups books by genre, largest first, optionally limited to
// the top n (n <= 0 means all).
func (r *Repository) CountByGenre(n int) ([]GenreCount, error) {
	query := r.db.Raw(`
		SELECT g.name AS genre, COUNT(*) AS count
		FROM books b
		JOIN genres g ON b.genre_id = g.id
		GROUP BY g.id
		ORDER BY count DESC, g.name
	`)
	if n > 0 {
		query = r.db.Raw(`
			SELECT g.name AS genre, COUNT(*) AS count
			FROM books b
			JOIN genres g ON b.genre_id = g.id
			GROUP BY g.id
			ORDER BY count DESC, g.name
			LIMIT ?
		`, n)
	}
	var counts []GenreCount
	err := query.Scan(&counts).Error
	return counts, err
}

// AverageRating averages the ratings of all rated books; zero when nothing
// has been rated yet.
func (r *Repository) AverageRating() (float64, error) {
	var avg *float64
	err := r.db.Raw(`SELECT AVG(rating) FROM books WHERE rating > 0`).Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}

// CompletedThisYear counts books completed within the current calendar
// year.
func (r *Repository) CompletedThisYear(today time.Time) (int64, error) {
	var count int64
	err := r.db.Raw(`
		SELECT COUNT(*) FROM tbr_list
		WHERE date_completed IS NOT NULL
		AND strftime('%Y', date_completed) = ?
	`, today.Format("2006")).Scan(&count).Error
	return count, err
}

// PagesRead sums the page counts of completed books.
func (r *Repository) PagesRead() (int64, error) {
	var pages *int64
	err := r.db.Raw(`
		SELECT SUM(b.page_count)
		FROM tbr_list t
		JOIN books b ON t.book_id = b.id
		WHERE t.status_id = ?
	`, entities.StatusCompleted).Scan(&pages).Error
	if err != nil || pages == nil {
		return 0, err
	}
	return *pages, nil
}

// MonthlyCompletions returns completion counts for the trailing six
// months, oldest first, with empty months reported as zero.
func (r *Repository) MonthlyCompletions(today time.Time) ([]MonthCount, error) {
	var rows []MonthCount
	err := r.db.Raw(`
		SELECT strftime('%Y-%m', date_completed) AS month, COUNT(*) AS count
		FROM tbr_list
		WHERE date_completed IS NOT NULL
		GROUP BY month
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byMonth := make(map[string]int64, len(rows))
	for _, row := range rows {
		byMonth[row.Month] = row.Count
	}

	months := make([]MonthCount, 0, 6)
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 5; i >= 0; i-- {
		m := first.AddDate(0, -i, 0)
		key := m.Format("2006-01")
		months = append(months, MonthCount{Month: key, Count: byMonth[key]})
	}
	return months, nil
}

// Summarize bundles all the aggregate queries into one payload.
func (r *Repository) Summarize(today time.Time) (*Summary, error) {
	summary := &Summary{}
	var err error

	if summary.TotalBooks, err = r.TotalBooks(); err != nil {
		return nil, err
	}
	if summary.ByStatus, err = r.CountByStatus(); err != nil {
		return nil, err
	}
	if summary.TopGenres, err = r.CountByGenre(5); err != nil {
		return nil, err
	}
	if summary.AverageRating, err = r.AverageRating(); err != nil {
		return nil, err
	}
	if summary.CompletedThisYear, err = r.CompletedThisYear(today); err != nil {
		return nil, err
	}
	if summary.PagesRead, err = r.PagesRead(); err != nil {
		return nil, err
	}
	if summary.MonthlyCompletions, err = r.MonthlyCompletions(today); err != nil {
		return nil, err
	}
	return summary, nil
}

// Recommend finds genres and authors averaging above three stars across
// more than one rated book (top three of each), then suggests up to five
// To Read books matching them, most urgent first.
func (r *Repository) Recommend() (*Recommendations, error) {
	recs := &Recommendations{
		FavoriteGenres:  []RatedGroup{},
		FavoriteAuthors: []RatedGroup{},
		Suggested:       []Suggestion{},
	}

	err := r.db.Raw(`
		SELECT g.name AS name, AVG(b.rating) AS average_rating, COUNT(*) AS rated_books
		FROM books b
		JOIN genres g ON b.genre_id = g.id
		WHERE b.rating > 0
		GROUP BY g.id
		HAVING COUNT(*) > 1 AND AVG(b.rating) > 3
		ORDER BY average_rating DESC
		LIMIT 3
	`).Scan(&recs.FavoriteGenres).Error
	if err != nil {
		return nil, err
	}

	err = r.db.Raw(`
		SELECT a.name AS name, AVG(b.rating) AS average_rating, COUNT(*) AS rated_books
		FROM books b
		JOIN authors a ON b.author_id = a.id
		WHERE b.rating > 0
		GROUP BY a.id
		HAVING COUNT(*) > 1 AND AVG(b.rating) > 3
		ORDER BY average_rating DESC
		LIMIT 3
	`).Scan(&recs.FavoriteAuthors).Error
	if err != nil {
		return nil, err
	}

	if len(recs.FavoriteGenres) == 0 && len(recs.FavoriteAuthors) == 0 {
		return recs, nil
	}

	genreNames := make([]string, 0, len(recs.FavoriteGenres))
	for _, g := range recs.FavoriteGenres {
		genreNames = append(genreNames, g.Name)
	}
	authorNames := make([]string, 0, len(recs.FavoriteAuthors))
	for _, a := range recs.FavoriteAuthors {
		authorNames = append(authorNames, a.Name)
	}
	// IN () is invalid SQL; give empty sets an impossible placeholder.
	if len(genreNames) == 0 {
		genreNames = []string{""}
	}
	if len(authorNames) == 0 {
		authorNames = []string{""}
	}

	err = r.db.Raw(`
		SELECT t.id AS tbr_id, b.title AS title, a.name AS author,
		       g.name AS genre, t.priority AS priority
		FROM tbr_list t
		JOIN books b ON t.book_id = b.id
		JOIN authors a ON b.author_id = a.id
		JOIN genres g ON b.genre_id = g.id
		WHERE t.status_id = ? AND (g.name IN ? OR a.name IN ?)
		ORDER BY t.priority DESC, t.id DESC
		LIMIT 5
	`, entities.StatusToRead, genreNames, authorNames).Scan(&recs.Suggested).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}
