package stats

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readkeep/tbrlist/internal/database"
	"github.com/readkeep/tbrlist/internal/database/books"
	"github.com/readkeep/tbrlist/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *books.Repository, func()) {
	t.Helper()
	dbPath := "./test_stats_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return NewRepository(db.DB), books.NewRepository(db.DB), cleanup
}

// addRated inserts a book with the given status and rating via the books
// repository, mirroring how the data arrives in production.
func addRated(t *testing.T, repo *books.Repository, fields books.NewBook, rating int) uint {
	t.Helper()
	bookID, err := repo.AddBook(fields)
	require.NoError(t, err)
	if rating > 0 {
		tbrID, err := repo.EntryIDForBook(bookID)
		require.NoError(t, err)
		require.NoError(t, repo.UpdateRating(tbrID, rating))
	}
	return bookID
}

func TestSummarize(t *testing.T) {
	t.Run("empty database", func(t *testing.T) {
		statsRepo, _, cleanup := setupTestDB(t)
		defer cleanup()

		summary, err := statsRepo.Summarize(database.Today())
		require.NoError(t, err)
		assert.Zero(t, summary.TotalBooks)
		assert.Empty(t, summary.ByStatus)
		assert.Empty(t, summary.TopGenres)
		assert.Zero(t, summary.AverageRating)
		assert.Zero(t, summary.CompletedThisYear)
		assert.Zero(t, summary.PagesRead)
		assert.Len(t, summary.MonthlyCompletions, 6)
		for _, month := range summary.MonthlyCompletions {
			assert.Zero(t, month.Count)
		}
	})

	t.Run("aggregates statuses, genres and pages", func(t *testing.T) {
		statsRepo, bookRepo, cleanup := setupTestDB(t)
		defer cleanup()

		firstID := addRated(t, bookRepo, books.NewBook{Title: "A", AuthorName: "X", Genre: "Sci-Fi", PageCount: 200}, 4)
		addRated(t, bookRepo, books.NewBook{Title: "B", AuthorName: "Y", Genre: "Sci-Fi", PageCount: 300}, 0)
		addRated(t, bookRepo, books.NewBook{Title: "C", AuthorName: "Z", Genre: "Fantasy", PageCount: 400}, 2)

		// Complete the first book.
		tbrID, err := bookRepo.EntryIDForBook(firstID)
		require.NoError(t, err)
		require.NoError(t, bookRepo.UpdateStatus(tbrID, entities.StatusCompleted))

		today := database.Today()
		summary, err := statsRepo.Summarize(today)
		require.NoError(t, err)

		assert.Equal(t, int64(3), summary.TotalBooks)
		assert.InDelta(t, 3.0, summary.AverageRating, 0.001)
		assert.Equal(t, int64(1), summary.CompletedThisYear)
		assert.Equal(t, int64(200), summary.PagesRead)

		byStatus := map[string]int64{}
		for _, row := range summary.ByStatus {
			byStatus[row.Status] = row.Count
		}
		assert.Equal(t, int64(1), byStatus["Completed"])
		assert.Equal(t, int64(2), byStatus["To Read"])

		require.NotEmpty(t, summary.TopGenres)
		assert.Equal(t, "Sci-Fi", summary.TopGenres[0].Genre)
		assert.Equal(t, int64(2), summary.TopGenres[0].Count)

		// The completion lands in the current month bucket.
		last := summary.MonthlyCompletions[len(summary.MonthlyCompletions)-1]
		assert.Equal(t, today.Format("2006-01"), last.Month)
		assert.Equal(t, int64(1), last.Count)
	})
}

func TestRecommend(t *testing.T) {
	t.Run("nothing rated yields empty sets", func(t *testing.T) {
		statsRepo, bookRepo, cleanup := setupTestDB(t)
		defer cleanup()

		addRated(t, bookRepo, books.NewBook{Title: "A", AuthorName: "X", Genre: "Sci-Fi"}, 0)

		recs, err := statsRepo.Recommend()
		require.NoError(t, err)
		assert.Empty(t, recs.FavoriteGenres)
		assert.Empty(t, recs.FavoriteAuthors)
		assert.Empty(t, recs.Suggested)
	})

	t.Run("a single rated book is not a favorite", func(t *testing.T) {
		statsRepo, bookRepo, cleanup := setupTestDB(t)
		defer cleanup()

		addRated(t, bookRepo, books.NewBook{Title: "A", AuthorName: "X", Genre: "Sci-Fi"}, 5)

		recs, err := statsRepo.Recommend()
		require.NoError(t, err)
		assert.Empty(t, recs.FavoriteGenres)
	})

	t.Run("suggests unread books from favored genres", func(t *testing.T) {
		statsRepo, bookRepo, cleanup := setupTestDB(t)
		defer cleanup()

		// Two highly rated Sci-Fi books make the genre a favorite.
		addRated(t, bookRepo, books.NewBook{Title: "Loved One", AuthorName: "X", Genre: "Sci-Fi"}, 5)
		addRated(t, bookRepo, books.NewBook{Title: "Loved Two", AuthorName: "Y", Genre: "Sci-Fi"}, 4)
		// Two low-rated Fantasy books do not.
		addRated(t, bookRepo, books.NewBook{Title: "Meh One", AuthorName: "P", Genre: "Fantasy"}, 2)
		addRated(t, bookRepo, books.NewBook{Title: "Meh Two", AuthorName: "Q", Genre: "Fantasy"}, 2)
		// Unread candidates.
		addRated(t, bookRepo, books.NewBook{Title: "Queued Sci-Fi", AuthorName: "Z", Genre: "Sci-Fi", Priority: 9}, 0)
		addRated(t, bookRepo, books.NewBook{Title: "Queued Fantasy", AuthorName: "R", Genre: "Fantasy"}, 0)

		recs, err := statsRepo.Recommend()
		require.NoError(t, err)

		require.Len(t, recs.FavoriteGenres, 1)
		assert.Equal(t, "Sci-Fi", recs.FavoriteGenres[0].Name)
		assert.InDelta(t, 4.5, recs.FavoriteGenres[0].AverageRating, 0.001)
		assert.Equal(t, int64(2), recs.FavoriteGenres[0].RatedBooks)

		assert.Empty(t, recs.FavoriteAuthors)

		require.Len(t, recs.Suggested, 1)
		assert.Equal(t, "Queued Sci-Fi", recs.Suggested[0].Title)
		assert.Equal(t, 9, recs.Suggested[0].Priority)
	})
}
