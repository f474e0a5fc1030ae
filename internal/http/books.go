package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/readkeep/tbrlist/internal/database/books"
	"github.com/readkeep/tbrlist/internal/entities"
)

// BookStore is the reading-list surface the book endpoints require.
type BookStore interface {
	AddBook(fields books.NewBook) (uint, error)
	UpdateBook(bookID uint, fields books.BookUpdate) error
	DeleteBook(bookID uint) error
	ClearAll() error
	UpdateStatus(tbrID uint, statusID uint) error
	UpdateRating(tbrID uint, rating int) error
	ListTBR() ([]books.Entry, error)
	SearchBooks(query string) ([]books.Entry, error)
	ListAuthors() ([]entities.Author, error)
	ListGenres() ([]entities.Genre, error)
	ListStatuses() ([]entities.ReadingStatus, error)
}

type BooksController struct {
	store BookStore
}

func NewBooksController(store BookStore) *BooksController {
	return &BooksController{store: store}
}

type addBookRequest struct {
	Title           string `json:"title" binding:"required"`
	AuthorName      string `json:"author_name" binding:"required"`
	Genre           string `json:"genre"`
	Category        string `json:"category"`
	PageCount       int    `json:"page_count"`
	PublicationYear int    `json:"publication_year"`
	Priority        int    `json:"priority"`
	StatusID        uint   `json:"status_id"`
}

type updateBookRequest struct {
	Title           string `json:"title" binding:"required"`
	AuthorName      string `json:"author_name" binding:"required"`
	Genre           string `json:"genre"`
	Category        string `json:"category"`
	PageCount       int    `json:"page_count"`
	PublicationYear int    `json:"publication_year"`
	Priority        *int   `json:"priority"`
}

type updateStatusRequest struct {
	TBRID    uint `json:"tbr_id" binding:"required"`
	StatusID uint `json:"status_id" binding:"required"`
}

type updateRatingRequest struct {
	TBRID  uint `json:"tbr_id" binding:"required"`
	Rating int  `json:"rating"`
}

// AddBook handles POST /api/book.
func (ctrl *BooksController) AddBook(c *gin.Context) {
	var req addBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title and author_name are required")
		return
	}

	bookID, err := ctrl.store.AddBook(books.NewBook{
		Title:           req.Title,
		AuthorName:      req.AuthorName,
		Genre:           req.Genre,
		Category:        req.Category,
		PageCount:       req.PageCount,
		PublicationYear: req.PublicationYear,
		Priority:        req.Priority,
		StatusID:        req.StatusID,
	})
	if err != nil {
		respondInternalError(c, err, "add book")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "book_id": bookID})
}

// UpdateBook handles PUT /api/book/:id.
func (ctrl *BooksController) UpdateBook(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req updateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title and author_name are required")
		return
	}

	err := ctrl.store.UpdateBook(bookID, books.BookUpdate{
		Title:           req.Title,
		AuthorName:      req.AuthorName,
		Genre:           req.Genre,
		Category:        req.Category,
		PageCount:       req.PageCount,
		PublicationYear: req.PublicationYear,
		Priority:        req.Priority,
	})
	if err != nil {
		respondStoreError(c, err, "book")
		return
	}
	respondSuccess(c, "book updated")
}

// DeleteBook handles DELETE /api/book/:id.
func (ctrl *BooksController) DeleteBook(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.store.DeleteBook(bookID); err != nil {
		respondStoreError(c, err, "book")
		return
	}
	respondSuccess(c, "book deleted")
}

// ListTBR handles GET /api/tbr.
func (ctrl *BooksController) ListTBR(c *gin.Context) {
	entries, err := ctrl.store.ListTBR()
	if err != nil {
		respondInternalError(c, err, "list tbr")
		return
	}
	c.JSON(http.StatusOK, entries)
}

// Search handles GET /api/search?q=.
func (ctrl *BooksController) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondBadRequest(c, "query parameter q is required")
		return
	}
	entries, err := ctrl.store.SearchBooks(query)
	if err != nil {
		respondInternalError(c, err, "search books")
		return
	}
	c.JSON(http.StatusOK, entries)
}

// UpdateStatus handles PUT /api/status.
func (ctrl *BooksController) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "tbr_id and status_id are required")
		return
	}
	if err := ctrl.store.UpdateStatus(req.TBRID, req.StatusID); err != nil {
		respondStoreError(c, err, "tbr entry")
		return
	}
	respondSuccess(c, "status updated")
}

// UpdateRating handles PUT /api/rating.
func (ctrl *BooksController) UpdateRating(c *gin.Context) {
	var req updateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "tbr_id is required")
		return
	}
	if req.Rating < 0 || req.Rating > 5 {
		respondBadRequest(c, "rating must be between 0 and 5")
		return
	}
	if err := ctrl.store.UpdateRating(req.TBRID, req.Rating); err != nil {
		respondStoreError(c, err, "tbr entry")
		return
	}
	respondSuccess(c, "rating updated")
}

// ClearTBR handles POST /api/clear_tbr.
func (ctrl *BooksController) ClearTBR(c *gin.Context) {
	if err := ctrl.store.ClearAll(); err != nil {
		respondInternalError(c, err, "clear tbr")
		return
	}
	respondSuccess(c, "reading list cleared")
}

// ListAuthors handles GET /api/authors.
func (ctrl *BooksController) ListAuthors(c *gin.Context) {
	authors, err := ctrl.store.ListAuthors()
	if err != nil {
		respondInternalError(c, err, "list authors")
		return
	}
	c.JSON(http.StatusOK, authors)
}

// ListGenres handles GET /api/genres.
func (ctrl *BooksController) ListGenres(c *gin.Context) {
	genres, err := ctrl.store.ListGenres()
	if err != nil {
		respondInternalError(c, err, "list genres")
		return
	}
	c.JSON(http.StatusOK, genres)
}

// ListStatuses handles GET /api/statuses.
func (ctrl *BooksController) ListStatuses(c *gin.Context) {
	statuses, err := ctrl.store.ListStatuses()
	if err != nil {
		respondInternalError(c, err, "list statuses")
		return
	}
	c.JSON(http.StatusOK, statuses)
}
