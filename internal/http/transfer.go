package http

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/readkeep/tbrlist/internal/backup"
	"github.com/readkeep/tbrlist/internal/database/books"
	"github.com/readkeep/tbrlist/internal/exporters"
	"github.com/readkeep/tbrlist/internal/importers"
)

// maxImportSize caps the accepted journal upload at 4 MiB.
const maxImportSize = 4 << 20

// EntryLister reads the full reading list for export.
type EntryLister interface {
	ListTBR() ([]books.Entry, error)
}

// JournalImporter reconciles journal text against the store.
type JournalImporter interface {
	Import(text string) (*importers.Result, error)
}

// TransferController serves the export/import/backup endpoints.
type TransferController struct {
	lister    EntryLister
	importer  JournalImporter
	dbPath    string
	backupDir string
}

func NewTransferController(lister EntryLister, importer JournalImporter, dbPath, backupDir string) *TransferController {
	return &TransferController{
		lister:    lister,
		importer:  importer,
		dbPath:    dbPath,
		backupDir: backupDir,
	}
}

// Export handles GET /api/export and returns the journal as plain text.
func (ctrl *TransferController) Export(c *gin.Context) {
	entries, err := ctrl.lister.ListTBR()
	if err != nil {
		respondInternalError(c, err, "export journal")
		return
	}
	journal := exporters.RenderJournal(entries, time.Now())
	c.Header("Content-Disposition", `attachment; filename="reading_journal.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(journal))
}

// Import handles POST /api/import. The journal text arrives either as a
// multipart "file" field or as the raw request body.
func (ctrl *TransferController) Import(c *gin.Context) {
	text, err := readImportText(c)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if text == "" {
		respondBadRequest(c, "empty import")
		return
	}

	result, err := ctrl.importer.Import(text)
	if err != nil {
		respondInternalError(c, err, "import journal")
		return
	}
	c.JSON(http.StatusOK, result)
}

// Backup handles POST /api/backup and snapshots the database file.
func (ctrl *TransferController) Backup(c *gin.Context) {
	path, err := backup.Snapshot(ctrl.dbPath, ctrl.backupDir)
	if err != nil {
		respondInternalError(c, err, "backup database")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "backup_path": path})
}

func readImportText(c *gin.Context) (string, error) {
	if file, err := c.FormFile("file"); err == nil {
		if file.Size > maxImportSize {
			return "", errors.New("import file too large")
		}
		src, err := file.Open()
		if err != nil {
			return "", err
		}
		defer src.Close()
		data, err := io.ReadAll(io.LimitReader(src, maxImportSize))
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportSize))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
