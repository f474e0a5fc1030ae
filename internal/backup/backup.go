// Package backup snapshots the database file to timestamped copies.
// Retention and restore are left to the operator; the tracker only writes
// the copy.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Snapshot copies the database file into dir as
// tbrlist-YYYYMMDD-HHMMSS.db and returns the path of the copy. The
// destination directory is created if missing.
func Snapshot(dbPath, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	src, err := os.Open(dbPath)
	if err != nil {
		return "", fmt.Errorf("failed to open database file: %w", err)
	}
	defer src.Close()

	name := fmt.Sprintf("tbrlist-%s.db", time.Now().Format("20060102-150405"))
	dstPath := filepath.Join(dir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dstPath)
		return "", fmt.Errorf("failed to copy database: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	return dstPath, nil
}
