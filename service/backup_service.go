package service

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// BackupService archives the SQLite database file and the local blob
// directory into one zip. It is only wired for the sqlite + local
// storage deployment; other configurations have their own backup
// story (managed Postgres, S3 versioning).
type BackupService struct {
	dbPath  string
	blobDir string
}

// NewBackupService creates a new backup service
func NewBackupService(dbPath, blobDir string) *BackupService {
	return &BackupService{dbPath: dbPath, blobDir: blobDir}
}

// WriteArchive streams the backup zip: the database file at the
// archive root, blobs under files/. The database is read as a plain
// file, so the snapshot is only as consistent as SQLite's WAL leaves
// it; for this workload that is acceptable.
func (s *BackupService) WriteArchive(w io.Writer) error {
	zw := zip.NewWriter(w)

	if err := s.addFile(zw, s.dbPath, filepath.Base(s.dbPath)); err != nil {
		return err
	}

	entries, err := os.ReadDir(s.blobDir)
	if err != nil {
		if os.IsNotExist(err) {
			return zw.Close()
		}
		return fmt.Errorf("could not read blob directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if err := s.addFile(zw, filepath.Join(s.blobDir, name), "files/"+name); err != nil {
			return err
		}
	}

	return zw.Close()
}

func (s *BackupService) addFile(zw *zip.Writer, path, name string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open %s: %w", path, err)
	}
	defer file.Close()

	entry, err := zw.Create(name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(entry, file); err != nil {
		return fmt.Errorf("could not archive %s: %w", path, err)
	}
	return nil
}
