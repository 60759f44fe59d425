// file: internal/backup/backup.go
// version: 2.0.0
// guid: 8f9e0a1b-2c3d-4e5f-6a7b-8c9d0e1f2a3b

// Package backup archives the export history database as .tar.gz files.
package backup

import (
	"archive/tar"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	filePrefix     = "history_"
	fileSuffix     = ".tar.gz"
	checksumSuffix = ".sha256"
	timeLayout     = "20060102T150405.000Z"
)

var (
	// ErrChecksumMismatch means the archive no longer matches its sidecar
	// checksum file.
	ErrChecksumMismatch = errors.New("backup checksum mismatch")
	// ErrUnsafePath is returned for archive entries that would escape the
	// restore directory.
	ErrUnsafePath = errors.New("archive entry escapes target directory")
)

// BackupInfo describes one archive in the backup directory.
type BackupInfo struct {
	Filename  string    `json:"filename"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
}

// BackupConfig holds backup configuration
type BackupConfig struct {
	BackupDir        string
	MaxBackups       int
	CompressionLevel int
	Now              func() time.Time
}

// DefaultBackupConfig returns default backup configuration
func DefaultBackupConfig() BackupConfig {
	return BackupConfig{
		BackupDir:        "backups",
		MaxBackups:       10,
		CompressionLevel: gzip.BestCompression,
	}
}

func (c BackupConfig) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// CreateBackup archives the history database directory at databasePath,
// writes a checksum sidecar and trims the directory to MaxBackups.
// The database should be closed, or at least idle, while it is copied.
func CreateBackup(databasePath string, config BackupConfig) (*BackupInfo, error) {
	info, err := os.Stat(databasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat database path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("database path %s is not a directory", databasePath)
	}
	if err := os.MkdirAll(config.BackupDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	created := config.now().UTC()
	filename := filePrefix + created.Format(timeLayout) + fileSuffix
	backupPath := filepath.Join(config.BackupDir, filename)

	if err := writeArchive(backupPath, databasePath, config.CompressionLevel); err != nil {
		_ = os.Remove(backupPath)
		return nil, err
	}

	fileInfo, err := os.Stat(backupPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat backup file: %w", err)
	}
	checksum, err := calculateFileChecksum(backupPath)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate checksum: %w", err)
	}
	if err := os.WriteFile(backupPath+checksumSuffix, []byte(checksum+"  "+filename+"\n"), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write checksum file: %w", err)
	}

	if config.MaxBackups > 0 {
		if err := cleanupOldBackups(config.BackupDir, config.MaxBackups); err != nil {
			log.Printf("[WARN] failed to clean up old backups: %v", err)
		}
	}

	return &BackupInfo{
		Filename:  filename,
		Path:      backupPath,
		Size:      fileInfo.Size(),
		Checksum:  checksum,
		CreatedAt: created,
	}, nil
}

func writeArchive(backupPath, databasePath string, level int) error {
	backupFile, err := os.Create(backupPath)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer backupFile.Close()

	gzipWriter, err := gzip.NewWriterLevel(backupFile, level)
	if err != nil {
		return fmt.Errorf("failed to create gzip writer: %w", err)
	}
	tarWriter := tar.NewWriter(gzipWriter)

	if err := addToArchive(tarWriter, databasePath); err != nil {
		return fmt.Errorf("failed to add files to archive: %w", err)
	}
	if err := tarWriter.Close(); err != nil {
		return fmt.Errorf("failed to close tar writer: %w", err)
	}
	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("failed to close gzip writer: %w", err)
	}
	return backupFile.Close()
}

// addToArchive stores every file under root with paths relative to root.
func addToArchive(tarWriter *tar.Writer, root string) error {
	return filepath.Walk(root, func(file string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(root, file)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}

		header, err := tar.FileInfoHeader(fi, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(relPath)
		if err := tarWriter.WriteHeader(header); err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}

		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tarWriter, f)
		return err
	})
}

// RestoreBackup unpacks backupPath into targetPath, which must not already
// hold a database. With verify set the archive is checked against its
// checksum sidecar first.
func RestoreBackup(backupPath, targetPath string, verify bool) error {
	if verify {
		if err := VerifyBackup(backupPath); err != nil {
			return err
		}
	}
	if entries, err := os.ReadDir(targetPath); err == nil && len(entries) > 0 {
		return fmt.Errorf("restore target %s is not empty", targetPath)
	}

	backupFile, err := os.Open(backupPath)
	if err != nil {
		return fmt.Errorf("failed to open backup file: %w", err)
	}
	defer backupFile.Close()

	gzipReader, err := gzip.NewReader(backupFile)
	if err != nil {
		return fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	if err := os.MkdirAll(targetPath, 0o755); err != nil {
		return fmt.Errorf("failed to create restore directory: %w", err)
	}
	root := filepath.Clean(targetPath)

	tarReader := tar.NewReader(gzipReader)
	for {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read tar header: %w", err)
		}

		target := filepath.Join(root, filepath.FromSlash(header.Name))
		if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return fmt.Errorf("%w: %s", ErrUnsafePath, header.Name)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := extractFile(tarReader, target, os.FileMode(header.Mode).Perm()); err != nil {
				return err
			}
		default:
			log.Printf("[WARN] skipping unsupported entry %s (type %d)", header.Name, header.Typeflag)
		}
	}
	return nil
}

func extractFile(r io.Reader, target string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", target, err)
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode|0o200)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", target, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("failed to write file %s: %w", target, err)
	}
	return out.Close()
}

// VerifyBackup compares backupPath with the checksum recorded next to it.
func VerifyBackup(backupPath string) error {
	data, err := os.ReadFile(backupPath + checksumSuffix)
	if err != nil {
		return fmt.Errorf("failed to read checksum file: %w", err)
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return fmt.Errorf("%w: empty checksum file", ErrChecksumMismatch)
	}
	actual, err := calculateFileChecksum(backupPath)
	if err != nil {
		return fmt.Errorf("failed to calculate checksum: %w", err)
	}
	if actual != fields[0] {
		return ErrChecksumMismatch
	}
	return nil
}

// ListBackups returns the archives in backupDir, oldest first.
func ListBackups(backupDir string) ([]BackupInfo, error) {
	var backups []BackupInfo

	entries, err := os.ReadDir(backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return backups, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		created, err := time.Parse(timeLayout, strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix))
		if err != nil {
			created = info.ModTime()
		}
		backupPath := filepath.Join(backupDir, name)
		checksum, _ := calculateFileChecksum(backupPath)

		backups = append(backups, BackupInfo{
			Filename:  name,
			Path:      backupPath,
			Size:      info.Size(),
			Checksum:  checksum,
			CreatedAt: created,
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.Before(backups[j].CreatedAt)
	})
	return backups, nil
}

// DeleteBackup removes an archive and its checksum file.
func DeleteBackup(backupPath string) error {
	if err := os.Remove(backupPath); err != nil {
		return fmt.Errorf("failed to delete backup: %w", err)
	}
	if err := os.Remove(backupPath + checksumSuffix); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete checksum file: %w", err)
	}
	return nil
}

func calculateFileChecksum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

func cleanupOldBackups(backupDir string, maxBackups int) error {
	backups, err := ListBackups(backupDir)
	if err != nil {
		return err
	}
	for i := 0; i < len(backups)-maxBackups; i++ {
		if err := DeleteBackup(backups[i].Path); err != nil {
			log.Printf("[WARN] failed to delete old backup %s: %v", backups[i].Filename, err)
		}
	}
	return nil
}
