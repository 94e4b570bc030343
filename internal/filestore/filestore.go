// Package filestore keeps uploaded files in a flat directory on local disk.
package filestore

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

var (
	ErrInvalidName = errors.New("invalid file name")
	ErrNotFound    = errors.New("file not found")
)

type Store struct {
	dir string
	now func() time.Time
}

type StoredFile struct {
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	Size         int64     `json:"size"`
	Type         string    `json:"type"`
	UploadTime   time.Time `json:"uploadTime"`
}

type FileInfo struct {
	Filename string    `json:"filename"`
	Size     int64     `json:"size"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
}

func New(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

func (s *Store) Dir() string {
	return s.dir
}

// Save writes r as "<unix-millis>-<base name>" and returns what was stored.
func (s *Store) Save(name, contentType string, r io.Reader) (*StoredFile, error) {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == ".." || strings.TrimSpace(base) == "" {
		return nil, ErrInvalidName
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir failed: %w", err)
	}

	now := s.now()
	filename := fmt.Sprintf("%d-%s", now.UnixMilli(), base)
	path := filepath.Join(s.dir, filename)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create upload file failed: %w", err)
	}

	size, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("write upload file failed: %w", err)
	}

	return &StoredFile{
		Filename:     filename,
		OriginalName: base,
		Size:         size,
		Type:         contentType,
		UploadTime:   now.UTC(),
	}, nil
}

// List returns the regular files in the upload directory, newest first. A missing
// directory is an empty listing.
func (s *Store) List() ([]FileInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []FileInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read upload dir failed: %w", err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Filename: entry.Name(),
			Size:     info.Size(),
			Created:  createdAt(info).UTC(),
			Modified: info.ModTime().UTC(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Modified.After(files[j].Modified)
	})
	return files, nil
}

// Open returns the named upload for reading. The name must be a bare file name.
func (s *Store) Open(filename string) (*os.File, fs.FileInfo, error) {
	path, err := s.path(filename)
	if err != nil {
		return nil, nil, err
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("stat upload file failed: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, nil, ErrNotFound
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open upload file failed: %w", err)
	}
	return f, info, nil
}

func (s *Store) path(filename string) (string, error) {
	if filename == "" || filename == "." || filename == ".." ||
		strings.ContainsAny(filename, `/\`) {
		return "", ErrInvalidName
	}
	return filepath.Join(s.dir, filename), nil
}

// createdAt has no portable birth time to read; modification time stands in.
func createdAt(info fs.FileInfo) time.Time {
	return info.ModTime()
}
