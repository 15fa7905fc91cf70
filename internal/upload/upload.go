// Package upload stores user-submitted files on local disk.
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"bazaarwale-backend/internal/apperror"
)

var allowedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"image/gif":       true,
	"image/avif":      true,
	"image/svg+xml":   true,
	"application/pdf": true,
}

var safeFolderPattern = regexp.MustCompile(`^[a-zA-Z0-9-_]+$`)

// Store writes uploads under a root directory, optionally inside a
// caller-chosen subfolder.
type Store struct {
	root    string
	maxSize int64
}

func NewStore(root string, maxSize int64) *Store {
	return &Store{root: root, maxSize: maxSize}
}

func (s *Store) Root() string { return s.root }

// SafeFolder validates a folder query parameter. Anything outside the
// allow-listed character set collapses to the root.
func SafeFolder(folder string) string {
	folder = strings.TrimSpace(folder)
	if folder == "" || !safeFolderPattern.MatchString(folder) {
		return ""
	}
	return folder
}

// Save validates and writes a multipart file, returning the path relative to
// the upload root.
func (s *Store) Save(header *multipart.FileHeader, folder string) (string, error) {
	if header.Size > s.maxSize {
		return "", apperror.Newf(http.StatusBadRequest, "File exceeds the %dMB size limit", s.maxSize>>20)
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	mimeType, err := sniffMime(src, header)
	if err != nil {
		return "", err
	}
	if !allowedMimeTypes[mimeType] {
		return "", apperror.New(http.StatusBadRequest, "Unsupported file type")
	}

	dir := s.root
	if safe := SafeFolder(folder); safe != "" {
		dir = filepath.Join(s.root, safe)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	ext := filepath.Ext(header.Filename)
	base := strings.ReplaceAll(strings.TrimSuffix(filepath.Base(header.Filename), ext), " ", "-")
	name := fmt.Sprintf("%s-%s%s", base, uuid.NewString()[:8], ext)

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	rel, err := filepath.Rel(s.root, filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to resolve upload path: %w", err)
	}
	return filepath.ToSlash(rel), nil
}

// sniffMime prefers content sniffing over the client-declared type, except
// for SVG and PDF which http.DetectContentType cannot identify reliably.
func sniffMime(src multipart.File, header *multipart.FileHeader) (string, error) {
	declared := header.Header.Get("Content-Type")
	if declared == "image/svg+xml" || declared == "application/pdf" || declared == "image/avif" {
		return declared, nil
	}

	buf := make([]byte, 512)
	n, err := src.Read(buf)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind upload: %w", err)
	}
	return strings.Split(http.DetectContentType(buf[:n]), ";")[0], nil
}
