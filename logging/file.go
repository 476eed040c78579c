package logging

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// FileWriter appends log lines to a file and rotates it by size or age.
// Rotated files are gzip compressed and only the newest maxFiles are kept.
type FileWriter struct {
	mu           sync.Mutex
	dir          string
	filename     string
	maxSize      int64
	maxAge       time.Duration
	maxFiles     int
	current      *os.File
	currentSize  int64
	lastRotation time.Time
	now          func() time.Time
}

// NewFileWriter opens dir/filename for appending.
func NewFileWriter(dir, filename string, maxSizeMB, maxFiles int) (*FileWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	if maxFiles <= 0 {
		maxFiles = 5
	}

	fw := &FileWriter{
		dir:      dir,
		filename: filename,
		maxSize:  int64(maxSizeMB) * 1024 * 1024,
		maxAge:   24 * time.Hour,
		maxFiles: maxFiles,
		now:      time.Now,
	}
	fw.lastRotation = fw.now()
	if err := fw.open(); err != nil {
		return nil, err
	}
	return fw, nil
}

// Path returns the location of the active log file.
func (fw *FileWriter) Path() string {
	return filepath.Join(fw.dir, fw.filename)
}

func (fw *FileWriter) open() error {
	f, err := os.OpenFile(fw.Path(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat log file: %w", err)
	}
	fw.current = f
	fw.currentSize = info.Size()
	return nil
}

func (fw *FileWriter) Write(p []byte) (int, error) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.current == nil {
		return 0, os.ErrClosed
	}
	if fw.currentSize > 0 && (fw.currentSize+int64(len(p)) > fw.maxSize || fw.now().Sub(fw.lastRotation) > fw.maxAge) {
		if err := fw.rotate(); err != nil {
			return 0, err
		}
	}
	n, err := fw.current.Write(p)
	fw.currentSize += int64(n)
	return n, err
}

func (fw *FileWriter) rotate() error {
	if err := fw.current.Close(); err != nil {
		return fmt.Errorf("close current file: %w", err)
	}
	rotated := fmt.Sprintf("%s.%s", fw.Path(), fw.now().Format("20060102-150405.000000000"))
	if err := os.Rename(fw.Path(), rotated); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("rename log file: %w", err)
	}
	if err := compressFile(rotated); err != nil {
		return err
	}
	fw.prune()
	fw.lastRotation = fw.now()
	return fw.open()
}

func compressFile(path string) error {
	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open rotated log: %w", err)
	}
	defer in.Close()

	out, err := os.Create(path + ".gz")
	if err != nil {
		return fmt.Errorf("create compressed log: %w", err)
	}
	gz := gzip.NewWriter(out)
	_, copyErr := io.Copy(gz, in)
	closeErr := gz.Close()
	out.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(path + ".gz")
		return fmt.Errorf("compress log: %v %v", copyErr, closeErr)
	}
	return os.Remove(path)
}

// prune removes the oldest rotated files beyond maxFiles. Rotated names sort by time.
func (fw *FileWriter) prune() {
	matches, err := filepath.Glob(fw.Path() + ".*.gz")
	if err != nil || len(matches) <= fw.maxFiles {
		return
	}
	sort.Strings(matches)
	for _, path := range matches[:len(matches)-fw.maxFiles] {
		os.Remove(path)
	}
}

// Close closes the active file.
func (fw *FileWriter) Close() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.current == nil {
		return nil
	}
	err := fw.current.Close()
	fw.current = nil
	return err
}
