// Package utils holds small filesystem helpers for the CLI input and output
// files.
package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Input file problems, matched with errors.Is
var (
	ErrNoFileName  = errors.New("no file name given")
	ErrNotRegular  = errors.New("not a regular file")
	ErrFileTooBig  = errors.New("file exceeds size limit")
	ErrOutputIsDir = errors.New("output path is a directory")
)

// CheckInputFile stats filename and returns its size. It fails with
// fs.ErrNotExist, ErrNotRegular or ErrFileTooBig (when maxSize is positive)
// wrapped with the file name.
func CheckInputFile(filename string, maxSize int64) (int64, error) {
	if strings.TrimSpace(filename) == "" {
		return 0, ErrNoFileName
	}

	info, err := os.Stat(filename)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", filename, err)
	}
	if !info.Mode().IsRegular() {
		return 0, fmt.Errorf("%s: %w", filename, ErrNotRegular)
	}
	if maxSize > 0 && info.Size() > maxSize {
		return info.Size(), fmt.Errorf("%s is %s, limit is %s: %w",
			filename, FormatFileSize(info.Size()), FormatFileSize(maxSize), ErrFileTooBig)
	}
	return info.Size(), nil
}

// IsNotExist reports whether err comes from a missing file
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// PrepareOutputFile creates the parent directories of filename. An empty
// name means stdout and needs nothing.
func PrepareOutputFile(filename string) error {
	if filename == "" {
		return nil
	}
	if info, err := os.Stat(filename); err == nil && info.IsDir() {
		return fmt.Errorf("%s: %w", filename, ErrOutputIsDir)
	}
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

// IsJSONFile reports whether filename carries a .json or .jsonl extension
func IsJSONFile(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json", ".jsonl":
		return true
	}
	return false
}

// FormatFileSize renders size with a binary unit, e.g. "1.5 MB"
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	value, units := float64(size)/unit, "KMGTPE"
	i := 0
	for value >= unit && i < len(units)-1 {
		value /= unit
		i++
	}
	return fmt.Sprintf("%.1f %cB", value, units[i])
}
