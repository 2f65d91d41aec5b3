package common

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"

	"careerfit/internal/errors"
	"careerfit/internal/utils"
)

// FileProcessor handles common file operations
type FileProcessor struct {
	logger      *errors.Logger
	maxFileSize int64
}

// NewFileProcessor creates a new file processor instance. A non-positive
// maxFileSize disables the size check.
func NewFileProcessor(logger *errors.Logger, maxFileSize int64) *FileProcessor {
	return &FileProcessor{logger: logger, maxFileSize: maxFileSize}
}

// ReadFile reads content from a file with proper error handling
func (fp *FileProcessor) ReadFile(filename string) ([]byte, error) {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	defer func() {
		if err := file.Close(); err != nil && fp.logger != nil {
			fp.logger.Warn("Failed to close file", "filename", filename, "error", err)
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", filename), err)
	}

	return content, nil
}

// WriteFile writes content to a file with directory creation
func (fp *FileProcessor) WriteFile(filename, content string) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	if err := os.WriteFile(filename, []byte(content), 0600); err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}

	return nil
}

// ValidateAndReadFile checks the size limit and reads one input file
func (fp *FileProcessor) ValidateAndReadFile(filename string) ([]byte, error) {
	if _, err := utils.CheckInputFile(filename, fp.maxFileSize); err != nil {
		switch {
		case utils.IsNotExist(err):
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		case stderrors.Is(err, utils.ErrFileTooBig), stderrors.Is(err, utils.ErrNotRegular), stderrors.Is(err, utils.ErrNoFileName):
			return nil, errors.NewInvalidInputError(err.Error(), err)
		default:
			return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
				fmt.Sprintf("Cannot access file: %s", filename), err)
		}
	}

	if !utils.IsJSONFile(filename) && fp.logger != nil {
		fp.logger.Warn("Input file does not have a .json extension", "filename", filename)
	}

	return fp.ReadFile(filename)
}

// ValidateOutputFile prepares the output path. Empty means stdout.
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if err := utils.PrepareOutputFile(filename); err != nil {
		return errors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}
	return nil
}

// DecodeJSON decodes data into T and rejects unknown fields. Struct types
// also have their validate tags checked.
func DecodeJSON[T any](data []byte) (T, error) {
	var out T
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return out, errors.NewInvalidInputError("malformed JSON input", err)
	}
	if reflect.TypeOf(out).Kind() != reflect.Struct {
		return out, nil
	}
	if err := ValidateStruct(out); err != nil {
		return out, err
	}
	return out, nil
}

// ReadJSONFile reads filename and decodes it with DecodeJSON
func ReadJSONFile[T any](fp *FileProcessor, filename string) (T, error) {
	data, err := fp.ValidateAndReadFile(filename)
	if err != nil {
		var zero T
		return zero, err
	}
	out, err := DecodeJSON[T](data)
	if err != nil {
		return out, fmt.Errorf("%s: %w", filename, err)
	}
	return out, nil
}
