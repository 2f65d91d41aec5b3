package common

import (
	"fmt"
	"io"
	"os"

	"careerfit/internal/errors"
	"careerfit/internal/formatters"
)

// CommandConfig holds the output settings shared by file-based commands
type CommandConfig struct {
	OutputFile   string
	OutputFormat string
	MaxFileSize  int64
	// Stdout receives the output when OutputFile is empty or "-". Nil means
	// os.Stdout.
	Stdout io.Writer
}

func (c CommandConfig) toStdout() bool {
	return c.OutputFile == "" || c.OutputFile == "-"
}

// OutputHandler renders results through the formatter registry
type OutputHandler struct {
	fileProcessor *FileProcessor
	registry      *formatters.FormatterRegistry
	logger        *errors.Logger
}

// NewOutputHandler returns a handler backed by formatters.GlobalRegistry
func NewOutputHandler(logger *errors.Logger) *OutputHandler {
	return &OutputHandler{
		fileProcessor: NewFileProcessor(logger, 0),
		registry:      formatters.GlobalRegistry,
		logger:        logger,
	}
}

// HandleOutput formats data as cfg.OutputFormat and writes it to the output
// file or to stdout.
func (oh *OutputHandler) HandleOutput(data any, cfg CommandConfig) error {
	rendered, err := oh.registry.Format(data, cfg.OutputFormat)
	if err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Failed to format output as %s", cfg.OutputFormat), err)
	}

	if cfg.toStdout() {
		w := cfg.Stdout
		if w == nil {
			w = os.Stdout
		}
		if _, err := fmt.Fprintln(w, rendered); err != nil {
			return errors.NewIOError("STDOUT_WRITE_FAILED", "Cannot write output", err)
		}
		return nil
	}

	if err := oh.fileProcessor.ValidateOutputFile(cfg.OutputFile); err != nil {
		return err
	}
	if err := oh.fileProcessor.WriteFile(cfg.OutputFile, rendered); err != nil {
		return err
	}
	if oh.logger != nil {
		oh.logger.Info("Output written", "file", cfg.OutputFile, "format", cfg.OutputFormat)
	}
	return nil
}
