package common

import (
	"context"
	"time"

	"careerfit/internal/errors"
)

// OperationFunc is a generic operation run by a file-based CLI command.
type OperationFunc[Input, Output any] func(context.Context, Input) (Output, error)

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// RunJSONCommand reads a JSON input file into Input, validates it, runs op and
// writes the formatted result.
func RunJSONCommand[Input, Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	inputFile string,
	op OperationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
) error {
	fileProcessor := NewFileProcessor(logger, cmdConfig.MaxFileSize)
	outputHandler := NewOutputHandler(logger)

	input, err := ReadJSONFile[Input](fileProcessor, inputFile)
	if err != nil {
		return err
	}

	if logDetails != nil {
		logDetails(input, cmdConfig)
	}

	start := time.Now()
	result, err := op(ctx, input)
	if err != nil {
		return err
	}
	if logger != nil {
		logger.Debug("Operation finished", "input", inputFile, "duration", time.Since(start))
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}
