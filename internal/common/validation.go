package common

import (
	stderrors "errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"careerfit/internal/errors"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateStruct checks the validate tags of v and returns an INVALID_INPUT
// error naming every failing field.
func ValidateStruct(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.NewInvalidInputError("invalid input", err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
	}
	return errors.NewInvalidInputError("invalid fields: "+strings.Join(fields, ", "), err).
		WithContext("fields", fields)
}

// ValidateOutputFormat checks format against supported. An empty supported
// list accepts anything.
func ValidateOutputFormat(format string, supported []string) error {
	if len(supported) == 0 || slices.Contains(supported, format) {
		return nil
	}
	return errors.NewInvalidInputError(
		fmt.Sprintf("unsupported output format %q, supported: %s", format, strings.Join(supported, ", ")), nil).
		WithContext("format", format)
}
