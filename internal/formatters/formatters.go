package formatters

import (
	"encoding/json"
	"fmt"
	"sort"

	"careerfit/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})

	register(registry, "RoleWeights", weightsText, weightsMarkdown)
	register(registry, "CareerPathReport", reportText, reportMarkdown)
	register(registry, "CourseRecommendationSet", coursesText, coursesMarkdown)
	register(registry, "LearningPath", learningPathText, learningPathMarkdown)
	register(registry, "RemediationPlan", planText, planMarkdown)
	register(registry, "QuizResult", quizText, quizMarkdown)
	register(registry, "Profile", profileText, profileMarkdown)
	register(registry, "Selections", selectionsText, selectionsMarkdown)

	return registry
}

func register[T any](fr *FormatterRegistry, dataType string, text, markdown func(T) string) {
	fr.RegisterFormatter("text", dataType, typedFormatter[T]{dataType: dataType, render: text})
	fr.RegisterFormatter("markdown", dataType, typedFormatter[T]{dataType: dataType, render: markdown})
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats, sorted
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.RoleWeights:
		return "RoleWeights"
	case types.CareerPathReport:
		return "CareerPathReport"
	case types.CourseRecommendationSet:
		return "CourseRecommendationSet"
	case types.LearningPath:
		return "LearningPath"
	case types.RemediationPlan:
		return "RemediationPlan"
	case types.QuizResult:
		return "QuizResult"
	case types.Profile:
		return "Profile"
	case []types.Selection:
		return "Selections"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// typedFormatter adapts a render function for one concrete type
type typedFormatter[T any] struct {
	dataType string
	render   func(T) string
}

func (tf typedFormatter[T]) Format(data any) (string, error) {
	v, ok := data.(T)
	if !ok {
		return "", fmt.Errorf("expected %s, got %T", tf.dataType, data)
	}
	return tf.render(v), nil
}

func (tf typedFormatter[T]) SupportedType() string {
	return tf.dataType
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
