package ai

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
	"google.golang.org/genai"
)

// JSON Schemas checked against extracted fragments before decoding. They
// mirror the response schemas sent to the oracle, which the oracle may
// ignore.
const (
	weightsSchemaJSON = `{
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["skill", "weight"],
    "properties": {
      "skill": {"type": "string", "minLength": 1},
      "weight": {"type": "number", "minimum": 0}
    }
  }
}`

	coursesSchemaJSON = `{
  "type": "object",
  "required": ["beginner", "intermediate", "advanced"],
  "definitions": {
    "courses": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title", "platform", "description", "skill", "duration"],
        "properties": {
          "title": {"type": "string", "minLength": 1},
          "platform": {"type": "string"},
          "description": {"type": "string"},
          "skill": {"type": "string"},
          "duration": {"type": "string"}
        }
      }
    }
  },
  "properties": {
    "beginner": {"$ref": "#/definitions/courses"},
    "intermediate": {"$ref": "#/definitions/courses"},
    "advanced": {"$ref": "#/definitions/courses"}
  }
}`

	learningPathSchemaJSON = `{
  "type": "object",
  "required": ["timeline", "certification", "communityEngagement"],
  "definitions": {
    "strings": {"type": "array", "items": {"type": "string"}}
  },
  "properties": {
    "timeline": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["phase", "duration", "skills"],
        "properties": {
          "phase": {"type": "string", "minLength": 1},
          "duration": {"type": "string"},
          "skills": {"$ref": "#/definitions/strings"},
          "projects": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["name"],
              "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "skills": {"$ref": "#/definitions/strings"}
              }
            }
          },
          "resources": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["title"],
              "properties": {
                "title": {"type": "string"},
                "type": {"type": "string"},
                "url": {"type": "string"}
              }
            }
          },
          "milestones": {"$ref": "#/definitions/strings"}
        }
      }
    },
    "certification": {
      "type": "object",
      "properties": {
        "recommended": {"$ref": "#/definitions/strings"},
        "optional": {"$ref": "#/definitions/strings"}
      }
    },
    "communityEngagement": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "platform": {"type": "string"},
          "activity": {"type": "string"},
          "benefit": {"type": "string"}
        }
      }
    }
  }
}`
)

var (
	weightsSchema      = mustSchema("weights", weightsSchemaJSON)
	coursesSchema      = mustSchema("courses", coursesSchemaJSON)
	learningPathSchema = mustSchema("learning path", learningPathSchemaJSON)
)

func mustSchema(name, source string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
	if err != nil {
		panic(fmt.Sprintf("invalid %s schema: %v", name, err))
	}
	return schema
}

func stringArray() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
}

// weightsResponseSchema asks for [{skill, weight}]
func weightsResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"skill":  {Type: genai.TypeString},
				"weight": {Type: genai.TypeNumber},
			},
			Required: []string{"skill", "weight"},
		},
	}
}

// coursesResponseSchema asks for {beginner, intermediate, advanced}
func coursesResponseSchema() *genai.Schema {
	course := &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"title":       {Type: genai.TypeString},
				"platform":    {Type: genai.TypeString},
				"description": {Type: genai.TypeString},
				"skill":       {Type: genai.TypeString},
				"duration":    {Type: genai.TypeString},
			},
			Required: []string{"title", "platform", "description", "skill", "duration"},
		},
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"beginner":     course,
			"intermediate": course,
			"advanced":     course,
		},
		Required: []string{"beginner", "intermediate", "advanced"},
	}
}

// learningPathResponseSchema asks for {timeline, certification, communityEngagement}
func learningPathResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"timeline": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"phase":    {Type: genai.TypeString},
						"duration": {Type: genai.TypeString},
						"skills":   stringArray(),
						"projects": {
							Type: genai.TypeArray,
							Items: &genai.Schema{
								Type: genai.TypeObject,
								Properties: map[string]*genai.Schema{
									"name":        {Type: genai.TypeString},
									"description": {Type: genai.TypeString},
									"skills":      stringArray(),
								},
								Required: []string{"name", "description", "skills"},
							},
						},
						"resources": {
							Type: genai.TypeArray,
							Items: &genai.Schema{
								Type: genai.TypeObject,
								Properties: map[string]*genai.Schema{
									"title": {Type: genai.TypeString},
									"type":  {Type: genai.TypeString},
									"url":   {Type: genai.TypeString},
								},
								Required: []string{"title", "type", "url"},
							},
						},
						"milestones": stringArray(),
					},
					Required: []string{"phase", "duration", "skills", "projects", "resources", "milestones"},
				},
			},
			"certification": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"recommended": stringArray(),
					"optional":    stringArray(),
				},
				Required: []string{"recommended", "optional"},
			},
			"communityEngagement": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"platform": {Type: genai.TypeString},
						"activity": {Type: genai.TypeString},
						"benefit":  {Type: genai.TypeString},
					},
					Required: []string{"platform", "activity", "benefit"},
				},
			},
		},
		Required: []string{"timeline", "certification", "communityEngagement"},
	}
}
