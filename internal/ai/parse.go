package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"careerfit/internal/scoring"
	"careerfit/internal/types"

	"github.com/xeipuuv/gojsonschema"
)

// decodeFragment extracts the first fragment, checks it against schema and
// decodes it into Out.
func decodeFragment[Out any](text string, extract func(string) (string, bool), schema *gojsonschema.Schema) (Out, error) {
	var out Out

	fragment, ok := extract(text)
	if !ok {
		return out, &ParseError{Stage: StageExtract, Err: fmt.Errorf("no JSON fragment in reply")}
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(fragment))
	if err != nil {
		return out, &ParseError{Stage: StageDecode, Err: err}
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return out, &ParseError{Stage: StageSchema, Err: fmt.Errorf("%s", strings.Join(msgs, "; "))}
	}

	if err := json.Unmarshal([]byte(fragment), &out); err != nil {
		return out, &ParseError{Stage: StageDecode, Err: err}
	}
	return out, nil
}

// parseWeights reads a weighting for skills out of an oracle reply
func parseWeights(text string, skills []string) ([]types.WeightedSkill, error) {
	proposed, err := decodeFragment[[]types.WeightedSkill](text, ExtractFirstArray, weightsSchema)
	if err != nil {
		return nil, err
	}
	weights, err := scoring.ReconcileWeights(skills, proposed)
	if err != nil {
		return nil, &ParseError{Stage: StageValidate, Err: err}
	}
	return weights, nil
}

// parseCourses reads a course recommendation set out of an oracle reply
func parseCourses(text string) (types.CourseRecommendationSet, error) {
	set, err := decodeFragment[types.CourseRecommendationSet](text, ExtractFirstObject, coursesSchema)
	if err != nil {
		return types.CourseRecommendationSet{}, err
	}
	if set.Beginner == nil {
		set.Beginner = []types.Course{}
	}
	if set.Intermediate == nil {
		set.Intermediate = []types.Course{}
	}
	if set.Advanced == nil {
		set.Advanced = []types.Course{}
	}
	return set, nil
}

// parseLearningPath reads a learning path out of an oracle reply
func parseLearningPath(text string) (types.LearningPath, error) {
	path, err := decodeFragment[types.LearningPath](text, ExtractFirstObject, learningPathSchema)
	if err != nil {
		return types.LearningPath{}, err
	}

	for i := range path.Timeline {
		p := &path.Timeline[i]
		p.Skills = nonNil(p.Skills)
		p.Milestones = nonNil(p.Milestones)
		if p.Projects == nil {
			p.Projects = []types.Project{}
		}
		for j := range p.Projects {
			p.Projects[j].Skills = nonNil(p.Projects[j].Skills)
		}
		if p.Resources == nil {
			p.Resources = []types.Resource{}
		}
	}
	path.Certification.Recommended = nonNil(path.Certification.Recommended)
	path.Certification.Optional = nonNil(path.Certification.Optional)
	if path.CommunityEngagement == nil {
		path.CommunityEngagement = []types.CommunityEngagement{}
	}
	return path, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
