package types

import (
	"encoding/json"
	"time"
)

// RoleSkillRequirement lists the skills a role requires, in caller order
type RoleSkillRequirement struct {
	Role   string   `json:"role" validate:"required"`
	Skills []string `json:"skills" validate:"required,min=1,unique,dive,required"`
}

// WeightedSkill is a skill with its relative importance for a role
type WeightedSkill struct {
	Skill  string  `json:"skill"`
	Weight float64 `json:"weight"`
}

// RoleWeights holds the weighted skills of one role. A slice of RoleWeights
// keeps the caller's role order, which is the tie-break order for ranking.
type RoleWeights struct {
	Role   string          `json:"role"`
	Skills []WeightedSkill `json:"skills"`
	// Fallback is true when the weights are the equal split used after an
	// oracle failure.
	Fallback bool `json:"-"`
}

// CareerPathResult is the match of a user's skills against a single role
type CareerPathResult struct {
	Role            string   `json:"role"`
	MatchPercentage int      `json:"matchPercentage"`
	MatchedSkills   []string `json:"matchedSkills"`
	MissingSkills   []string `json:"missingSkills"`
	SkillGap        int      `json:"skillGap"`
}

// CareerPathReport is the ranked set of career paths
type CareerPathReport struct {
	CareerPaths []CareerPathResult `json:"careerPaths"`
	TopMatch    *CareerPathResult  `json:"topMatch"`
}

// MatchInput is the input of a full matching run
type MatchInput struct {
	UserSkills []string               `json:"userSkills"`
	Roles      []RoleSkillRequirement `json:"roles" validate:"required,min=1,dive"`
}

// Course is a single course suggestion
type Course struct {
	Title       string `json:"title"`
	Platform    string `json:"platform"`
	Description string `json:"description"`
	Skill       string `json:"skill"`
	Duration    string `json:"duration"`
}

// CourseRecommendationSet groups course suggestions by level
type CourseRecommendationSet struct {
	Beginner     []Course `json:"beginner"`
	Intermediate []Course `json:"intermediate"`
	Advanced     []Course `json:"advanced"`
}

// Empty reports whether the set carries no course at all
func (c CourseRecommendationSet) Empty() bool {
	return len(c.Beginner) == 0 && len(c.Intermediate) == 0 && len(c.Advanced) == 0
}

// EmptyCourseRecommendations returns a set with non-nil empty arrays so it
// serializes as {"beginner":[],"intermediate":[],"advanced":[]}.
func EmptyCourseRecommendations() CourseRecommendationSet {
	return CourseRecommendationSet{
		Beginner:     []Course{},
		Intermediate: []Course{},
		Advanced:     []Course{},
	}
}

// CourseInput is the input for course recommendation
type CourseInput struct {
	Role          string   `json:"role" validate:"required"`
	MissingSkills []string `json:"missingSkills" validate:"required,min=1,dive,required"`
}

// Project is a hands-on project inside a learning phase
type Project struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
}

// Resource is a learning resource inside a learning phase
type Resource struct {
	Title string `json:"title"`
	Type  string `json:"type"`
	URL   string `json:"url"`
}

// Phase is one stage of a learning path
type Phase struct {
	Phase      string     `json:"phase"`
	Duration   string     `json:"duration"`
	Skills     []string   `json:"skills"`
	Projects   []Project  `json:"projects"`
	Resources  []Resource `json:"resources"`
	Milestones []string   `json:"milestones"`
}

// Certification lists recommended and optional certifications
type Certification struct {
	Recommended []string `json:"recommended"`
	Optional    []string `json:"optional"`
}

// CommunityEngagement is a suggested community activity
type CommunityEngagement struct {
	Platform string `json:"platform"`
	Activity string `json:"activity"`
	Benefit  string `json:"benefit"`
}

// LearningPath is a staged roadmap towards a role
type LearningPath struct {
	Timeline            []Phase               `json:"timeline"`
	Certification       Certification         `json:"certification"`
	CommunityEngagement []CommunityEngagement `json:"communityEngagement"`
}

// LearningPathInput is the input for learning path generation
type LearningPathInput struct {
	Role          string   `json:"role" validate:"required"`
	UserSkills    []string `json:"userSkills"`
	MissingSkills []string `json:"missingSkills" validate:"required,min=1,dive,required"`
}

// RemediationPlan bundles the course and learning path answers for a role
type RemediationPlan struct {
	Role         string                  `json:"role"`
	Courses      CourseRecommendationSet `json:"courses"`
	LearningPath LearningPath            `json:"learningPath"`
}

// QuizQuestion is a fixed-answer multiple choice question
type QuizQuestion struct {
	Question           string   `json:"question,omitempty"`
	Options            []string `json:"options,omitempty"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex" validate:"gte=0"`
}

// QuizInput is the input for quiz grading. Answers maps question index to
// the selected option index.
type QuizInput struct {
	Questions []QuizQuestion `json:"questions" validate:"required,min=1,dive"`
	Answers   map[int]int    `json:"answers"`
	// Kind selects the configured threshold: "course" or "application".
	Kind string `json:"kind,omitempty" validate:"omitempty,oneof=course application"`
}

// QuizResult is the graded outcome of a quiz
type QuizResult struct {
	Correct    int  `json:"correct"`
	Total      int  `json:"total"`
	Percentage int  `json:"percentage"`
	Threshold  int  `json:"threshold"`
	Passed     bool `json:"passed"`
}

// Profile is the persisted skill set of a user
type Profile struct {
	UserID string   `json:"userId" validate:"required"`
	Skills []string `json:"skills"`
}

// Selection is a persisted result a user chose to keep
type Selection struct {
	ID        int64           `json:"id"`
	UserID    string          `json:"userId"`
	Role      string          `json:"role"`
	Kind      string          `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
}
