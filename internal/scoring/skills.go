package scoring

import (
	"fmt"
	"strings"

	"careerfit/internal/errors"
	"careerfit/internal/types"
)

// NormalizeSkill folds a skill name for case-insensitive comparison.
func NormalizeSkill(skill string) string {
	return strings.ToLower(strings.TrimSpace(skill))
}

// SkillSet is a set of skill names compared exactly.
type SkillSet map[string]struct{}

// NewSkillSet builds a set from the given skills. Empty names are ignored.
func NewSkillSet(skills ...string) SkillSet {
	set := make(SkillSet, len(skills))
	for _, s := range skills {
		if s == "" {
			continue
		}
		set[s] = struct{}{}
	}
	return set
}

// Contains reports whether skill is in the set.
func (s SkillSet) Contains(skill string) bool {
	_, ok := s[skill]
	return ok
}

// Normalized returns a copy of the set with every name passed through
// NormalizeSkill.
func (s SkillSet) Normalized() SkillSet {
	out := make(SkillSet, len(s))
	for skill := range s {
		if n := NormalizeSkill(skill); n != "" {
			out[n] = struct{}{}
		}
	}
	return out
}

// SkillIndex maps roles to their required skills and skills back to roles.
// It is built once by the caller and passed to whatever needs the lookup.
type SkillIndex struct {
	roles   []types.RoleSkillRequirement
	byRole  map[string]int
	bySkill map[string][]string
}

// NewSkillIndex validates the requirements and indexes them. Role order is
// preserved. Duplicate roles, empty roles and empty or duplicated skills are
// rejected as invalid input.
func NewSkillIndex(reqs []types.RoleSkillRequirement) (*SkillIndex, error) {
	if len(reqs) == 0 {
		return nil, errors.NewInvalidInputError("at least one role is required", nil)
	}

	idx := &SkillIndex{
		roles:   make([]types.RoleSkillRequirement, 0, len(reqs)),
		byRole:  make(map[string]int, len(reqs)),
		bySkill: make(map[string][]string),
	}

	for _, req := range reqs {
		if err := ValidateRequirement(req.Role, req.Skills); err != nil {
			return nil, err
		}
		if _, dup := idx.byRole[req.Role]; dup {
			return nil, errors.NewInvalidInputError(fmt.Sprintf("duplicate role %q", req.Role), nil).
				WithContext("role", req.Role)
		}

		skills := append([]string(nil), req.Skills...)
		idx.byRole[req.Role] = len(idx.roles)
		idx.roles = append(idx.roles, types.RoleSkillRequirement{Role: req.Role, Skills: skills})

		for _, s := range skills {
			key := NormalizeSkill(s)
			idx.bySkill[key] = append(idx.bySkill[key], req.Role)
		}
	}

	return idx, nil
}

// Len returns the number of indexed roles.
func (i *SkillIndex) Len() int { return len(i.roles) }

// Roles returns role names in insertion order.
func (i *SkillIndex) Roles() []string {
	names := make([]string, len(i.roles))
	for n, r := range i.roles {
		names[n] = r.Role
	}
	return names
}

// Skills returns the required skills of role in caller order.
func (i *SkillIndex) Skills(role string) ([]string, bool) {
	n, ok := i.byRole[role]
	if !ok {
		return nil, false
	}
	return append([]string(nil), i.roles[n].Skills...), true
}

// RolesFor returns the roles requiring skill, compared case-insensitively.
func (i *SkillIndex) RolesFor(skill string) []string {
	return append([]string(nil), i.bySkill[NormalizeSkill(skill)]...)
}

// Requirements returns a copy of the indexed requirements.
func (i *SkillIndex) Requirements() []types.RoleSkillRequirement {
	out := make([]types.RoleSkillRequirement, len(i.roles))
	for n, r := range i.roles {
		out[n] = types.RoleSkillRequirement{Role: r.Role, Skills: append([]string(nil), r.Skills...)}
	}
	return out
}

// ValidateRequirement checks the role/skills pair shared by weight assignment
// and indexing.
func ValidateRequirement(role string, skills []string) error {
	if strings.TrimSpace(role) == "" {
		return errors.NewInvalidInputError("role name must not be empty", nil)
	}
	if len(skills) == 0 {
		return errors.NewInvalidInputError("skill list must not be empty", nil).WithContext("role", role)
	}
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		if strings.TrimSpace(s) == "" {
			return errors.NewInvalidInputError("skill name must not be empty", nil).WithContext("role", role)
		}
		if _, dup := seen[s]; dup {
			return errors.NewInvalidInputError(fmt.Sprintf("duplicate skill %q", s), nil).WithContext("role", role)
		}
		seen[s] = struct{}{}
	}
	return nil
}
