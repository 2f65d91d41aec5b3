package ai

import (
	"encoding/json"
	"fmt"

	"careerfit/internal/config"
)

// Prompts is the system and user template of one operation. User templates
// are fmt formats; see DefaultPrompts for the arguments of each operation.
type Prompts struct {
	System string
	User   string
}

// DefaultPrompts are used when neither a prompt file nor inline config
// overrides an operation.
//
// User template arguments:
//
//	weights: role, skills (JSON array)
//	courses: role, missing skills (JSON array)
//	path:    role, current skills (JSON array), missing skills (JSON array)
var DefaultPrompts = map[config.Operation]Prompts{
	config.OperationWeights: {
		System: `You are a technical recruiter who knows how hiring managers prioritise skills for a role.
You answer with JSON only. You never add, rename or drop skills.`,
		User: `Distribute exactly 100 points across the required skills of the role "%s" according to how important each skill is for doing the job.

Rules:
- Use every skill from the list exactly once, spelled exactly as given.
- Do not add skills that are not in the list.
- Weights are non-negative numbers and must sum to 100.

Skills:
%s

Reply with a JSON array of objects: [{"skill": "<skill>", "weight": <number>}]`,
	},

	config.OperationCourses: {
		System: `You are a learning advisor who recommends real, currently available online courses.
You answer with JSON only.`,
		User: `Recommend online courses for someone moving into the role "%s" who is missing these skills:
%s

Group the courses by level. Each course has a title, the platform offering it, a one sentence description, the missing skill it covers and an approximate duration.

Reply with a JSON object:
{"beginner": [course...], "intermediate": [course...], "advanced": [course...]}
where course is {"title": "", "platform": "", "description": "", "skill": "", "duration": ""}`,
	},

	config.OperationPath: {
		System: `You are a career coach who designs realistic, staged learning roadmaps with hands-on projects.
You answer with JSON only.`,
		User: `Design a learning path towards the role "%s".

Current skills:
%s

Skills to acquire:
%s

Split the path into phases. Each phase has a name, a duration, the skills it covers, projects (name, description, skills), resources (title, type, url) and milestones. Also list recommended and optional certifications and ways to engage with the community (platform, activity, benefit).

Reply with a JSON object:
{"timeline": [phase...], "certification": {"recommended": [], "optional": []}, "communityEngagement": [{"platform": "", "activity": "", "benefit": ""}]}`,
	},
}

// resolvePrompt picks a prompt loaded from a file, then one from config,
// then the default
func resolvePrompt(loadedFromFile, fromConfig, fromDefault string) string {
	if loadedFromFile != "" {
		return loadedFromFile
	}
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}

// promptsFor resolves the templates of op against cfg
func promptsFor(cfg *config.Config, op config.Operation) Prompts {
	def := DefaultPrompts[op]
	if cfg == nil {
		return def
	}

	loaded := cfg.Prompts().Get(op)
	var inline config.OperationPrompts
	if opCfg, err := cfg.GetOperationConfig(op); err == nil {
		inline = opCfg.Prompts
	}

	return Prompts{
		System: resolvePrompt(loaded.System, inline.System, def.System),
		User:   resolvePrompt(loaded.User, inline.User, def.User),
	}
}

// buildRequest formats the user template of op with args rendered as JSON
func buildRequest(cfg *config.Config, op config.Operation, role string, lists ...[]string) Request {
	p := promptsFor(cfg, op)

	args := make([]any, 0, len(lists)+1)
	args = append(args, role)
	for _, l := range lists {
		args = append(args, jsonList(l))
	}

	return Request{
		Operation: op,
		System:    p.System,
		User:      fmt.Sprintf(p.User, args...),
	}
}

func jsonList(items []string) string {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(b)
}
