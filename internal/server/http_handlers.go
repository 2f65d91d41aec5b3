package server

import (
	"context"
	"net/http"

	"careerfit/internal/errors"
	"careerfit/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// operationFunc runs one API operation on a decoded request
type operationFunc[Req, Resp any] func(ctx context.Context, req Req) (Resp, error)

// trackedHandler decodes Req, runs op inside the caller's session and drops
// the result with 409 when a newer request for the same operation in the same
// session started meanwhile.
func trackedHandler[Req, Resp any](s *Server, spanName, action string, op operationFunc[Req, Resp], attrs func(Req) []attribute.KeyValue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := s.deps.Obs.Tracer("careerfit.api").Start(r.Context(), "api."+spanName)
		defer span.End()

		var req Req
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			s.writeAppError(w, r, "Invalid request body", err)
			return
		}
		if attrs != nil {
			span.SetAttributes(attrs(req)...)
		}

		ticket := s.beginSession(w, r, spanName)
		span.SetAttributes(attribute.String("session.id", ticket.Session))

		result, err := op(ctx, req)
		if staleErr := s.deps.Tracker.Check(ticket); staleErr != nil {
			span.SetAttributes(attribute.Bool("stale", true))
			s.writeAppError(w, r, "Result superseded", staleErr)
			return
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.writeAppError(w, r, "Failed to "+action, err)
			return
		}

		span.SetAttributes(attribute.Bool("success", true))
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) weightsHandler() http.HandlerFunc {
	return trackedHandler(s, "weights", "assign weights",
		func(ctx context.Context, req types.RoleSkillRequirement) (types.RoleWeights, error) {
			return s.deps.Scorer.AssignWeights(ctx, req.Role, req.Skills)
		},
		func(req types.RoleSkillRequirement) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("role", req.Role), attribute.Int("skills", len(req.Skills))}
		})
}

func (s *Server) matchHandler() http.HandlerFunc {
	return trackedHandler(s, "match", "match career paths",
		func(ctx context.Context, req types.MatchInput) (types.CareerPathReport, error) {
			return s.deps.Scorer.AnalyzeRequirements(ctx, req.UserSkills, req.Roles)
		},
		func(req types.MatchInput) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.Int("roles", len(req.Roles)), attribute.Int("user_skills", len(req.UserSkills))}
		})
}

func (s *Server) coursesHandler() http.HandlerFunc {
	return trackedHandler(s, "courses", "recommend courses",
		func(ctx context.Context, req types.CourseInput) (types.CourseRecommendationSet, error) {
			return s.deps.Oracle.RecommendCourses(ctx, req)
		},
		func(req types.CourseInput) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("role", req.Role), attribute.Int("missing_skills", len(req.MissingSkills))}
		})
}

func (s *Server) learningPathHandler() http.HandlerFunc {
	return trackedHandler(s, "learning_path", "generate learning path",
		func(ctx context.Context, req types.LearningPathInput) (types.LearningPath, error) {
			return s.deps.Oracle.GenerateLearningPath(ctx, req)
		},
		func(req types.LearningPathInput) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("role", req.Role), attribute.Int("missing_skills", len(req.MissingSkills))}
		})
}

func (s *Server) planHandler() http.HandlerFunc {
	return trackedHandler(s, "plan", "build plan",
		func(ctx context.Context, req PlanRequest) (types.RemediationPlan, error) {
			return s.deps.Scorer.Plan(ctx, req.Role, req.UserSkills, req.MissingSkills)
		},
		func(req PlanRequest) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("role", req.Role)}
		})
}

// quizHandler grades a quiz. Grading is local, so it is not session tracked.
func (s *Server) quizHandler(w http.ResponseWriter, r *http.Request) {
	var req types.QuizInput
	if err := parseJSONRequest(r, &req); err != nil {
		s.writeAppError(w, r, "Invalid request body", err)
		return
	}

	result, err := s.deps.Grader.Grade(r.Context(), req)
	if err != nil {
		s.writeAppError(w, r, "Failed to grade quiz", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// requireStore answers 503 when persistence is disabled
func (s *Server) requireStore(w http.ResponseWriter, r *http.Request) bool {
	if s.deps.Store != nil {
		return true
	}
	writeErrorResponse(w, "Profile store disabled", errors.ErrCodeStoreFailed,
		"set store.path to enable profiles", http.StatusServiceUnavailable)
	return false
}

func (s *Server) getProfileHandler(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	profile, err := s.deps.Store.LoadSkills(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeAppError(w, r, "Failed to load profile", err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) putProfileHandler(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	var req ProfileRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.writeAppError(w, r, "Invalid request body", err)
		return
	}

	id := r.PathValue("id")
	if err := s.deps.Store.SaveSkills(r.Context(), id, req.Skills); err != nil {
		s.writeAppError(w, r, "Failed to save profile", err)
		return
	}
	skills := req.Skills
	if skills == nil {
		skills = []string{}
	}
	writeJSON(w, http.StatusOK, types.Profile{UserID: id, Skills: skills})
}

func (s *Server) listSelectionsHandler(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	sels, err := s.deps.Store.ListSelections(r.Context(), r.PathValue("id"), r.URL.Query().Get("kind"))
	if err != nil {
		s.writeAppError(w, r, "Failed to list selections", err)
		return
	}
	writeJSON(w, http.StatusOK, sels)
}

func (s *Server) saveSelectionHandler(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	var req SelectionRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.writeAppError(w, r, "Invalid request body", err)
		return
	}
	sel, err := s.deps.Store.SaveSelection(r.Context(), r.PathValue("id"), req.Role, req.Kind, req.Payload)
	if err != nil {
		s.writeAppError(w, r, "Failed to save selection", err)
		return
	}
	writeJSON(w, http.StatusCreated, sel)
}
