package server

import (
	"net/http"
	"strings"

	"careerfit/internal/career"

	"github.com/google/uuid"
)

// SessionHeader carries the client session. Within one session only the
// latest request of each operation has its result delivered.
const SessionHeader = "X-Session-ID"

// beginSession starts a tracked request for operation. Requests without a
// session id get a fresh one, echoed back in the response header.
func (s *Server) beginSession(w http.ResponseWriter, r *http.Request, operation string) career.Ticket {
	id := strings.TrimSpace(r.Header.Get(SessionHeader))
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set(SessionHeader, id)
	return s.deps.Tracker.Begin(id, operation)
}
