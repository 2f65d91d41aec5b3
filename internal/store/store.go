// Package store persists user skill profiles and the results users chose to
// keep in SQLite.
package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"careerfit/internal/errors"
	"careerfit/internal/types"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Selection kinds
const (
	KindCareerPath   = "career_path"
	KindCourses      = "courses"
	KindLearningPath = "learning_path"
	KindQuiz         = "quiz"
)

// Store wraps the SQLite database
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database at path and applies pending
// migrations. ":memory:" opens an in-memory database.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.NewStorageError(errors.ErrCodeStoreFailed, "creating data directory", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStoreFailed, "opening database", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.NewStorageError(errors.ErrCodeStoreFailed, "pinging database", err)
	}

	// One connection: avoids "database is locked" and keeps :memory: a
	// single database.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA busy_timeout = 5000", "PRAGMA journal_mode=WAL"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, errors.NewStorageError(errors.ErrCodeStoreFailed, "applying "+pragma, err)
		}
	}

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, errors.NewStorageError(errors.ErrCodeStoreFailed, "running migrations", err)
	}
	return s, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		version, err := parseMigrationVersion(entry.Name())
		if err != nil {
			return err
		}

		var applied int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = ?", version).Scan(&applied); err != nil {
			return fmt.Errorf("checking migration %d: %w", version, err)
		}
		if applied > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %d: %w", version, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", version, err)
		}
	}
	return nil
}

// parseMigrationVersion reads the numeric prefix of "001_name.sql"
func parseMigrationVersion(name string) (int, error) {
	prefix, _, ok := strings.Cut(name, "_")
	if !ok {
		return 0, fmt.Errorf("migration %s has no version prefix", name)
	}
	v, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, fmt.Errorf("migration %s: invalid version: %w", name, err)
	}
	return v, nil
}

// SaveSkills replaces the skill list of userID
func (s *Store) SaveSkills(ctx context.Context, userID string, skills []string) error {
	if strings.TrimSpace(userID) == "" {
		return errors.NewInvalidInputError("user id must not be empty", nil)
	}
	if skills == nil {
		skills = []string{}
	}
	raw, err := json.Marshal(skills)
	if err != nil {
		return errors.NewStorageError(errors.ErrCodeStoreFailed, "encoding skills", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, skills, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET skills = excluded.skills, updated_at = excluded.updated_at`,
		userID, string(raw), s.now().UTC())
	if err != nil {
		return errors.NewStorageError(errors.ErrCodeStoreFailed, "saving skills", err).WithContext("user_id", userID)
	}
	return nil
}

// LoadSkills returns the profile of userID or a NOT_FOUND storage error
func (s *Store) LoadSkills(ctx context.Context, userID string) (types.Profile, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, "SELECT skills FROM profiles WHERE user_id = ?", userID).Scan(&raw)
	if err == sql.ErrNoRows {
		return types.Profile{}, errors.NewStorageError(errors.ErrCodeNotFound, "profile not found", nil).WithContext("user_id", userID)
	}
	if err != nil {
		return types.Profile{}, errors.NewStorageError(errors.ErrCodeStoreFailed, "loading skills", err).WithContext("user_id", userID)
	}

	profile := types.Profile{UserID: userID}
	if err := json.Unmarshal([]byte(raw), &profile.Skills); err != nil {
		return types.Profile{}, errors.NewStorageError(errors.ErrCodeStoreFailed, "decoding skills", err).WithContext("user_id", userID)
	}
	return profile, nil
}

// SaveSelection stores payload for userID and returns the stored selection
func (s *Store) SaveSelection(ctx context.Context, userID, role, kind string, payload any) (types.Selection, error) {
	if strings.TrimSpace(userID) == "" {
		return types.Selection{}, errors.NewInvalidInputError("user id must not be empty", nil)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return types.Selection{}, errors.NewStorageError(errors.ErrCodeStoreFailed, "encoding selection", err)
	}

	created := s.now().UTC()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO selections (user_id, role, kind, payload, created_at) VALUES (?, ?, ?, ?, ?)",
		userID, role, kind, string(raw), created)
	if err != nil {
		return types.Selection{}, errors.NewStorageError(errors.ErrCodeStoreFailed, "saving selection", err).WithContext("user_id", userID)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return types.Selection{}, errors.NewStorageError(errors.ErrCodeStoreFailed, "reading selection id", err)
	}

	return types.Selection{
		ID:        id,
		UserID:    userID,
		Role:      role,
		Kind:      kind,
		Payload:   raw,
		CreatedAt: created,
	}, nil
}

// ListSelections returns the selections of userID, oldest first. An empty
// kind matches every kind.
func (s *Store) ListSelections(ctx context.Context, userID, kind string) ([]types.Selection, error) {
	query := "SELECT id, user_id, role, kind, payload, created_at FROM selections WHERE user_id = ?"
	args := []any{userID}
	if kind != "" {
		query += " AND kind = ?"
		args = append(args, kind)
	}
	query += " ORDER BY created_at, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStoreFailed, "listing selections", err)
	}
	defer rows.Close()

	out := []types.Selection{}
	for rows.Next() {
		var sel types.Selection
		var payload string
		if err := rows.Scan(&sel.ID, &sel.UserID, &sel.Role, &sel.Kind, &payload, &sel.CreatedAt); err != nil {
			return nil, errors.NewStorageError(errors.ErrCodeStoreFailed, "scanning selection", err)
		}
		sel.Payload = []byte(payload)
		out = append(out, sel)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStoreFailed, "iterating selections", err)
	}
	return out, nil
}
