package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"careerfit/internal/errors"
	"careerfit/internal/watch"
)

// LoadedPrompts holds prompt text read from files for one operation
type LoadedPrompts struct {
	System string
	User   string
}

// PromptStore holds prompts loaded from files. It is safe for concurrent
// use so that a watcher can swap prompts while requests read them.
type PromptStore struct {
	mu      sync.RWMutex
	prompts map[Operation]LoadedPrompts
}

// NewPromptStore returns an empty store
func NewPromptStore() *PromptStore {
	return &PromptStore{prompts: make(map[Operation]LoadedPrompts)}
}

// Get returns a copy of the loaded prompts for op
func (s *PromptStore) Get(op Operation) LoadedPrompts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prompts[op]
}

// Set replaces the loaded prompts for op
func (s *PromptStore) Set(op Operation, p LoadedPrompts) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts[op] = p
}

// LoadPrompts reads every configured prompt file into a new store
func LoadPrompts(cfg *Config) (*PromptStore, error) {
	store := NewPromptStore()
	if err := reloadPrompts(cfg, store); err != nil {
		return nil, err
	}
	return store, nil
}

func reloadPrompts(cfg *Config, store *PromptStore) error {
	loaded := 0
	for _, op := range Operations {
		files := cfg.operationPrompts(op)

		var p LoadedPrompts
		var err error
		if p.System, err = loadPromptFromFile(files.SystemFile, "system", op); err != nil {
			return err
		}
		if p.User, err = loadPromptFromFile(files.UserFile, "user", op); err != nil {
			return err
		}
		if p.System != "" {
			loaded++
		}
		if p.User != "" {
			loaded++
		}
		store.Set(op, p)
	}

	if loaded == 0 {
		log.Println("[CONFIG] No prompt files configured, using built-in prompts")
	} else {
		log.Printf("[CONFIG] Loaded %d prompt files", loaded)
	}
	return nil
}

func (c *Config) operationPrompts(op Operation) OperationPrompts {
	switch op {
	case OperationWeights:
		return c.AI.Weights.Prompts
	case OperationCourses:
		return c.AI.Courses.Prompts
	case OperationPath:
		return c.AI.Path.Prompts
	}
	return OperationPrompts{}
}

// PromptFiles lists every configured prompt file path
func (c *Config) PromptFiles() []string {
	var files []string
	for _, op := range Operations {
		p := c.operationPrompts(op)
		for _, f := range []string{p.SystemFile, p.UserFile} {
			if f != "" {
				files = append(files, f)
			}
		}
	}
	return files
}

func loadPromptFromFile(path, kind string, op Operation) (string, error) {
	if path == "" {
		return "", nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s %s prompt file '%s': %w", kind, op, path, err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s %s prompt file not found: %s", kind, op, absPath)
		}
		return "", fmt.Errorf("failed to read %s %s prompt file '%s': %w", kind, op, absPath, err)
	}

	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return "", fmt.Errorf("%s %s prompt file '%s' is empty", kind, op, absPath)
	}
	return trimmed, nil
}

// WatchPrompts reloads prompt files into the config's store whenever they
// change. A reload that fails keeps the previous prompts. The returned
// watcher is nil when no prompt file is configured.
func (c *Config) WatchPrompts(ctx context.Context, logger *errors.Logger) (*watch.Watcher, error) {
	files := c.PromptFiles()
	if len(files) == 0 {
		return nil, nil
	}

	store := c.Prompts()
	w, err := watch.New(files, 0, func() {
		next := NewPromptStore()
		if err := reloadPrompts(c, next); err != nil {
			logger.LogError(err, "Prompt reload failed, keeping previous prompts")
			return
		}
		for _, op := range Operations {
			store.Set(op, next.Get(op))
		}
		logger.Info("Prompt files reloaded", "files", len(files))
	}, logger)
	if err != nil {
		return nil, err
	}

	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	return w, nil
}
