package app

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/abhinav-dholi/todo-cli/internal/logging"
	"github.com/abhinav-dholi/todo-cli/internal/todoapi"
)

// DefaultCacheLimit bounds how many cached todos seed the list on startup.
const DefaultCacheLimit = 200

type StoreClient interface {
	List(ctx context.Context) ([]todoapi.Todo, error)
	Create(ctx context.Context, title string, completed bool) ([]todoapi.Todo, error)
	Update(ctx context.Context, id string, patch todoapi.Patch) (todoapi.Todo, error)
	Delete(ctx context.Context, id string) ([]todoapi.Todo, error)
}

type Repository interface {
	SaveTodos(ctx context.Context, todos []todoapi.Todo) error
	UpsertTodo(ctx context.Context, todo todoapi.Todo) error
	DeleteTodo(ctx context.Context, id string) error
	ListTodos(ctx context.Context, limit int) ([]todoapi.Todo, error)
	SavePreference(ctx context.Context, key, value string) error
	LoadPreferences(ctx context.Context) (map[string]string, error)
}

// UIPreferences are the persisted display toggles.
type UIPreferences struct {
	Compact     bool
	ShowNumbers bool
}

// Service orchestrates the remote store client and the local cache. Every
// remote failure is logged here; callers only see the error.
type Service struct {
	client StoreClient
	repo   Repository
	log    *log.Logger
}

func NewService(client StoreClient, repo Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{client: client, repo: repo, log: logger}
}

// Load fetches the full collection from the server and mirrors it into the
// cache.
func (s *Service) Load(ctx context.Context) ([]todoapi.Todo, error) {
	todos, err := s.client.List(ctx)
	if err != nil {
		s.log.Error("fetch todos", "err", err)
		return nil, fmt.Errorf("fetch todos: %w", err)
	}
	if err := s.repo.SaveTodos(ctx, todos); err != nil {
		s.log.Error("cache todos", "err", err)
		return nil, fmt.Errorf("cache todos: %w", err)
	}
	return todos, nil
}

// Create adds a record; the server replies with the full collection, which
// replaces the cache.
func (s *Service) Create(ctx context.Context, title string) ([]todoapi.Todo, error) {
	todos, err := s.client.Create(ctx, title, false)
	if err != nil {
		s.log.Error("create todo", "title", title, "err", err)
		return nil, fmt.Errorf("create todo: %w", err)
	}
	if err := s.repo.SaveTodos(ctx, todos); err != nil {
		s.log.Error("cache todos after create", "err", err)
		return nil, fmt.Errorf("cache todos: %w", err)
	}
	return todos, nil
}

// Update patches a single record and upserts the server's answer into the
// cache.
func (s *Service) Update(ctx context.Context, id string, patch todoapi.Patch) (todoapi.Todo, error) {
	todo, err := s.client.Update(ctx, id, patch)
	if err != nil {
		s.log.Error("update todo", "id", id, "err", err)
		return todoapi.Todo{}, fmt.Errorf("update todo: %w", err)
	}
	if err := s.repo.UpsertTodo(ctx, todo); err != nil {
		s.log.Error("cache updated todo", "id", id, "err", err)
		return todoapi.Todo{}, fmt.Errorf("cache updated todo: %w", err)
	}
	return todo, nil
}

// Delete removes a record remotely and from the cache. The server returns the
// remaining collection, which is discarded.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.client.Delete(ctx, id); err != nil {
		s.log.Error("delete todo", "id", id, "err", err)
		return fmt.Errorf("delete todo: %w", err)
	}
	if err := s.repo.DeleteTodo(ctx, id); err != nil {
		s.log.Error("evict deleted todo", "id", id, "err", err)
		return fmt.Errorf("evict deleted todo: %w", err)
	}
	return nil
}

// ListCached returns the last known collection without touching the network.
func (s *Service) ListCached(ctx context.Context, limit int) ([]todoapi.Todo, error) {
	todos, err := s.repo.ListTodos(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load todos from cache: %w", err)
	}
	return todos, nil
}

func (s *Service) LoadUIPreferences(ctx context.Context) (UIPreferences, error) {
	raw, err := s.repo.LoadPreferences(ctx)
	if err != nil {
		return UIPreferences{}, fmt.Errorf("load preferences: %w", err)
	}
	return UIPreferences{
		Compact:     raw["compact"] == "true",
		ShowNumbers: raw["show_numbers"] == "true",
	}, nil
}

func (s *Service) SaveUIPreferences(ctx context.Context, prefs UIPreferences) error {
	if err := s.repo.SavePreference(ctx, "compact", strconv.FormatBool(prefs.Compact)); err != nil {
		return err
	}
	return s.repo.SavePreference(ctx, "show_numbers", strconv.FormatBool(prefs.ShowNumbers))
}
