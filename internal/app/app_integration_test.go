package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/abhinav-dholi/todo-cli/internal/storage"
	"github.com/abhinav-dholi/todo-cli/internal/todoapi"
)

// fakeTodoServer mimics the remote store: GET/POST answer with the full
// collection, PUT with the single updated record, DELETE with the remainder.
type fakeTodoServer struct {
	mu    sync.Mutex
	todos []todoapi.Todo
}

func (s *fakeTodoServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		switch {
		case r.URL.Path == "/todos" && r.Method == http.MethodGet:
			writeJSON(w, s.todos)
		case r.URL.Path == "/todos" && r.Method == http.MethodPost:
			var payload struct {
				Title     string `json:"title"`
				Completed bool   `json:"completed"`
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			s.todos = append(s.todos, todoapi.Todo{
				ID:        uuid.NewString(),
				Title:     payload.Title,
				Completed: payload.Completed,
				CreatedAt: time.Now().UTC(),
			})
			writeJSON(w, s.todos)
		case strings.HasPrefix(r.URL.Path, "/todos/") && r.Method == http.MethodPut:
			id := strings.TrimPrefix(r.URL.Path, "/todos/")
			var patch todoapi.Patch
			if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			for i := range s.todos {
				if s.todos[i].ID != id {
					continue
				}
				if patch.Title != nil {
					s.todos[i].Title = *patch.Title
				}
				if patch.Completed != nil {
					s.todos[i].Completed = *patch.Completed
				}
				now := time.Now().UTC()
				s.todos[i].UpdatedAt = &now
				writeJSON(w, s.todos[i])
				return
			}
			http.Error(w, "Todo item not found", http.StatusNotFound)
		case strings.HasPrefix(r.URL.Path, "/todos/") && r.Method == http.MethodDelete:
			id := strings.TrimPrefix(r.URL.Path, "/todos/")
			kept := s.todos[:0]
			found := false
			for _, todo := range s.todos {
				if todo.ID == id {
					found = true
					continue
				}
				kept = append(kept, todo)
			}
			if !found {
				http.Error(w, "Todo item not found", http.StatusNotFound)
				return
			}
			s.todos = kept
			writeJSON(w, s.todos)
		default:
			http.NotFound(w, r)
		}
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestIntegration_CreateToggleEditDelete(t *testing.T) {
	server := &fakeTodoServer{}
	ts := httptest.NewServer(server.handler())
	defer ts.Close()

	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "todo-integration.db"))
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := repo.Init(ctx); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}

	client := todoapi.NewClient(ts.URL, ts.Client())
	svc := NewService(client, repo, nil)

	todos, err := svc.Create(ctx, "Buy milk")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if len(todos) != 1 || todos[0].Title != "Buy milk" {
		t.Fatalf("unexpected collection after create: %+v", todos)
	}
	created := todos[0]

	completed := true
	toggled, err := svc.Update(ctx, created.ID, todoapi.Patch{Completed: &completed})
	if err != nil {
		t.Fatalf("Update (toggle) returned error: %v", err)
	}
	if !toggled.Completed {
		t.Fatal("expected completed=true after toggle")
	}

	title := "Buy oat milk"
	edited, err := svc.Update(ctx, created.ID, todoapi.Patch{Title: &title, Completed: &toggled.Completed})
	if err != nil {
		t.Fatalf("Update (edit) returned error: %v", err)
	}
	if edited.Title != "Buy oat milk" || !edited.Completed {
		t.Fatalf("unexpected record after edit: %+v", edited)
	}

	// Edit persists through a subsequent fetch and creates no duplicate.
	fetched, err := svc.Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(fetched) != 1 || fetched[0].Title != "Buy oat milk" || !fetched[0].Completed {
		t.Fatalf("unexpected collection after reload: %+v", fetched)
	}

	cached, err := svc.ListCached(ctx, DefaultCacheLimit)
	if err != nil {
		t.Fatalf("ListCached returned error: %v", err)
	}
	if len(cached) != 1 || cached[0].ID != created.ID {
		t.Fatalf("unexpected cached collection: %+v", cached)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	fetched, err = svc.Load(ctx)
	if err != nil {
		t.Fatalf("Load after delete returned error: %v", err)
	}
	if len(fetched) != 0 {
		t.Fatalf("expected empty collection after delete, got %+v", fetched)
	}
}
