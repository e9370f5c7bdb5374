package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abhinav-dholi/todo-cli/internal/app"
	"github.com/abhinav-dholi/todo-cli/internal/config"
	"github.com/abhinav-dholi/todo-cli/internal/logging"
	"github.com/abhinav-dholi/todo-cli/internal/storage"
	"github.com/abhinav-dholi/todo-cli/internal/todoapi"
	"github.com/abhinav-dholi/todo-cli/internal/tui"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, closeLog, err := logging.NewFileLogger(cfg.LogPath)
	if err != nil {
		log.Fatalf("log init error: %v", err)
	}
	defer closeLog()

	repo, err := storage.NewRepository(cfg.DBPath)
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := repo.Init(ctx); err != nil {
		log.Fatalf("storage schema error: %v", err)
	}
	if err := repo.CheckWritable(ctx); err != nil {
		log.Fatalf("storage write check failed (%v). Verify TODO_DB_PATH is writable: %s", err, cfg.DBPath)
	}

	client := todoapi.NewClient(cfg.APIBaseURL, nil)
	service := app.NewService(client, repo, logger)

	todos, err := service.ListCached(ctx, app.DefaultCacheLimit)
	if err != nil {
		log.Fatalf("cannot load cached todos: %v", err)
	}

	model := tui.NewModel(service, todos)

	prefCtx, prefCancel := context.WithTimeout(context.Background(), 5*time.Second)
	prefs, err := service.LoadUIPreferences(prefCtx)
	prefCancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not load UI preferences (%v), using defaults\n", err)
	} else {
		model.ApplyPreferences(tui.Preferences{
			Compact:     prefs.Compact,
			ShowNumbers: prefs.ShowNumbers,
		})
	}

	model.SetPreferencesSaver(func(p tui.Preferences) error {
		saveCtx, saveCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer saveCancel()
		return service.SaveUIPreferences(saveCtx, app.UIPreferences{
			Compact:     p.Compact,
			ShowNumbers: p.ShowNumbers,
		})
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Fatalf("tui error: %v", err)
	}

	logger.Info("session ended")
}
