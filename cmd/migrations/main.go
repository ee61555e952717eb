package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vncsmyrnk/tutorialvote/internal/app"
	"github.com/vncsmyrnk/tutorialvote/internal/config"
	"github.com/vncsmyrnk/tutorialvote/internal/logger"
)

var basePath = filepath.Join(".", "internal", "adapters", "repository", "postgres", "migrations")

func main() {
	cmd := &cobra.Command{
		Use:   "migrations [name]",
		Short: "Apply the ledger mirror migrations",
		Long:  "Without a name every *.up.sql file is applied in order. With a name only the matching file is applied.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  run,
	}
	cmd.Flags().StringVar(&basePath, "dir", basePath, "migrations directory")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.NewViper()
	log := logger.New(cfg.GetString("LOG_LEVEL"))

	pg := config.PostgresConfig{
		Host:     cfg.GetString("POSTGRES_HOST"),
		Port:     cfg.GetString("POSTGRES_PORT"),
		User:     cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	db, err := app.OpenDB(context.Background(), pg)
	if err != nil {
		return err
	}
	defer db.Close()

	var files []string
	if len(args) == 1 {
		f, err := migrationFilePath(basePath, args[0])
		if err != nil {
			return err
		}
		files = []string{f}
	} else {
		files, err = upMigrations(basePath)
		if err != nil {
			return err
		}
	}

	for _, f := range files {
		content, err := os.ReadFile(filepath.Join(basePath, f))
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(cmd.Context(), string(content)); err != nil {
			return fmt.Errorf("failed to execute %s: %w", f, err)
		}
		log.Info().Str("file", f).Msg("migration file executed successfully")
	}
	return nil
}

func upMigrations(basePath string) ([]string, error) {
	entries, err := os.ReadDir(basePath)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func migrationFilePath(basePath string, migrationName string) (string, error) {
	regex, err := regexp.Compile(fmt.Sprintf(`^.*%s\.sql$`, regexp.QuoteMeta(migrationName)))
	if err != nil {
		return "", fmt.Errorf("invalid pattern: %w", err)
	}

	files, err := os.ReadDir(basePath)
	if err != nil {
		return "", err
	}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		if regex.MatchString(f.Name()) {
			return f.Name(), nil
		}
	}

	return "", fmt.Errorf("migration file not found")
}
