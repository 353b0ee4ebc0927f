package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wadjakorntonsri/linkbio/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/linkbio/pkg/config"
	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkbio/pkg/core/services"
	"github.com/wadjakorntonsri/linkbio/pkg/logger"
)

const usage = "expected 'export' or 'import' subcommands"

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	exportUser := exportCmd.String("user", "", "username whose links to export")
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importUser := importCmd.String("user", "", "username receiving the links")
	importFile := importCmd.String("file", "", "JSON file to import")

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg := config.Load()
	logger.Init(cfg.AppEnv, cfg.LogLevel)

	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to db")
	}
	defer repo.Close()

	ctx := context.Background()
	switch os.Args[1] {
	case "export":
		_ = exportCmd.Parse(os.Args[2:])
		if *exportUser == "" {
			exportCmd.PrintDefaults()
			os.Exit(1)
		}
		if err := doExport(ctx, repo, *exportUser); err != nil {
			logger.Fatal().Err(err).Msg("export failed")
		}
	case "import":
		_ = importCmd.Parse(os.Args[2:])
		if *importUser == "" || *importFile == "" {
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		if err := doImport(ctx, repo, *importUser, *importFile); err != nil {
			logger.Fatal().Err(err).Msg("import failed")
		}
	default:
		fmt.Println(usage)
		os.Exit(1)
	}
}

func lookupUser(ctx context.Context, repo *sqlite.SQLiteRepository, username string) (*domain.User, error) {
	user, err := repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %q not found", username)
	}
	return user, nil
}

func doExport(ctx context.Context, repo *sqlite.SQLiteRepository, username string) error {
	user, err := lookupUser(ctx, repo, username)
	if err != nil {
		return err
	}

	links, err := repo.ListLinks(ctx, user.ID, false)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(links)
}

// doImport appends the file's links after the user's existing ones, in file
// order. Ids and counters are not carried over.
func doImport(ctx context.Context, repo *sqlite.SQLiteRepository, username, filename string) error {
	user, err := lookupUser(ctx, repo, username)
	if err != nil {
		return err
	}

	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	var links []domain.Link
	if err := json.NewDecoder(file).Decode(&links); err != nil {
		return fmt.Errorf("decode %s: %w", filename, err)
	}

	count := 0
	for _, l := range links {
		title := strings.TrimSpace(l.Title)
		if err := services.ValidateStruct(importedLink{Title: title, URL: l.URL}); err != nil {
			logger.Warn().Str("title", l.Title).Str("url", l.URL).Msg("skipping invalid link")
			continue
		}

		now := time.Now().UTC()
		link := &domain.Link{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			Title:     title,
			URL:       l.URL,
			Icon:      l.Icon,
			IsActive:  l.IsActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if link.Icon == "" {
			link.Icon = domain.DefaultIcon
		}
		if err := repo.CreateLink(ctx, link); err != nil {
			logger.Error().Err(err).Str("url", l.URL).Msg("failed to import link")
			continue
		}
		count++
	}

	logger.Info().Int("imported", count).Int("total", len(links)).Str("user", username).Msg("import finished")
	return nil
}

type importedLink struct {
	Title string `json:"title" validate:"required,max=50"`
	URL   string `json:"url" validate:"required,http_url"`
}
