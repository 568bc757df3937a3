package main

import (
	"fmt"
	"os"

	"savertounsi/internal/config"
	"savertounsi/internal/database"
	"savertounsi/internal/logger"
	"savertounsi/internal/services"

	"github.com/BurntSushi/toml"
	"github.com/fatih/color"
)

// catalogFile is the on-disk shape of the challenge seed file.
type catalogFile struct {
	Challenges []services.CatalogEntry `toml:"challenges"`
}

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		color.Red("Seed error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	path := appConfig.CatalogPath
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	var catalog catalogFile
	if _, err := toml.DecodeFile(path, &catalog); err != nil {
		return fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}
	if len(catalog.Challenges) == 0 {
		return fmt.Errorf("catalog file %s contains no challenges", path)
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	challengeService := services.NewChallengeService(dbManager.DB())

	created, updated, err := challengeService.SeedCatalog(catalog.Challenges)
	if err != nil {
		return fmt.Errorf("failed to seed challenge catalog: %w", err)
	}

	color.Green("Seeded challenge catalog from %s", path)
	fmt.Printf("  %s %d\n", color.CyanString("created:"), created)
	fmt.Printf("  %s %d\n", color.YellowString("updated:"), updated)
	return nil
}
