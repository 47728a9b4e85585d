package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"eventdesk/internal/filters"
	"eventdesk/internal/presets"
	"eventdesk/internal/shared/config"
	"eventdesk/internal/shared/database"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// demo filters created for the seed owner
var demoPresets = []struct {
	name  string
	input filters.Input
}{
	{"Jazz", filters.Input{SearchTerm: filters.Term("jazz")}},
	{"Free events", filters.Input{MaxPrice: "0"}},
	{"Under $20", filters.Input{MaxPrice: "20"}},
	{"Summer evenings", filters.Input{StartDate: "2026-06-01", StartTime: "18:00", EndDate: "2026-08-31"}},
}

type Seeder struct {
	repo  presets.Repository
	owner string
}

func main() {
	_ = godotenv.Load()
	fmt.Println("Seeding saved filter presets...")

	owner := os.Getenv("SEED_OWNER_EMAIL")
	if owner == "" {
		owner = "demo@example.com"
	}

	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// presets only need the relational store
	cfg.Redis.Enabled = false
	db, err := database.InitDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{repo: presets.NewRepository(db.GetStore()), owner: owner}

	if err := seeder.Clean(ctx); err != nil {
		log.Fatalf("Failed to clean presets: %v", err)
	}
	n, err := seeder.SeedPresets(ctx)
	if err != nil {
		log.Fatalf("Failed to seed presets: %v", err)
	}
	fmt.Printf("Created %d presets for %s\n", n, owner)
}

// Clean removes the owner's existing presets.
func (s *Seeder) Clean(ctx context.Context) error {
	existing, err := s.repo.ListByOwner(ctx, s.owner)
	if err != nil {
		return err
	}
	for _, p := range existing {
		if _, err := s.repo.Delete(ctx, s.owner, p.ID); err != nil {
			return fmt.Errorf("delete %q: %w", p.Name, err)
		}
	}
	return nil
}

func (s *Seeder) SeedPresets(ctx context.Context) (int, error) {
	created := 0
	for _, demo := range demoPresets {
		active, err := filters.Normalize(demo.input)
		if err != nil {
			return created, fmt.Errorf("preset %q: %w", demo.name, err)
		}
		err = s.repo.Create(ctx, presets.NewPreset(s.owner, demo.name, active))
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("preset %q: %w", demo.name, err)
		}
		fmt.Printf("  %s: %s\n", demo.name, presets.Summarize(active))
		created++
	}
	return created, nil
}
