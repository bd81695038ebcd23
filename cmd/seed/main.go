// Command seed loads zones, tournament types, clubs, institutional addresses and initial
// accounts from a YAML file into the database.
package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"time"

	_ "github.com/lib/pq"

	"refereehub/config"
	"refereehub/internal/adapters/auth"
	"refereehub/internal/repository/postgres"
)

func main() {
	path := flag.String("file", "seed.yaml", "path to the seed YAML file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := config.NewLogger(cfg.Environment)

	f, err := os.Open(*path)
	if err != nil {
		logger.Error("open seed file", "path", *path, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	seed, err := Parse(f)
	if err != nil {
		logger.Error("invalid seed file", "path", *path, "error", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	seeder := &Seeder{
		Zones:         postgres.NewZoneRepository(db),
		Types:         postgres.NewTournamentTypeRepository(db),
		Clubs:         postgres.NewClubRepository(db),
		Institutional: postgres.NewInstitutionalEmailRepository(db),
		Users:         postgres.NewUserRepository(db),
		Hasher:        auth.NewBcryptHasher(0),
		Logger:        logger,
		Now:           func() time.Time { return time.Now().UTC() },
	}
	created, err := seeder.Apply(ctx, seed)
	if err != nil {
		logger.Error("seed failed", "created", created, "error", err)
		os.Exit(1)
	}
	logger.Info("seed completed", "created", created)
}
