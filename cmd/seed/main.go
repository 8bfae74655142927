package main

// Seed the demo company:
//   go run ./cmd/seed

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"investor-backend/internal/companies"
	"investor-backend/internal/shared/config"
	"investor-backend/internal/shared/storage/db"
	"investor-backend/internal/shared/util"
)

var (
	name        = flag.String("name", "Test Startup", "Company name")
	description = flag.String("description", "Demo company", "Company description")
	migrate     = flag.Bool("migrate", false, "Run migrations before seeding")
)

func main() {
	flag.Parse()
	cfg := config.Load()
	ctx := context.Background()

	ok := color.New(color.FgGreen, color.Bold).SprintFunc()
	warn := color.New(color.FgYellow).SprintFunc()
	fail := color.New(color.FgRed, color.Bold).SprintFunc()

	if cfg.DatabaseURL == "" {
		fmt.Fprintln(os.Stderr, fail("DATABASE_URL is required"))
		os.Exit(1)
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		fmt.Fprintln(os.Stderr, fail("connect database:"), err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	if *migrate {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			fmt.Fprintln(os.Stderr, fail("run migrations:"), err)
			os.Exit(1)
		}
	}

	company, created, err := seedCompany(ctx, &companies.Service{Repo: &companies.PGRepo{DB: sqlDB}}, *name, *description)
	if err != nil {
		fmt.Fprintln(os.Stderr, fail("seed company:"), err)
		os.Exit(1)
	}
	if created {
		fmt.Printf("%s %s (%s)\n", ok("created"), company.Name, company.ID)
		return
	}
	fmt.Printf("%s %s already exists (%s)\n", warn("skipped"), company.Name, company.ID)
}

// seedCompany creates the company unless one with the same slug exists.
func seedCompany(ctx context.Context, svc *companies.Service, name, description string) (companies.Company, bool, error) {
	company, err := svc.Create(ctx, companies.Company{Name: name, Description: description})
	if err == nil {
		return company, true, nil
	}
	if !errors.Is(err, companies.ErrConflict) {
		return companies.Company{}, false, err
	}
	existing, err := svc.Repo.GetBySlug(ctx, util.Slugify(name))
	if err != nil {
		return companies.Company{}, false, err
	}
	return existing, false, nil
}
