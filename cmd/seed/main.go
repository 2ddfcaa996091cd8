package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-account-service/config"
	"github.com/oksasatya/go-account-service/internal/application"
	pginfra "github.com/oksasatya/go-account-service/internal/infrastructure/postgres"
	"github.com/oksasatya/go-account-service/pkg/helpers"
)

func main() {
	email := flag.String("email", "demo@example.com", "account email")
	password := flag.String("password", "Passw0rd!", "password for a new account")
	name := flag.String("name", "Demo User", "display name for a new account")
	username := flag.String("username", "demo_user", "username for a new account")
	suspend := flag.Bool("suspend", false, "suspend the account")
	unsuspend := flag.Bool("unsuspend", false, "lift a suspension")
	setPassword := flag.String("set-password", "", "replace the account password")
	flag.Parse()

	if *suspend && *unsuspend {
		log.Fatal("-suspend and -unsuspend are mutually exclusive")
	}

	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	users := application.NewUserService(pginfra.NewStore(pool), helpers.NewPasswordHasher(cfg.BcryptCost), logger)

	u, created, err := users.Provision(ctx, *email, *password, *name, *username)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	if created {
		fmt.Printf("seeded user: id=%s email=%s username=%s password=%s\n", u.ID, u.Email, u.Username, *password)
	} else {
		fmt.Printf("user exists: id=%s email=%s\n", u.ID, u.Email)
	}

	switch {
	case *suspend:
		err = users.Suspend(ctx, u.ID)
	case *unsuspend:
		err = users.Unsuspend(ctx, u.ID)
	}
	if err != nil {
		log.Fatalf("failed to change suspension: %v", err)
	}

	if *setPassword != "" {
		if err := users.UpdatePassword(ctx, u.ID, *setPassword); err != nil {
			log.Fatalf("failed to set password: %v", err)
		}
		fmt.Println("password updated")
	}
}
