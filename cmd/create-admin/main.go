package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"parkhub/internal/config"
	"parkhub/internal/db"
	"parkhub/internal/models"
	"parkhub/internal/password"
	"parkhub/internal/repository"
)

func main() {
	username := flag.String("username", "admin", "admin username")
	email := flag.String("email", "admin@parkhub.local", "admin email")
	pass := flag.String("password", "", "admin password (required)")
	flag.Parse()

	if strings.TrimSpace(*pass) == "" {
		fmt.Fprintln(os.Stderr, "create-admin: -password is required")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fatalf("load config: %v", err)
	}

	database, err := db.NewPostgres(cfg.Database.DSN)
	if err != nil {
		fatalf("connect postgres: %v", err)
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := repository.NewUserRepository(database)
	if existing, err := users.GetByUsername(ctx, *username); err == nil {
		fmt.Printf("admin %q already exists (id=%d), nothing to do\n", existing.Username, existing.ID)
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		fatalf("lookup user: %v", err)
	}

	hasher := password.NewBcryptHasher(0)
	hash, err := hasher.Hash(*pass)
	if err != nil {
		fatalf("hash password: %v", err)
	}

	admin := &models.User{
		Username:     strings.ToLower(strings.TrimSpace(*username)),
		Email:        strings.ToLower(strings.TrimSpace(*email)),
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			fatalf("username or email already taken")
		}
		fatalf("create admin: %v", err)
	}
	fmt.Printf("created admin %q (id=%d)\n", admin.Username, admin.ID)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "create-admin: "+format+"\n", args...)
	os.Exit(1)
}
