// Command create-user seeds an account and prints a session token for it.
// It is meant for local development and smoke tests.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/linkly/linkly/internal/auth"
	"github.com/linkly/linkly/internal/cache"
	"github.com/linkly/linkly/internal/model"
	"github.com/linkly/linkly/internal/repository"
	"github.com/linkly/linkly/internal/service"
)

type output struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Created   bool      `json:"created"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		redisURL    = flag.String("redis-url", os.Getenv("REDIS_URL"), "Redis connection string; empty skips the session token")
		secret      = flag.String("session-secret", envOrDefault("SESSION_SECRET", "linkly-dev-session-secret"), "Session signing secret")
		name        = flag.String("name", "Dev User", "Display name")
		email       = flag.String("email", "dev@linkly.local", "Account email")
		password    = flag.String("password", "DevPassw0rd", "Account password")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := repository.New(*databaseURL, repository.Options{MaxAttempts: 3})
	if err != nil {
		fmt.Fprintln(os.Stderr, "configure database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	if err := repo.Connect(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	if err := repository.Migrate(*databaseURL); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}

	accounts := service.NewAccountService(repo, repo, auth.NewBcryptHasher(auth.DefaultBcryptCost), nil)
	user, created, err := ensureUser(ctx, accounts, *name, *email, *password)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	out := output{UserID: user.ID, Email: user.Email, Created: created}

	if *redisURL != "" {
		cacheClient, err := cache.New(ctx, *redisURL)
		if err != nil {
			fmt.Fprintln(os.Stderr, "connect redis:", err)
			os.Exit(1)
		}
		defer cacheClient.Close()

		sessions := auth.NewSessionManager(cacheClient, *secret, 24*time.Hour)
		token, session, err := sessions.Issue(ctx, user.ID)
		if err != nil {
			fmt.Fprintln(os.Stderr, "issue session:", err)
			os.Exit(1)
		}
		out.Token = token
		out.ExpiresAt = session.ExpiresAt
	}

	switch strings.ToLower(*format) {
	case "plain":
		if out.Token != "" {
			fmt.Println(out.Token)
		} else {
			fmt.Println(out.UserID)
		}
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

// ensureUser signs the account up, or logs in if the email is taken.
func ensureUser(ctx context.Context, accounts *service.AccountService, name, email, password string) (*model.User, bool, error) {
	user, err := accounts.Signup(ctx, service.SignupInput{Name: name, Email: email, Password: password})
	if err == nil {
		return user, true, nil
	}
	if !errors.Is(err, service.ErrEmailTaken) {
		return nil, false, fmt.Errorf("create user: %w", err)
	}

	user, err = accounts.Login(ctx, email, password)
	if err != nil {
		return nil, false, fmt.Errorf("email %s already registered with another password: %w", email, err)
	}
	return user, false, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
