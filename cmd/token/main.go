package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/khaisazumma/rebooku-sub000/internal/config"
	"github.com/khaisazumma/rebooku-sub000/internal/middleware"
	"github.com/khaisazumma/rebooku-sub000/internal/model"
)

// token prints a bearer token signed with AUTH_JWT_SECRET that lives for AUTH_TOKEN_TTL.
// Login is handled by the identity provider; this is for local runs and ops.
func main() {
	userID := flag.String("user", "", "user id placed in the sub claim")
	role := flag.String("role", string(model.RoleUser), "user or admin")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "-user is required")
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	tok, err := middleware.IssueConfiguredToken(cfg.Auth, *userID, model.Role(*role))
	if err != nil {
		fmt.Fprintf(os.Stderr, "sign token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
