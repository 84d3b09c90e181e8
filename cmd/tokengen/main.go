// Package main provides a CLI tool for generating test tokens for the campus
// services. These tokens use the dev signing key by default and will NOT work
// in production.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"campus/internal/token"

	"github.com/google/uuid"
)

const (
	// Dev signing key - matches config.go when JWT_SECRET is not set
	devSigningKey = "dev-secret-key-change-in-production"

	defaultIssuer = "campus"
	defaultTTL    = 15 * time.Minute
)

type tokenOutput struct {
	Token     string `json:"token"`
	Subject   string `json:"subject"`
	Role      string `json:"role"`
	ExpiresIn string `json:"expires_in"`
	Usage     string `json:"usage"`
}

func main() {
	roleFlag := flag.String("role", "", "Role: admin, teacher, or student (required)")
	subFlag := flag.String("sub", "", "Subject ID (UUID). Generated if empty.")
	secretFlag := flag.String("secret", devSigningKey, "Signing key (must match the services' JWT_SECRET)")
	issuerFlag := flag.String("issuer", defaultIssuer, "Token issuer claim")
	ttlFlag := flag.Duration("ttl", defaultTTL, "Token time-to-live")
	jsonFlag := flag.Bool("json", false, "Output as JSON")
	flag.Parse()

	role, err := token.ParseRole(*roleFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tokengen: %v (use -role admin|teacher|student)\n", err)
		os.Exit(1)
	}

	subject := *subFlag
	if subject == "" {
		subject = uuid.NewString()
	}

	svc := token.NewService(*secretFlag, *issuerFlag, *ttlFlag)
	signed, err := svc.Mint(subject, role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tokengen: %v\n", err)
		os.Exit(1)
	}

	if *jsonFlag {
		out := tokenOutput{
			Token:     signed,
			Subject:   subject,
			Role:      string(role),
			ExpiresIn: ttlFlag.String(),
			Usage:     "Authorization: Bearer <token>",
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
		return
	}

	fmt.Println(signed)
}
