// One-off: go run scripts/gentoken.go <user-id> [email]
// Mints a bearer token with TOKEN_KEY and TOKEN_TTL from the environment.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/vaheaslanyan/hoopscoop-backend/internal/auth"
	"github.com/vaheaslanyan/hoopscoop-backend/internal/utils"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gentoken <user-id> [email]")
		os.Exit(2)
	}
	key := os.Getenv("TOKEN_KEY")
	if key == "" {
		fmt.Fprintln(os.Stderr, "TOKEN_KEY is not set")
		os.Exit(1)
	}
	ttl := time.Hour
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		d, err := utils.ParseDurationEnv(raw)
		if err != nil {
			panic(err)
		}
		ttl = d
	}
	email := ""
	if len(os.Args) > 2 {
		email = os.Args[2]
	}
	token, err := auth.NewTokens(key, ttl).Issue(os.Args[1], email)
	if err != nil {
		panic(err)
	}
	fmt.Print(token)
}
