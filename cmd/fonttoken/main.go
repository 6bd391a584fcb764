// Command fonttoken prints an HS256 bearer token accepted by the write
// protection mode (AUTH_JWT_SECRET).
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/typeshelf/typeshelf/backend/go-services/internal/tokens"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("fonttoken", flag.ContinueOnError)
	sub := fs.String("sub", "admin", "token subject")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	envFile := fs.String("env", ".env", "optional .env file holding AUTH_JWT_SECRET")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	_ = godotenv.Load(*envFile)

	raw, err := tokens.GenerateAccessToken(os.Getenv("AUTH_JWT_SECRET"), *sub, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fonttoken: %v (set AUTH_JWT_SECRET)\n", err)
		return 1
	}
	fmt.Println(raw)
	return 0
}
