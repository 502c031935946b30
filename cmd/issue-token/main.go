// Command issue-token mints a bearer token for the assign-role endpoint.
//
//	API_JWT_SECRET=... go run ./cmd/issue-token --client syria-website --ttl 720h
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"github.com/syria-community/role-bridge/internal/util"
)

func main() {
	client := flag.String("client", "", "name of the calling service")
	ttl := flag.Duration("ttl", 0, "token lifetime, 0 for no expiry")
	flag.Parse()

	_ = godotenv.Load()
	secret := os.Getenv("API_JWT_SECRET")
	if secret == "" {
		log.Fatal("API_JWT_SECRET is not set")
	}

	token, expiresAt, err := util.NewJWTManager(secret, *ttl).Generate(*client)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}
	fmt.Println(token)
	if !expiresAt.IsZero() {
		fmt.Fprintf(os.Stderr, "expires %s\n", expiresAt.UTC().Format(time.RFC3339))
	}
}
