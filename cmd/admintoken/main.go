// Command admintoken prints a signed bearer token for the /admin API.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"commission-service/internal/auth"
)

func main() {
	subject := flag.String("sub", "owner", "token subject")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("ADMIN_JWT_SECRET")
	if secret == "" {
		log.Fatal("ADMIN_JWT_SECRET is not set")
	}

	token, expiresAt, err := auth.NewJWTService(secret).IssueAdminToken(*subject, *ttl)
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}
	fmt.Fprintf(os.Stderr, "expires %s\n", expiresAt.UTC().Format(time.RFC3339))
	fmt.Println(token)
}
