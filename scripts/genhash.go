// One-off: go run scripts/genhash.go [password]
// Prints a password_hash value for seeding a users row by hand.
package main

import (
	"fmt"
	"os"

	"taskmanager/internal/auth"
)

func main() {
	password := "admin"
	if len(os.Args) > 1 {
		password = os.Args[1]
	}
	h, err := auth.HashPassword(password)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Print(h)
}
