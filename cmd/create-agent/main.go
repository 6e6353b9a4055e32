package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/create-agent/main.go <api-key>")
		fmt.Println("Example: go run cmd/create-agent/main.go \"agent-key-12345\"")
		os.Exit(1)
	}

	apiKey := os.Args[1]

	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash API key: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Agent API key hash generated.\n\n")
	fmt.Printf("Add to your environment:\n")
	fmt.Printf("AGENT_API_KEY_HASH=%s\n", string(hash))
	fmt.Printf("\nAgents authenticate with:\n")
	fmt.Printf("Authorization: Bearer %s\n", apiKey)
}
