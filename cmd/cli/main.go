package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"leafside-client/pkg/container"
	"leafside-client/pkg/logger"
)

func main() {
	// Load từ .env file (development/local); production environments
	// provide real environment variables.
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	env := getEnv("APP_ENV", "development")
	logger.Init(env)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	ctx := context.Background()

	appContainer, err := container.NewContainer(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to initialize container: %v", err)
	}
	defer appContainer.Cleanup()

	if err := dispatch(ctx, appContainer, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func printUsage() {
	fmt.Fprint(os.Stderr, `leafside - LeafSide bookstore client

Usage:
  leafside books                     list the catalog
  leafside book <id>                 show one book
  leafside cart                      show the current cart
  leafside cart add <bookId> [qty]   add a book to the cart
  leafside cart set <bookId> <qty>   set a line's quantity (0 removes)
  leafside cart remove <bookId>      remove a line
  leafside cart clear                empty the cart
  leafside cart refresh              reload from the authoritative backend
  leafside login <email> <password>  sign in
  leafside register <email> <password>
  leafside logout                    sign out
  leafside profile                   show the account profile
  leafside orders                    list past orders
  leafside checkout [flags]          place an order from the cart
`)
}
