package main

import (
	"log"
	"os"
	"strconv"

	"kiwiledger/cmd"

	_ "github.com/lib/pq"
)

func main() {
	apiHandler, cleanup, err := cmd.InitializeDependencies()
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := cleanup(); err != nil {
			log.Printf("failed to close dependencies: %v", err)
		}
	}()

	port := 3009
	if v := os.Getenv("KIWI_PORT"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid KIWI_PORT %q: %v", v, err)
		}
		port = parsed
	}

	if err := apiHandler.StartApi(port); err != nil {
		log.Fatal(err)
	}
}
