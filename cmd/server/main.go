// cmd/server is the serve-only entry point for container deployments where
// the full CLI is not needed.
package main

import (
	"log"

	"github.com/shashiranjanraj/sklad/internal/server"
)

func main() {
	if err := server.Start(); err != nil {
		log.Fatal(err)
	}
}
