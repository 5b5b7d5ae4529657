// Server-only entry point. Equivalent to `sweetshop serve` without the
// management commands; handy for container images.
package main

import (
	"log"

	"github.com/shashiranjanraj/sweetshop/internal/server"

	_ "github.com/shashiranjanraj/sweetshop/database/migrations"
	_ "github.com/shashiranjanraj/sweetshop/database/seeders"
)

func main() {
	if err := server.Start(); err != nil {
		log.Fatal(err)
	}
}
