package main

import (
	"log"

	"github.com/cloudherder/cloudherder/pkg/api"
)

func main() {
	if err := api.Serve(); err != nil {
		log.Fatal(err)
	}
}
