// Package main implements the entry point for the datacube pipeline, which
// turns an area of interest into grid-aligned tile jobs, executes them
// concurrently, and commits the successful subset into the array store.
package main

import (
	"context"
	"log"
)

func main() {
	a, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := a.run(context.Background()); err != nil {
		a.logger.Error("pipeline run failed", "error", err)
		log.Fatalf("Pipeline run failed: %v", err)
	}
}
