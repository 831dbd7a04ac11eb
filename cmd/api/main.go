package main

import (
	"context"
	"log"

	"github.com/atomtables/summer-of-making/internal/app/bootstrap"
)

// API process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring (postgres, matchup module, http server).
// 3) Serve HTTP until the process exits.
//
// @title Summer of Making Voting API
// @version 1.0
// @description Matchup issuance and vote recording for shipped projects.
// @BasePath /
func main() {
	log.Println("summer-of-making api starting")
	app, err := bootstrap.BuildAPI()
	if err != nil {
		log.Fatalf("bootstrap api failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("api shutdown close failed: %v", err)
		}
	}()

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("summer-of-making api stopped with error: %v", err)
	}
}
