// Command seed bulk-imports word definitions from a JSON file and approves
// them, for bootstrapping a fresh database. Running it also ensures the
// collection indexes exist.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/desidict/backend/internal/config"
	"github.com/desidict/backend/internal/logger"
	"github.com/desidict/backend/internal/models"
	"github.com/desidict/backend/internal/services"
)

func main() {
	logger.Init()

	var (
		file    = flag.String("file", "words.json", "JSON array of word submissions")
		approve = flag.Bool("approve", true, "mark imported words approved")
	)
	flag.Parse()

	cfg := config.Load()
	if cfg.MongoURI == "" {
		log.Fatal().Msg("MONGO_URI is required")
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("Failed to read input")
	}

	var reqs []models.SubmitWordRequest
	if err := json.Unmarshal(raw, &reqs); err != nil {
		log.Fatal().Err(err).Msg("Failed to parse input")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	words, err := services.NewMongoWordService(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect word store")
	}
	defer words.Close(context.Background())

	author := models.Author{Subject: "seed", Name: "Dictionary Team"}

	imported := 0
	for i := range reqs {
		req := &reqs[i]
		if errs := req.Validate(); len(errs) > 0 {
			log.Warn().Str("word", req.Word).Interface("errors", errs).Msg("Skipping invalid entry")
			continue
		}

		word, err := words.Submit(ctx, author, req)
		if err != nil {
			log.Error().Err(err).Str("word", req.Word).Msg("Import failed")
			continue
		}
		if *approve {
			if err := words.SetStatus(ctx, word.ID, models.WordStatusApproved); err != nil {
				log.Error().Err(err).Str("word_id", word.ID).Msg("Approve failed")
				continue
			}
		}
		imported++
	}

	log.Info().Int("imported", imported).Int("total", len(reqs)).Msg("Seed complete")
}
