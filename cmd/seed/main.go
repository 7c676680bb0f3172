package main

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kashtn/nail-studio/internal/catalog"
	"github.com/kashtn/nail-studio/internal/config"
	"github.com/kashtn/nail-studio/internal/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Fatal(err)
	}

	seeded := 0
	for _, svc := range catalog.DefaultServices(time.Now().In(cfg.Timezone)) {
		filter := bson.M{"_id": svc.ID}
		update := bson.M{
			"$setOnInsert": bson.M{
				"name":        svc.Name,
				"description": svc.Description,
				"price":       svc.Price,
				"duration":    svc.Duration,
				"category":    svc.Category,
				"image_url":   svc.ImageURL,
				"slug":        svc.Slug,
				"created_at":  svc.CreatedAt,
			},
		}

		result, err := cols.Services.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
		if err != nil {
			log.Fatalf("seed service %d: %v", svc.ID, err)
		}
		if result.UpsertedCount > 0 {
			seeded++
		}
	}

	log.Printf("seed done: %d services inserted", seeded)
}
