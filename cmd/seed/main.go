// Command seed loads a starter catalogue into the pets collection for
// local development. Existing listings are wiped first.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/petes-emporium/pet-store/internal/adapter/repository/mongodb"
	"github.com/petes-emporium/pet-store/internal/config"
	"github.com/petes-emporium/pet-store/internal/pet/domain"
	"github.com/petes-emporium/pet-store/internal/platform/logger"
)

func seedPets() []*domain.Pet {
	day := func(y, m, d int) time.Time {
		return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	}
	return []*domain.Pet{
		{
			Name: "Rex", Species: "Rottweiler", FavoriteFood: "Chicken",
			Birthday: day(2017, 11, 11), Price: 299.99,
			Description: "Rex is a magnificent Rottweiler with a heart of gold. This loyal companion loves to play fetch, go on long walks, and cuddle with his family. Rex is well-trained, gentle with children, and makes an excellent guard dog. He enjoys chicken treats and is always ready for adventure. Perfect for an active family looking for a devoted friend.",
		},
		{
			Name: "Fido", Species: "Greyhound", FavoriteFood: "Liver",
			Birthday: day(2018, 11, 11), Price: 199.99,
			Description: "Fido is a graceful Greyhound with incredible speed and gentle nature. This retired racing dog loves to sprint in open spaces and then curl up for long naps. Fido is calm, quiet, and perfect for apartment living. He adores liver treats and is great with other dogs. Ideal for someone seeking a low-maintenance, elegant companion.",
		},
		{
			Name: "Rolfe", Species: "Pitbull", FavoriteFood: "Beef",
			Birthday: day(2019, 3, 15), Price: 249.99,
			Description: "Rolfe is a loving Pitbull with a big heart and even bigger smile. Despite his muscular build, he's incredibly gentle and loves belly rubs. Rolfe enjoys playing tug-of-war, going for runs, and meeting new people. He's great with kids and other pets. This loyal friend will bring endless joy and protection to your home.",
		},
		{
			Name: "Princhi", Species: "West Highland White Terrier", FavoriteFood: "Fish",
			Birthday: day(2020, 6, 20), Price: 399.99,
			Description: "Princhi is an adorable West Highland White Terrier with a fluffy white coat and sparkling personality. This little bundle of energy loves to play, dig, and explore. Princhi is intelligent, independent, and makes a wonderful companion for active families. He enjoys fish treats and loves to be the center of attention. Perfect for someone who wants a small but spirited friend.",
		},
		{
			Name: "Mr. Fluffles", Species: "Poodle", FavoriteFood: "Chicken",
			Birthday: day(2018, 9, 10), Price: 349.99,
			Description: "Mr. Fluffles is a sophisticated Poodle with curly black fur and an elegant demeanor. This highly intelligent dog loves to learn tricks, play games, and show off his skills. Mr. Fluffles is hypoallergenic, making him perfect for families with allergies. He enjoys chicken treats and loves to be groomed. Ideal for someone seeking a smart, trainable, and beautiful companion.",
		},
		{
			Name: "Santa's Little Helper", Species: "Mixed", FavoriteFood: "Pork",
			Birthday: day(2017, 12, 25), Price: 149.99,
			Description: "Santa's Little Helper is a charming mixed breed with a heartwarming story. This sweet dog was found during the holidays and has been spreading joy ever since. He loves pork treats, playing with toys, and meeting new friends. Santa's Little Helper is gentle, adaptable, and perfect for any family. His mixed heritage makes him unique and special. A true holiday miracle waiting for a forever home.",
		},
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewNamed(cfg.AppEnv, "pet-store-seed")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	db := client.Database(cfg.MongoDB)
	if err := db.Collection("pets").Drop(ctx); err != nil {
		log.Fatal("failed to clear pets collection", zap.Error(err))
	}

	repo := mongodb.NewPetRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatal("failed to create indexes", zap.Error(err))
	}

	for _, pet := range seedPets() {
		if err := repo.Create(ctx, pet); err != nil {
			log.Fatal("failed to insert pet", zap.String("name", pet.Name), zap.Error(err))
		}
		log.Info("seeded pet", zap.String("name", pet.Name), zap.Float64("price", pet.Price))
	}
	log.Info("seed complete", zap.Int("count", len(seedPets())))
}
