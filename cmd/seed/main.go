// Command seed loads the ingredient and tag catalog from JSON fixtures.
//
//	seed -ingredients data/ingredients.json -tags data/tags.json
//
// Existing catalog rows are left untouched.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/platefeed/backend/config"
	"github.com/platefeed/backend/internal/database"
	"github.com/platefeed/backend/internal/models"
)

func main() {
	ingredientsPath := flag.String("ingredients", "", "path to the ingredients JSON fixture")
	tagsPath := flag.String("tags", "", "path to the tags JSON fixture")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	if *ingredientsPath != "" {
		n, err := seedIngredients(db, *ingredientsPath)
		if err != nil {
			logger.Fatal("failed to seed ingredients", zap.Error(err))
		}
		logger.Info("ingredients loaded", zap.Int("count", n))
	}
	if *tagsPath != "" {
		n, err := seedTags(db, *tagsPath)
		if err != nil {
			logger.Fatal("failed to seed tags", zap.Error(err))
		}
		logger.Info("tags loaded", zap.Int("count", n))
	}
}

func seedIngredients(db *gorm.DB, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var ingredients []models.Ingredient
	if err := json.Unmarshal(data, &ingredients); err != nil {
		return 0, err
	}
	if len(ingredients) == 0 {
		return 0, nil
	}

	err = db.Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&ingredients, 500).Error
	return len(ingredients), err
}

func seedTags(db *gorm.DB, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var tags []models.Tag
	if err := json.Unmarshal(data, &tags); err != nil {
		return 0, err
	}
	if len(tags) == 0 {
		return 0, nil
	}

	err = db.Clauses(clause.OnConflict{DoNothing: true}).Create(&tags).Error
	return len(tags), err
}
