package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/foodgram-app/backend/config"
	"github.com/foodgram-app/backend/internal/database"
	"github.com/foodgram-app/backend/internal/models"
)

type ingredientFixture struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// Loads the ingredient catalog from a JSON fixture. Existing names are
// left untouched, so reseeding is safe.
func main() {
	path := flag.String("file", "data/ingredients.json", "Path to the ingredients JSON fixture")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	raw, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("Failed to read fixture %s: %v", *path, err)
	}

	var fixtures []ingredientFixture
	if err := json.Unmarshal(raw, &fixtures); err != nil {
		log.Fatalf("Failed to parse fixture: %v", err)
	}

	rows := make([]models.Ingredient, 0, len(fixtures))
	for _, f := range fixtures {
		if f.Name == "" || f.MeasurementUnit == "" {
			log.Printf("Skipping incomplete entry: %+v", f)
			continue
		}
		rows = append(rows, models.Ingredient{
			ID:              uuid.New(),
			Name:            f.Name,
			MeasurementUnit: f.MeasurementUnit,
		})
	}

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).CreateInBatches(&rows, 500)
	if result.Error != nil {
		log.Fatalf("Failed to seed ingredients: %v", result.Error)
	}

	log.Printf("Seeded %d ingredients (%d entries in fixture)", result.RowsAffected, len(fixtures))
}
