// internal/database/seed.go
package database

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/product-inventory/internal/models"
	"github.com/javajoker/product-inventory/internal/utils"
)

var (
	seedAdjectives = []string{"Ergonomic", "Rustic", "Sleek", "Handcrafted", "Refined", "Practical", "Gorgeous", "Modern", "Compact", "Durable"}
	seedMaterials  = []string{"Steel", "Wooden", "Cotton", "Granite", "Plastic", "Rubber", "Bamboo", "Leather", "Glass", "Ceramic"}
	seedNouns      = []string{"Chair", "Table", "Keyboard", "Lamp", "Bottle", "Backpack", "Mug", "Shelf", "Speaker", "Notebook"}
	seedCategories = []string{"Home", "Garden", "Electronics", "Outdoors", "Kitchen", "Office", "Sports", "Toys"}
	seedSuppliers  = []string{"Acme Corp", "Globex", "Initech", "Umbrella Supply", "Stark Industries", "Wayne Enterprises"}
)

// SeedProducts inserts count random products owned by ownerID. Rows that
// collide with existing name, sku or barcode values are skipped; the number
// of rows actually inserted is returned.
func SeedProducts(ctx context.Context, db *gorm.DB, ownerID uint, count int) (int64, error) {
	if count <= 0 {
		return 0, nil
	}

	products := make([]models.Product, 0, count)
	for i := 0; i < count; i++ {
		product, err := randomProduct(ownerID)
		if err != nil {
			return 0, fmt.Errorf("failed to generate product: %w", err)
		}
		products = append(products, product)
	}

	result := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(products, 50)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to seed products: %w", result.Error)
	}

	logrus.WithFields(logrus.Fields{
		"requested": count,
		"inserted":  result.RowsAffected,
		"owner_id":  ownerID,
	}).Info("Seeded products")
	return result.RowsAffected, nil
}

func randomProduct(ownerID uint) (models.Product, error) {
	suffix, err := utils.RandomCode(6)
	if err != nil {
		return models.Product{}, err
	}
	sku, err := utils.RandomCode(10)
	if err != nil {
		return models.Product{}, err
	}
	barcode, err := utils.RandomString(utils.DigitCharset, 12)
	if err != nil {
		return models.Product{}, err
	}

	name := fmt.Sprintf("%s %s %s %s", pick(seedAdjectives), pick(seedMaterials), pick(seedNouns), suffix)
	description := fmt.Sprintf("The %s is built for everyday use.", strings.ToLower(name))
	category := pick(seedCategories)
	supplier := pick(seedSuppliers)
	imageURL := fmt.Sprintf("https://picsum.photos/seed/%s/640/480", suffix)

	return models.Product{
		Name:        name,
		Description: &description,
		SKU:         sku,
		Price:       decimal.New(int64(rand.Intn(100000)+100), -2),
		Quantity:    rand.Intn(1001),
		Category:    &category,
		ImageURL:    &imageURL,
		Supplier:    &supplier,
		Barcode:     barcode,
		IsActive:    rand.Intn(2) == 0,
		UserID:      ownerID,
	}, nil
}

func pick(values []string) string {
	return values[rand.Intn(len(values))]
}
