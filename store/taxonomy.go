package store

import (
	"encoding/json"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/mpedroso/acontece/classify"
	"github.com/mpedroso/acontece/model"
)

// keywordsOf decodes a JSONB keyword list. A null or malformed column is
// treated as an empty list rather than an error: a bad keyword list should
// leave an article unclassified, not break the pipeline.
func keywordsOf(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var keywords []string
	if err := json.Unmarshal(raw, &keywords); err != nil {
		return nil
	}
	return keywords
}

// CategoryEntries loads every category as a classifier dictionary, in
// creation order. Iteration order matters: it is the classifier tie-break.
func CategoryEntries(db *gorm.DB) ([]classify.Entry, error) {
	var categories []model.Category
	if err := db.Order("created_at ASC").Find(&categories).Error; err != nil {
		return nil, errors.Wrap(err, "fail to load categories")
	}

	entries := make([]classify.Entry, 0, len(categories))
	for _, c := range categories {
		entries = append(entries, classify.Entry{Id: c.Id, Keywords: keywordsOf(c.Keywords)})
	}
	return entries, nil
}

// RegionEntries loads every region as a classifier dictionary, in creation
// order. List order matters: region matching is first-hit-wins.
func RegionEntries(db *gorm.DB) ([]classify.Entry, error) {
	var regions []model.Region
	if err := db.Order("created_at ASC").Find(&regions).Error; err != nil {
		return nil, errors.Wrap(err, "fail to load regions")
	}

	entries := make([]classify.Entry, 0, len(regions))
	for _, r := range regions {
		entries = append(entries, classify.Entry{Id: r.Id, Keywords: keywordsOf(r.Keywords)})
	}
	return entries, nil
}

func ListCategories(db *gorm.DB) ([]model.Category, error) {
	var categories []model.Category
	err := db.Order("name ASC").Find(&categories).Error
	return categories, err
}

func ListRegions(db *gorm.DB) ([]model.Region, error) {
	var regions []model.Region
	err := db.Order("name ASC").Find(&regions).Error
	return regions, err
}

func GetRegionBySlug(db *gorm.DB, slug string) (*model.Region, error) {
	var region model.Region
	if err := db.First(&region, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &region, nil
}

func GetCategoryBySlug(db *gorm.DB, slug string) (*model.Category, error) {
	var category model.Category
	if err := db.First(&category, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func CreateCategory(db *gorm.DB, category *model.Category) error {
	return db.Create(category).Error
}

func CreateRegion(db *gorm.DB, region *model.Region) error {
	return db.Create(region).Error
}

// Deleting a category or region leaves referencing articles unclassified (FK
// is SET NULL), it never cascades into articles.
func DeleteCategory(db *gorm.DB, id string) error {
	return db.Delete(&model.Category{}, "id = ?", id).Error
}

func DeleteRegion(db *gorm.DB, id string) error {
	return db.Delete(&model.Region{}, "id = ?", id).Error
}
