package store

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/mpedroso/acontece/model"
)

// ActiveSources returns the sources the pipeline will visit, in name order
// for stable run logs.
func ActiveSources(db *gorm.DB) ([]model.NewsSource, error) {
	var sources []model.NewsSource
	err := db.Where("active = ?", true).Order("name ASC").Find(&sources).Error
	return sources, errors.Wrap(err, "fail to load active sources")
}

func ListSources(db *gorm.DB) ([]model.NewsSource, error) {
	var sources []model.NewsSource
	err := db.Order("name ASC").Find(&sources).Error
	return sources, err
}

func CreateSource(db *gorm.DB, source *model.NewsSource) error {
	return db.Create(source).Error
}

func UpdateSource(db *gorm.DB, source *model.NewsSource) error {
	res := db.Model(&model.NewsSource{}).Where("id = ?", source.Id).Updates(map[string]interface{}{
		"name":        source.Name,
		"base_url":    source.BaseUrl,
		"rss_url":     source.RssUrl,
		"trust_score": source.TrustScore,
		"active":      source.Active,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func DeleteSource(db *gorm.DB, id string) error {
	return db.Delete(&model.NewsSource{}, "id = ?", id).Error
}
