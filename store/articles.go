package store

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/mpedroso/acontece/model"
	"github.com/mpedroso/acontece/utils"
)

// visibleNow scopes a query to publicly visible articles: published, with a
// publish timestamp that is set and not in the future.
func visibleNow(db *gorm.DB, now time.Time) *gorm.DB {
	return db.Where("status = ? AND published_at IS NOT NULL AND published_at <= ?",
		model.StatusPublished, now)
}

// InsertArticle persists a freshly ingested article. The caller is expected
// to have set NormalizedTitle; a unique index on (source_name,
// normalized_title) rejects duplicates racing past the pre-insert check.
func InsertArticle(db *gorm.DB, article *model.Article) error {
	return db.Create(article).Error
}

// TitleExists is the friendly pre-insert duplicate check. The unique index is
// the real guarantee; this check only exists to log a skip instead of
// surfacing a constraint violation.
func TitleExists(db *gorm.DB, sourceName, title string) (bool, error) {
	var count int64
	err := db.Model(&model.Article{}).
		Where("source_name = ? AND normalized_title = ?", sourceName, utils.NormalizeTitle(title)).
		Count(&count).Error
	return count > 0, err
}

// PublishedForRegion returns publicly visible articles for a region, newest
// first, optionally narrowed to a category slug. limit must already be
// clamped by the caller.
func PublishedForRegion(db *gorm.DB, regionId string, categorySlug string, limit int) ([]model.Article, error) {
	query := visibleNow(db, time.Now()).
		Where("region_id = ?", regionId).
		Preload("Category").Preload("Region").
		Order("published_at DESC").
		Limit(limit)
	if categorySlug != "" {
		query = query.Joins("JOIN categories ON categories.id = articles.category_id").
			Where("categories.slug = ?", categorySlug)
	}

	var articles []model.Article
	err := query.Find(&articles).Error
	return articles, errors.Wrap(err, "fail to load published articles for region")
}

// RecentPublished returns the newest publicly visible, fully classified
// articles for feed generation, optionally scoped to a category or region
// slug (empty string means no scoping).
func RecentPublished(db *gorm.DB, categorySlug, regionSlug string, limit int) ([]model.Article, error) {
	query := visibleNow(db, time.Now()).
		Where("category_id IS NOT NULL AND region_id IS NOT NULL").
		Preload("Category").Preload("Region").
		Order("published_at DESC").
		Limit(limit)
	if categorySlug != "" {
		query = query.Joins("JOIN categories ON categories.id = articles.category_id").
			Where("categories.slug = ?", categorySlug)
	}
	if regionSlug != "" {
		query = query.Joins("JOIN regions ON regions.id = articles.region_id").
			Where("regions.slug = ?", regionSlug)
	}

	var articles []model.Article
	err := query.Find(&articles).Error
	return articles, errors.Wrap(err, "fail to load recent published articles")
}

// PublishedBatch pages through every publicly visible article with a
// non-empty slug, for sitemap generation. Returns an empty slice once offset
// runs past the end.
func PublishedBatch(db *gorm.DB, offset, batchSize int) ([]model.Article, error) {
	var articles []model.Article
	err := visibleNow(db, time.Now()).
		Where("slug <> ''").
		Order("published_at DESC").
		Offset(offset).
		Limit(batchSize).
		Find(&articles).Error
	return articles, errors.Wrap(err, "fail to load published article batch")
}

// ListArticles returns articles filtered by status ("" means all), newest
// first, paginated. For the admin dashboard.
func ListArticles(db *gorm.DB, status string, offset, limit int) ([]model.Article, error) {
	query := db.Preload("Category").Preload("Region").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var articles []model.Article
	err := query.Find(&articles).Error
	return articles, err
}

// GetArticle loads one article with its classification preloaded.
func GetArticle(db *gorm.DB, id string) (*model.Article, error) {
	var article model.Article
	err := db.Preload("Category").Preload("Region").First(&article, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// UpdateArticleStatus transitions an article between lifecycle states.
// Publishing stamps published_at, any other transition clears it.
func UpdateArticleStatus(db *gorm.DB, id, status string) error {
	updates := map[string]interface{}{"status": status, "published_at": nil}
	if status == model.StatusPublished {
		updates["published_at"] = time.Now()
	}
	res := db.Model(&model.Article{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteArticle hard-deletes an article. Explicit admin action only.
func DeleteArticle(db *gorm.DB, id string) error {
	return db.Delete(&model.Article{}, "id = ?", id).Error
}
