package audit

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/mpedroso/acontece/model"
	Logger "github.com/mpedroso/acontece/utils/log"
)

// Failure reasons reported by the post-publish audit.
const (
	ReasonCorruptedText    = "corrupted_text"
	ReasonMissingImage     = "missing_image"
	ReasonPlaceholderImage = "placeholder_image"
	ReasonImageUnreachable = "image_unreachable"
	ReasonImageTooSmall    = "image_too_small"
	ReasonNotAnImage       = "not_an_image"
	ReasonExternalNotImage = "external_not_image"
	ReasonTitleTooShort    = "title_too_short"
)

// ArticleFailure is the per-article reason list of a failed audit.
type ArticleFailure struct {
	ArticleId string   `json:"article_id"`
	Title     string   `json:"title"`
	Reasons   []string `json:"reasons"`
}

// Report aggregates one post-publish audit run.
type Report struct {
	Audited  int              `json:"audited"`
	Passed   int              `json:"passed"`
	Demoted  int              `json:"demoted"`
	Failures []ArticleFailure `json:"failures"`
}

// PostPublishAuditor re-validates already-published articles and demotes the
// non-compliant ones back to recycled. This is the only place the system
// undoes a publish decision after the fact; demoted articles re-enter the
// manual review queue and are never re-published automatically.
type PostPublishAuditor struct {
	DB     *gorm.DB
	Prober ImageProber

	// Image urls under this prefix are internally hosted bucket objects and
	// must exceed MinImageBytes to rule out broken or placeholder assets. Any
	// other http(s) url gets only a reachability plus content-type check.
	StoragePublicPrefix string
	MinImageBytes       int64
	MinTitleLength      int
}

// Run audits every published article. Individual failures, network errors
// included, never abort the batch: a fetch failure fails closed and counts
// against that article only.
func (a *PostPublishAuditor) Run(ctx context.Context) (*Report, error) {
	var articles []model.Article
	if err := a.DB.Where("status = ?", model.StatusPublished).Find(&articles).Error; err != nil {
		return nil, err
	}

	report := &Report{Audited: len(articles)}
	for i := range articles {
		article := &articles[i]
		reasons := a.checkArticle(ctx, article)
		if len(reasons) == 0 {
			report.Passed++
			continue
		}

		if err := a.demote(article); err != nil {
			Logger.Log.Errorf("fail to demote article %s: %s", article.Id, err)
			continue
		}
		Logger.Log.Infof("demoted article %s (%q): %s", article.Id, article.Title, strings.Join(reasons, ", "))
		report.Demoted++
		report.Failures = append(report.Failures, ArticleFailure{
			ArticleId: article.Id,
			Title:     article.Title,
			Reasons:   reasons,
		})
	}
	return report, nil
}

func (a *PostPublishAuditor) checkArticle(ctx context.Context, article *model.Article) []string {
	var reasons []string

	combined := strings.Join([]string{article.Title, article.Excerpt, article.Content}, "\n")
	if ContainsCorruptedText(combined) {
		reasons = append(reasons, ReasonCorruptedText)
	}

	if len([]rune(strings.TrimSpace(article.Title))) < a.MinTitleLength {
		reasons = append(reasons, ReasonTitleTooShort)
	}

	reasons = append(reasons, a.checkImage(ctx, article.ImageUrl)...)
	return reasons
}

func (a *PostPublishAuditor) checkImage(ctx context.Context, imageUrl string) []string {
	trimmed := strings.TrimSpace(imageUrl)
	switch {
	case trimmed == "":
		return []string{ReasonMissingImage}
	case strings.Contains(strings.ToLower(trimmed), "placeholder"):
		return []string{ReasonPlaceholderImage}
	case strings.HasPrefix(trimmed, a.StoragePublicPrefix):
		return a.checkStoredImage(ctx, trimmed)
	case strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://"):
		return a.checkExternalImage(ctx, trimmed)
	default:
		return []string{ReasonImageUnreachable}
	}
}

// Stored bucket objects are fully under our control, so beyond reachability
// we also require a minimum byte size to catch broken uploads.
func (a *PostPublishAuditor) checkStoredImage(ctx context.Context, url string) []string {
	res, err := a.Prober.Probe(ctx, url)
	if err != nil || res.StatusCode >= 300 {
		return []string{ReasonImageUnreachable}
	}
	if !strings.HasPrefix(res.ContentType, "image/") {
		return []string{ReasonNotAnImage}
	}
	if res.ContentLength >= 0 && res.ContentLength < a.MinImageBytes {
		return []string{ReasonImageTooSmall}
	}
	return nil
}

// External images get only a lightweight existence probe.
func (a *PostPublishAuditor) checkExternalImage(ctx context.Context, url string) []string {
	res, err := a.Prober.Probe(ctx, url)
	if err != nil || res.StatusCode >= 300 {
		return []string{ReasonImageUnreachable}
	}
	if !strings.HasPrefix(res.ContentType, "image/") {
		return []string{ReasonExternalNotImage}
	}
	return nil
}

func (a *PostPublishAuditor) demote(article *model.Article) error {
	return a.DB.Model(article).Updates(map[string]interface{}{
		"status":       model.StatusRecycled,
		"published_at": nil,
	}).Error
}
