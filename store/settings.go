package store

import (
	"encoding/json"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mpedroso/acontece/model"
	"github.com/mpedroso/acontece/publisher"
	"github.com/mpedroso/acontece/scoring"
)

// Known system setting keys. Anything else lands in the Unknown bucket
// untouched, so that admin-facing tooling can still round-trip it.
const (
	SettingAutoPublish = "auto_publish"
	SettingWeights     = "scoring_weights"
	SettingIngestion   = "ingestion"
	SettingPartners    = "partners"
	SettingAnalytics   = "analytics"
	SettingAds         = "ads"
)

// IngestionSetting toggles the two candidate sources of the pipeline.
type IngestionSetting struct {
	ScrapeEnabled bool `json:"scrape_enabled"`
	RssEnabled    bool `json:"rss_enabled"`
}

type AnalyticsSetting struct {
	MeasurementId string `json:"measurement_id"`
}

type AdsSetting struct {
	Slots   map[string]string `json:"slots"`
	AdsTxt  string            `json:"ads_txt"`
	Enabled bool              `json:"enabled"`
}

// SettingsSnapshot is the typed, immutable view of SystemSettings a pipeline
// run or a request handler works against. Fetched once per run so that a
// concurrent settings update can never be observed half-applied.
type SettingsSnapshot struct {
	AutoPublish publisher.AutoPublish
	Weights     scoring.Weights
	Ingestion   IngestionSetting
	// Partner identifier -> region slug.
	Partners  map[string]string
	Analytics AnalyticsSetting
	Ads       AdsSetting
	// Settings rows with keys this build does not know about.
	Unknown map[string]json.RawMessage
}

func defaultSnapshot() *SettingsSnapshot {
	return &SettingsSnapshot{
		// Auto-publish is off until an admin explicitly enables it.
		AutoPublish: publisher.AutoPublish{Enabled: false, MinScore: 7.5},
		Weights:     scoring.DefaultWeights(),
		Ingestion:   IngestionSetting{ScrapeEnabled: true, RssEnabled: true},
		Partners:    map[string]string{},
		Unknown:     map[string]json.RawMessage{},
	}
}

// LoadSettingsSnapshot reads every settings row and parses the known keys
// into their typed form. Missing rows fall back to defaults.
func LoadSettingsSnapshot(db *gorm.DB) (*SettingsSnapshot, error) {
	var rows []model.SystemSetting
	if err := db.Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "fail to load system settings")
	}
	return parseSettingsRows(rows)
}

func parseSettingsRows(rows []model.SystemSetting) (*SettingsSnapshot, error) {
	snapshot := defaultSnapshot()
	for _, row := range rows {
		if err := snapshot.apply(row); err != nil {
			return nil, errors.Wrapf(err, "malformed setting %q", row.Key)
		}
	}
	return snapshot, nil
}

func (s *SettingsSnapshot) apply(row model.SystemSetting) error {
	switch row.Key {
	case SettingAutoPublish:
		return json.Unmarshal(row.Value, &s.AutoPublish)
	case SettingWeights:
		return s.applyWeights(row.Value)
	case SettingIngestion:
		return json.Unmarshal(row.Value, &s.Ingestion)
	case SettingPartners:
		return json.Unmarshal(row.Value, &s.Partners)
	case SettingAnalytics:
		return json.Unmarshal(row.Value, &s.Analytics)
	case SettingAds:
		return json.Unmarshal(row.Value, &s.Ads)
	default:
		s.Unknown[row.Key] = json.RawMessage(row.Value)
		return nil
	}
}

// Weights are merged field by field: a weight absent from the stored value
// keeps its default instead of dropping to zero.
func (s *SettingsSnapshot) applyWeights(value []byte) error {
	var partial struct {
		TrustedSource   *float64 `json:"trusted_source"`
		CompleteContent *float64 `json:"complete_content"`
		HasImage        *float64 `json:"has_image"`
		HasAuthor       *float64 `json:"has_author"`
		WordCount       *float64 `json:"word_count"`
		HasExcerpt      *float64 `json:"has_excerpt"`
	}
	if err := json.Unmarshal(value, &partial); err != nil {
		return err
	}
	if partial.TrustedSource != nil {
		s.Weights.TrustedSource = *partial.TrustedSource
	}
	if partial.CompleteContent != nil {
		s.Weights.CompleteContent = *partial.CompleteContent
	}
	if partial.HasImage != nil {
		s.Weights.HasImage = *partial.HasImage
	}
	if partial.HasAuthor != nil {
		s.Weights.HasAuthor = *partial.HasAuthor
	}
	if partial.WordCount != nil {
		s.Weights.WordCount = *partial.WordCount
	}
	if partial.HasExcerpt != nil {
		s.Weights.HasExcerpt = *partial.HasExcerpt
	}
	return nil
}

// UpsertSetting writes one settings row, creating it when absent. Used only
// by the admin API, never by the pipeline.
func UpsertSetting(db *gorm.DB, key string, value json.RawMessage) error {
	row := model.SystemSetting{Key: key, Value: datatypes.JSON(value)}
	return db.Save(&row).Error
}
