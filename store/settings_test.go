package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/mpedroso/acontece/model"
)

func row(key, value string) model.SystemSetting {
	return model.SystemSetting{Key: key, Value: datatypes.JSON(value)}
}

func TestParseSettingsDefaults(t *testing.T) {
	snapshot, err := parseSettingsRows(nil)
	require.NoError(t, err)

	assert.False(t, snapshot.AutoPublish.Enabled)
	assert.Equal(t, 7.5, snapshot.AutoPublish.MinScore)
	assert.Equal(t, 2.0, snapshot.Weights.TrustedSource)
	assert.Equal(t, 1.0, snapshot.Weights.HasExcerpt)
	assert.True(t, snapshot.Ingestion.ScrapeEnabled)
	assert.Empty(t, snapshot.Partners)
}

func TestParseSettingsKnownKeys(t *testing.T) {
	snapshot, err := parseSettingsRows([]model.SystemSetting{
		row(SettingAutoPublish, `{"enabled": true, "min_score": 8.2}`),
		row(SettingIngestion, `{"scrape_enabled": false, "rss_enabled": true}`),
		row(SettingPartners, `{"diario-do-litoral": "itajai"}`),
		row(SettingAds, `{"enabled": true, "ads_txt": "google.com, pub-123, DIRECT"}`),
	})
	require.NoError(t, err)

	assert.True(t, snapshot.AutoPublish.Enabled)
	assert.Equal(t, 8.2, snapshot.AutoPublish.MinScore)
	assert.False(t, snapshot.Ingestion.ScrapeEnabled)
	assert.Equal(t, "itajai", snapshot.Partners["diario-do-litoral"])
	assert.Equal(t, "google.com, pub-123, DIRECT", snapshot.Ads.AdsTxt)
}

func TestParseSettingsPartialWeightsKeepDefaults(t *testing.T) {
	snapshot, err := parseSettingsRows([]model.SystemSetting{
		row(SettingWeights, `{"trusted_source": 3, "has_image": 0}`),
	})
	require.NoError(t, err)

	assert.Equal(t, 3.0, snapshot.Weights.TrustedSource)
	assert.Equal(t, 0.0, snapshot.Weights.HasImage)
	// Absent fields keep their defaults.
	assert.Equal(t, 2.0, snapshot.Weights.CompleteContent)
	assert.Equal(t, 1.0, snapshot.Weights.WordCount)
}

func TestParseSettingsUnknownKeyGoesToBucket(t *testing.T) {
	snapshot, err := parseSettingsRows([]model.SystemSetting{
		row("experimental_flag", `{"on": true}`),
	})
	require.NoError(t, err)

	require.Contains(t, snapshot.Unknown, "experimental_flag")
	assert.JSONEq(t, `{"on": true}`, string(snapshot.Unknown["experimental_flag"]))
}

func TestParseSettingsMalformedValue(t *testing.T) {
	_, err := parseSettingsRows([]model.SystemSetting{
		row(SettingAutoPublish, `{"enabled": "not-a-bool"`),
	})
	assert.Error(t, err)
}

func TestUnknownBucketIsRawMessage(t *testing.T) {
	snapshot, err := parseSettingsRows([]model.SystemSetting{
		row("theme", `"dark"`),
	})
	require.NoError(t, err)

	var theme string
	require.NoError(t, json.Unmarshal(snapshot.Unknown["theme"], &theme))
	assert.Equal(t, "dark", theme)
}
