package publisher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mpedroso/acontece/model"
)

func TestDecideDisabledAlwaysRecycles(t *testing.T) {
	now := time.Now()

	// Even a perfect score against a zero threshold is parked when disabled.
	decision := Decide(10, AutoPublish{Enabled: false, MinScore: 0}, now)

	assert.Equal(t, model.StatusRecycled, decision.Status)
	assert.Nil(t, decision.PublishedAt)
}

func TestDecideThresholdIsInclusive(t *testing.T) {
	now := time.Now()

	decision := Decide(7.5, AutoPublish{Enabled: true, MinScore: 7.5}, now)

	assert.Equal(t, model.StatusPublished, decision.Status)
	assert.NotNil(t, decision.PublishedAt)
	assert.Equal(t, now, *decision.PublishedAt)
}

func TestDecideBelowThresholdRecycles(t *testing.T) {
	decision := Decide(7.49, AutoPublish{Enabled: true, MinScore: 7.5}, time.Now())

	assert.Equal(t, model.StatusRecycled, decision.Status)
	assert.Nil(t, decision.PublishedAt)
}
