package intent

import (
	"context"
	"testing"
	"time"

	"genassist/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKeyNormalizesText(t *testing.T) {
	assert.Equal(t, CacheKey("Onboard  John Doe"), CacheKey("  onboard john\tdoe "))
	assert.NotEqual(t, CacheKey("Onboard John Doe"), CacheKey("Onboard Jane Doe"))
}

func TestLocalCache(t *testing.T) {
	c := NewLocalCache(8, time.Hour)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "Onboard John Doe")
	require.NoError(t, err)
	assert.False(t, ok)

	stored := &Result{
		Intent:     models.IntentHROnboarding,
		Domain:     models.DomainHR,
		Entities:   models.Entities{"name": models.StringValue("John Doe")},
		Confidence: 0.9,
		Source:     SourceLLM,
	}
	require.NoError(t, c.Set(ctx, "Onboard John Doe", stored))

	got, ok, err := c.Get(ctx, "onboard   john doe")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, models.IntentHROnboarding, got.Intent)

	// 返回副本，修改不影响缓存
	got.Entities["name"] = models.StringValue("Someone Else")
	again, _, _ := c.Get(ctx, "Onboard John Doe")
	name, _ := again.Entities.Get("name")
	assert.Equal(t, "John Doe", name)
}

func TestCachedResultKeepsEntityKinds(t *testing.T) {
	start := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	in := &Result{
		Intent: models.IntentMeetingSchedule,
		Domain: models.DomainGeneral,
		Entities: models.Entities{
			"time":       models.StringValue("2026-03-05"),
			"date":       models.DateValue(start),
			"attendees":  models.NumberValue(4),
			"additional": models.MapValue(models.Entities{"room": models.StringValue("B2")}),
		},
		Confidence: 0.85,
		Source:     SourceLLM,
	}

	data, err := encodeResult(in)
	require.NoError(t, err)
	out, err := decodeResult(data)
	require.NoError(t, err)

	assert.Equal(t, models.EntityString, out.Entities["time"].Kind)
	assert.True(t, in.Entities.Equal(out.Entities))
	assert.Equal(t, in.Intent, out.Intent)
	assert.Equal(t, in.Confidence, out.Confidence)
}
