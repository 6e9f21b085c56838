package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guild-series-tracker/models"
)

func TestSeriesConfigSaveDefaults(t *testing.T) {
	db := testDB(t)
	svc := NewSeriesService(db, nil)

	saved, err := svc.Save(models.SeriesConfig{Name: "Spring Series", Organizer: "guild"})
	require.NoError(t, err)
	assert.Equal(t, "spring-series", saved.Slug)
	assert.Equal(t, "balanced", saved.PointScheme)
	assert.Equal(t, models.SeriesVisibilityPublic, saved.Visibility)
	assert.NotEmpty(t, saved.ID)

	_, err = svc.Save(models.SeriesConfig{Name: "Nameless"})
	require.Error(t, err, "organizer is required")
}

func TestSeriesConfigDeleteThenRecreate(t *testing.T) {
	db := testDB(t)
	svc := NewSeriesService(db, nil)

	saved, err := svc.Save(models.SeriesConfig{Name: "Spring Series", Organizer: "guild"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(saved.Slug))
	_, err = svc.GetBySlug(saved.Slug)
	require.Error(t, err, "deleted config is gone")

	again, err := svc.Save(models.SeriesConfig{Name: "Spring Series", Organizer: "otherguild"})
	require.NoError(t, err)
	assert.Equal(t, saved.Slug, again.Slug)

	found, err := svc.GetBySlug(again.Slug)
	require.NoError(t, err)
	assert.Equal(t, "otherguild", found.Organizer)
}

func TestSeriesConfigDeleteMissing(t *testing.T) {
	db := testDB(t)
	svc := NewSeriesService(db, nil)
	require.Error(t, svc.Delete("no-such-series"))
}
