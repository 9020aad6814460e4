// Copyright (c) 2026 Glowww Labs <hi@glowww.app>
// All rights reserved. See LICENSE for details.

package versioning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glowwwmarket/internal/models"
)

func TestBumpFuncSequence(t *testing.T) {
	// A submission starts at 1.0.0; the bump walks the standard semver
	// lattice from the template's current head.
	current := "1.0.0"
	steps := []struct {
		vtype models.VersionType
		want  string
	}{
		{models.VersionTypeMinor, "1.1.0"},
		{models.VersionTypePatch, "1.1.1"},
		{models.VersionTypeMajor, "2.0.0"},
		{models.VersionTypePatch, "2.0.1"},
	}

	for _, step := range steps {
		next, err := bumpFunc(step.vtype)(current)
		require.NoError(t, err)
		assert.Equal(t, step.want, next)
		current = next
	}
}

func TestBumpFuncResetsLowerSegments(t *testing.T) {
	next, err := bumpFunc(models.VersionTypeMajor)("1.7.3")
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", next)

	next, err = bumpFunc(models.VersionTypeMinor)("1.7.3")
	require.NoError(t, err)
	assert.Equal(t, "1.8.0", next)
}

func TestBumpFuncRejectsInvalidCurrent(t *testing.T) {
	for _, bad := range []string{"", "1.0", "v1.0.0", "one.two.three"} {
		_, err := bumpFunc(models.VersionTypePatch)(bad)
		assert.Error(t, err, "current=%q", bad)
	}
}

func TestDiffTypeSets(t *testing.T) {
	t.Run("mixed change", func(t *testing.T) {
		added, removed, unchanged := diffTypeSets(
			[]string{"Button", "Hero", "Text"},
			[]string{"Button", "Footer", "Text"},
		)
		assert.Equal(t, []string{"Footer"}, added)
		assert.Equal(t, []string{"Hero"}, removed)
		assert.Equal(t, []string{"Button", "Text"}, unchanged)
	})

	t.Run("identical sets", func(t *testing.T) {
		added, removed, unchanged := diffTypeSets(
			[]string{"Button"}, []string{"Button"},
		)
		assert.Empty(t, added)
		assert.Empty(t, removed)
		assert.Equal(t, []string{"Button"}, unchanged)
	})

	t.Run("everything new", func(t *testing.T) {
		added, removed, unchanged := diffTypeSets(nil, []string{"Hero", "Text"})
		assert.Equal(t, []string{"Hero", "Text"}, added)
		assert.Empty(t, removed)
		assert.Empty(t, unchanged)
	})

	t.Run("everything gone", func(t *testing.T) {
		added, removed, unchanged := diffTypeSets([]string{"Hero"}, nil)
		assert.Empty(t, added)
		assert.Equal(t, []string{"Hero"}, removed)
		assert.Empty(t, unchanged)
	})
}

func TestClassifyFrequency(t *testing.T) {
	base := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		total    int
		earliest time.Time
		latest   time.Time
		want     models.UpdateFrequency
	}{
		{
			name:  "no versions is new",
			total: 0,
			want:  models.UpdateFrequencyNew,
		},
		{
			name:     "single version is new",
			total:    1,
			earliest: base,
			latest:   base,
			want:     models.UpdateFrequencyNew,
		},
		{
			name:     "daily releases are very frequent",
			total:    8,
			earliest: base,
			latest:   base.Add(7 * 24 * time.Hour),
			want:     models.UpdateFrequencyVeryFrequent,
		},
		{
			name:     "two versions two weeks apart are frequent",
			total:    2,
			earliest: base,
			latest:   base.Add(14 * 24 * time.Hour),
			want:     models.UpdateFrequencyFrequent,
		},
		{
			name:     "mean gap of two months is regular",
			total:    2,
			earliest: base,
			latest:   base.Add(60 * 24 * time.Hour),
			want:     models.UpdateFrequencyRegular,
		},
		{
			name:     "mean gap of half a year is occasional",
			total:    2,
			earliest: base,
			latest:   base.Add(180 * 24 * time.Hour),
			want:     models.UpdateFrequencyOccasional,
		},
		{
			name:     "many versions over years still average out",
			total:    5,
			earliest: base,
			latest:   base.Add(4 * 20 * 24 * time.Hour),
			want:     models.UpdateFrequencyFrequent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyFrequency(tt.total, tt.earliest, tt.latest)
			assert.Equal(t, tt.want, got)
		})
	}
}
