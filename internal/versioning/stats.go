// Copyright (c) 2026 Glowww Labs <hi@glowww.app>
// All rights reserved. See LICENSE for details.

package versioning

import (
	"context"
	"time"

	"github.com/google/uuid"

	"glowwwmarket/internal/errs"
	"glowwwmarket/internal/models"
)

// Update-frequency classification thresholds on the mean time between
// consecutive version creations.
const (
	veryFrequentWithin = 7 * 24 * time.Hour
	frequentWithin     = 30 * 24 * time.Hour
	regularWithin      = 90 * 24 * time.Hour
)

// Stats summarizes a template's version history: totals, per-type counts,
// download sum, and an update-frequency classification.
func (m *Manager) Stats(ctx context.Context, templateID uuid.UUID) (*models.VersionStats, error) {
	t, err := m.templates.FindByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, errs.NotFound("template", templateID)
	}

	sum, err := m.versions.Summarize(ctx, templateID)
	if err != nil {
		return nil, err
	}

	return &models.VersionStats{
		TemplateID:      templateID,
		TotalVersions:   sum.Total,
		CurrentVersion:  t.CurrentVersion,
		EarliestVersion: sum.EarliestVersion,
		CountsByType: map[models.VersionType]int{
			models.VersionTypeMajor: sum.MajorCount,
			models.VersionTypeMinor: sum.MinorCount,
			models.VersionTypePatch: sum.PatchCount,
		},
		TotalDownloads:  sum.TotalDownloads,
		UpdateFrequency: classifyFrequency(sum.Total, sum.EarliestAt, sum.LatestAt),
	}, nil
}

// classifyFrequency buckets the mean gap between consecutive versions.
// Fewer than 2 versions cannot have a gap and classify as "new".
func classifyFrequency(total int, earliest, latest time.Time) models.UpdateFrequency {
	if total < 2 {
		return models.UpdateFrequencyNew
	}
	meanGap := latest.Sub(earliest) / time.Duration(total-1)
	switch {
	case meanGap < veryFrequentWithin:
		return models.UpdateFrequencyVeryFrequent
	case meanGap < frequentWithin:
		return models.UpdateFrequencyFrequent
	case meanGap < regularWithin:
		return models.UpdateFrequencyRegular
	default:
		return models.UpdateFrequencyOccasional
	}
}
