// Copyright (c) 2026 Glowww Labs <hi@glowww.app>
// All rights reserved. See LICENSE for details.

package versioning

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"glowwwmarket/internal/models"
	"glowwwmarket/internal/snapshot"
)

// Compare computes the structural difference between two versions of the
// same template: a textual change list, the byte-size delta between the
// serialized snapshots, and the component-type set diff. Node walking
// starts at each snapshot's root, so the result is independent of node
// ordering in the serialized form.
func (m *Manager) Compare(ctx context.Context, templateID, versionAID, versionBID uuid.UUID) (*models.VersionDiff, error) {
	a, err := m.ownedVersion(ctx, templateID, versionAID)
	if err != nil {
		return nil, err
	}
	b, err := m.ownedVersion(ctx, templateID, versionBID)
	if err != nil {
		return nil, err
	}

	graphA, err := snapshot.Parse(a.Content)
	if err != nil {
		return nil, fmt.Errorf("version %s: %w", a.Version, err)
	}
	graphB, err := snapshot.Parse(b.Content)
	if err != nil {
		return nil, fmt.Errorf("version %s: %w", b.Version, err)
	}

	diff := &models.VersionDiff{
		TemplateID:  templateID,
		FromVersion: a.Version,
		ToVersion:   b.Version,
		SizeDelta:   len(b.Content) - len(a.Content),
		RootChanged: snapshot.RootChanged(graphA, graphB),
	}

	countA := graphA.NodeCount()
	countB := graphB.NodeCount()
	switch {
	case countB > countA:
		diff.Changes = append(diff.Changes, fmt.Sprintf("added %d components", countB-countA))
	case countA > countB:
		diff.Changes = append(diff.Changes, fmt.Sprintf("removed %d components", countA-countB))
	}
	if diff.RootChanged {
		diff.Changes = append(diff.Changes, "root structure changed")
	}

	typesA := graphA.ComponentTypes()
	typesB := graphB.ComponentTypes()
	diff.AddedTypes, diff.RemovedTypes, diff.UnchangedTypes = diffTypeSets(typesA, typesB)

	return diff, nil
}

// diffTypeSets splits two component-type sets into added (in b only),
// removed (in a only) and unchanged (intersection). Inputs are already
// deduplicated and sorted; outputs keep that order.
func diffTypeSets(a, b []string) (added, removed, unchanged []string) {
	inA := make(map[string]bool, len(a))
	for _, t := range a {
		inA[t] = true
	}
	inB := make(map[string]bool, len(b))
	for _, t := range b {
		inB[t] = true
	}

	for _, t := range b {
		if !inA[t] {
			added = append(added, t)
		}
	}
	for _, t := range a {
		if inB[t] {
			unchanged = append(unchanged, t)
		} else {
			removed = append(removed, t)
		}
	}
	return added, removed, unchanged
}
