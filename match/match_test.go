package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vulnmgt/malwatch/model"
)

func triple(workspaceID, projectID, name, version string) model.InventoryTriple {
	return model.InventoryTriple{
		Library:   model.LibraryRecord{ID: "lib-" + projectID, Name: name, Version: version},
		Project:   model.Project{ID: projectID, WorkspaceID: workspaceID},
		Workspace: model.Workspace{ID: workspaceID},
	}
}

func TestFindCountsEveryInventoryOccurrence(t *testing.T) {
	threats := []model.ThreatEntry{
		{Name: "a", Version: "1.0"},
		{Name: "a", Version: "2.0"},
	}
	inventory := []model.InventoryTriple{
		triple("ws-1", "prj-1", "a", "1.0"),
		triple("ws-1", "prj-2", "a", "1.0"),
	}

	matches := Find(threats, inventory)

	// cross product restricted to equal pairs: 2 matches, not 1, not 4
	require.Len(t, matches, 2)
	assert.Equal(t, "prj-1", matches[0].Project.ID)
	assert.Equal(t, "prj-2", matches[1].Project.ID)
	for _, m := range matches {
		assert.Equal(t, "1.0", m.Threat.Version)
	}
}

func TestFindIsCaseSensitiveAndExact(t *testing.T) {
	inventory := []model.InventoryTriple{
		triple("ws-1", "prj-1", "left-pad", "1.0"),
	}

	assert.Empty(t, Find([]model.ThreatEntry{{Name: "Left-Pad", Version: "1.0"}}, inventory))
	assert.Empty(t, Find([]model.ThreatEntry{{Name: "left-pad", Version: "1.0.0"}}, inventory))
	assert.Len(t, Find([]model.ThreatEntry{{Name: "left-pad", Version: "1.0"}}, inventory), 1)
}

func TestFindKeepsDuplicateThreatEntriesSeparate(t *testing.T) {
	// Same package re-flagged over time: each feed occurrence is distinct.
	threats := []model.ThreatEntry{
		{Name: "evil", Version: "0.1", Created: "2023-01-01T00:00:00Z"},
		{Name: "evil", Version: "0.1", Created: "2024-01-01T00:00:00Z"},
	}
	inventory := []model.InventoryTriple{
		triple("ws-1", "prj-1", "evil", "0.1"),
	}

	matches := Find(threats, inventory)
	require.Len(t, matches, 2)
	assert.Equal(t, "2023-01-01T00:00:00Z", matches[0].Threat.Created)
	assert.Equal(t, "2024-01-01T00:00:00Z", matches[1].Threat.Created)
}

func TestFindOrderIsThreatsOuterInventoryInner(t *testing.T) {
	threats := []model.ThreatEntry{
		{Name: "b", Version: "2.0"},
		{Name: "a", Version: "1.0"},
	}
	inventory := []model.InventoryTriple{
		triple("ws-1", "prj-1", "a", "1.0"),
		triple("ws-1", "prj-2", "b", "2.0"),
		triple("ws-2", "prj-3", "a", "1.0"),
	}

	matches := Find(threats, inventory)
	require.Len(t, matches, 3)
	assert.Equal(t, "b", matches[0].Threat.Name)
	assert.Equal(t, "prj-1", matches[1].Project.ID)
	assert.Equal(t, "prj-3", matches[2].Project.ID)
}

func TestFindEmptyInputs(t *testing.T) {
	assert.Empty(t, Find(nil, nil))
	assert.Empty(t, Find([]model.ThreatEntry{{Name: "a", Version: "1"}}, nil))
	assert.Empty(t, Find(nil, []model.InventoryTriple{triple("ws", "prj", "a", "1")}))
}
