package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loom-editor/loom/internal/domain/entity"
)

func TestOrientationForScheme(t *testing.T) {
	tests := []struct {
		name        string
		rows, cols  int
		orientation entity.Orientation
		ok          bool
	}{
		{"1x1 is a single pane", 1, 1, entity.OrientationNone, true},
		{"1x2 splits vertically", 1, 2, entity.OrientationVertical, true},
		{"2x1 splits horizontally", 2, 1, entity.OrientationHorizontal, true},
		{"2x2 is rejected", 2, 2, entity.OrientationNone, false},
		{"zero rows is rejected", 0, 1, entity.OrientationNone, false},
		{"three columns is rejected", 1, 3, entity.OrientationNone, false},
		{"negative values are rejected", -1, 1, entity.OrientationNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orientation, ok := entity.OrientationForScheme(tt.rows, tt.cols)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.orientation, orientation)
		})
	}
}

func TestOrientation_IsSplit(t *testing.T) {
	assert.False(t, entity.OrientationNone.IsSplit())
	assert.True(t, entity.OrientationVertical.IsSplit())
	assert.True(t, entity.OrientationHorizontal.IsSplit())
	assert.False(t, entity.Orientation("diagonal").IsSplit())
}

func TestLayoutState_PaneIDs_ActiveFirst(t *testing.T) {
	state := entity.NewLayoutState()
	state.ActivePaneID = "second-pane"
	state.Panes["first-pane"] = []entity.PaneEntryState{{Path: "/src/a.go"}}
	state.Panes["second-pane"] = []entity.PaneEntryState{{Path: "/src/b.go"}, {Path: "/src/c.go"}}

	assert.Equal(t, []string{"second-pane", "first-pane"}, state.PaneIDs())
	assert.Equal(t, 3, state.CountEntries())
}
