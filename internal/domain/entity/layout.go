package entity

// Orientation describes how the workspace is split. The zero value
// means a single, unsplit pane, so the layout-changed payload is
// falsy exactly when the workspace is not split.
type Orientation string

const (
	OrientationNone       Orientation = ""
	OrientationVertical   Orientation = "VERTICAL"
	OrientationHorizontal Orientation = "HORIZONTAL"
)

// IsSplit reports whether the orientation describes a two-pane layout.
func (o Orientation) IsSplit() bool {
	return o == OrientationVertical || o == OrientationHorizontal
}

// OrientationForScheme maps a rows/columns layout scheme to the
// orientation it implies. Supported schemes use values in {1,2} and
// never 2x2:
//
//	rows == cols  -> single pane (OrientationNone)
//	rows > cols   -> horizontal split (stacked top/bottom)
//	rows < cols   -> vertical split (side by side)
//
// ok is false for every other combination; callers must treat that as
// a failure with no side effects.
func OrientationForScheme(rows, columns int) (orientation Orientation, ok bool) {
	if rows < 1 || rows > 2 || columns < 1 || columns > 2 {
		return OrientationNone, false
	}
	switch {
	case rows == 2 && columns == 2:
		return OrientationNone, false
	case rows == columns:
		return OrientationNone, true
	case rows > columns:
		return OrientationHorizontal, true
	default:
		return OrientationVertical, true
	}
}
