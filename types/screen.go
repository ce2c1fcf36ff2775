package types

type ScreenElementRect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ScreenElement is a visible, identifiable node of the on-screen UI tree
type ScreenElement struct {
	Type       string            `json:"type"`
	Label      *string           `json:"label,omitempty"`
	Name       *string           `json:"name,omitempty"`
	Value      *string           `json:"value,omitempty"`
	Identifier *string           `json:"identifier,omitempty"`
	Rect       ScreenElementRect `json:"rect"`
}
