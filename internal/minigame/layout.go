package minigame

// Rect is an axis-aligned spawn region.
type Rect struct {
	MinX float64 `yaml:"min_x"`
	MaxX float64 `yaml:"max_x"`
	MinY float64 `yaml:"min_y"`
	MaxY float64 `yaml:"max_y"`
}

// Size is a play-area extent with the origin at the top-left corner.
type Size struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Layout holds the play-area geometry the presentation reports to the core.
type Layout struct {
	TapArea    Rect `yaml:"tap_area"`
	BubbleArea Size `yaml:"bubble_area"`
}

// DefaultLayout returns the geometry of a phone-sized screen.
func DefaultLayout() Layout {
	return Layout{
		TapArea:    Rect{MinX: 50, MaxX: 300, MinY: 100, MaxY: 400},
		BubbleArea: Size{Width: 360, Height: 560},
	}
}
