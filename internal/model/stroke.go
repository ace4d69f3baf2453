package model

// Stroke is one atomic drawn line segment. Strokes are immutable once
// created and are replayed in original order to rebuild a board for a
// late joiner.
type Stroke struct {
	X0     float64 `json:"x0"`
	Y0     float64 `json:"y0"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	Color  string  `json:"color"`
	Size   float64 `json:"size"`
	Eraser bool    `json:"eraser,omitempty"`
}
