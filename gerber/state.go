package gerber

// Interpolation is the current draw interpolation mode (G01/G02/G03).
type Interpolation int

const (
	Linear Interpolation = iota
	ClockwiseArc
	CounterClockwiseArc
)

// QuadrantMode selects how arc center offsets (I, J) are interpreted
// (G74/G75).
type QuadrantMode int

const (
	SingleQuadrant QuadrantMode = iota
	MultiQuadrant
)

// LayerPolarity is the current %LP dark/clear state.
type LayerPolarity int

const (
	LPDark LayerPolarity = iota
	LPClear
)

// stepRepeat is the active %SR block: Nx by Ny copies spaced Ix, Iy apart
// (in the file's declared unit).
type stepRepeat struct {
	Nx, Ny int
	Ix, Iy float64
	active bool
	// polygonStart is the index into doc.Polygons where this block's
	// original (unreplicated) geometry begins.
	polygonStart int
}

// plotterState is the mutable state machine described in §3 "Plotter
// state": current aperture, interpolation/quadrant/region mode, layer
// polarity, current point, and the active step-and-repeat block. The
// coordinate format and axis transform live on parser (fs, xform).
type plotterState struct {
	aperture      int
	apertureSet   bool
	interpolation Interpolation
	quadrant      QuadrantMode
	region        bool
	layerPolarity LayerPolarity
	x, y          float64
	sr            stepRepeat
}

type point struct{ x, y float64 }
