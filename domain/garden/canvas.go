package garden

import "math"

// The garden canvas is a fixed logical coordinate space. Plant positions are
// stored in canvas units and the whole garden is scaled uniformly to the
// viewport by the presentation layer.
const (
	// CanvasWidth is the width of the current garden canvas in logical pixels.
	CanvasWidth = 500.0
	// CanvasHeight is the height of the current garden canvas in logical pixels.
	CanvasHeight = 900.0
	// MinYPercent marks the top of the plantable ground; everything above it
	// is sky.
	MinYPercent = 0.35

	// Margins keeping new plantings clear of UI chrome along the edges.
	sideMargin   = 40.0
	bottomMargin = 60.0

	// Dimensions of the previous absolute-coordinate canvas generation.
	legacyCanvasWidth  = 1000.0
	legacyCanvasHeight = 700.0

	// Signature thresholds of positions written against the legacy canvas.
	legacyXCutoff = 500.0
	legacyYCutoff = 350.0
)

// Position is a point in canvas units. It is written once at planting time
// and never mutated; only its interpretation changes as the canvas evolves.
type Position struct {
	X float64
	Y float64
}

// Equals checks if two positions are the same point.
func (p Position) Equals(other Position) bool {
	return p.X == other.X && p.Y == other.Y
}

// Normalize resolves a stored position, which may have been recorded under any
// of the three historical coordinate conventions, into current canvas units.
// Applied at read time per stored position; storage is never rewritten.
//
// Positions near the convention boundaries can be misclassified; the
// plantable rectangle is chosen so that nothing written today lands there.
func Normalize(p Position) Position {
	// Oldest generation stored percentages of the canvas.
	if p.X <= 100 && p.Y <= 100 {
		return Position{
			X: p.X / 100 * CanvasWidth,
			Y: p.Y / 100 * CanvasHeight,
		}
	}

	// Signature of the 1000x700 absolute generation.
	if p.X > legacyXCutoff || p.Y < legacyYCutoff {
		return Position{
			X: p.X / legacyCanvasWidth * CanvasWidth,
			Y: p.Y / legacyCanvasHeight * CanvasHeight,
		}
	}

	return p
}

// InSky reports whether a point in current canvas units falls in the sky
// region, which is not a valid planting target.
func InSky(p Position) bool {
	return p.Y < CanvasHeight*MinYPercent
}

// ClampToPlantable moves a requested planting position to the nearest point
// of the legal planting rectangle. Requests outside the rectangle are clamped,
// not rejected.
//
// The rectangle's top edge sits at the legacy-signature cutoff rather than the
// sky line so that freshly written positions are always interpreted as
// current-canvas units when read back through Normalize. That sacrifices the
// 35-unit ground band between the sky line (y=315) and the cutoff (y=350):
// a click there lands at y=350, below the literal nearest ground point.
func ClampToPlantable(p Position) Position {
	minY := math.Max(CanvasHeight*MinYPercent, legacyYCutoff)
	return Position{
		X: math.Min(math.Max(p.X, sideMargin), CanvasWidth-sideMargin),
		Y: math.Min(math.Max(p.Y, minY), CanvasHeight-bottomMargin),
	}
}
