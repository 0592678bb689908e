package garden

// SeedColor identifies one of the six flower colors a seed can carry.
// The color is chosen at seed creation and is carried unchanged through
// the whole Seed -> Plant -> Memory lifecycle.
type SeedColor string

const (
	ColorSunset    SeedColor = "sunset"
	ColorBlush     SeedColor = "blush"
	ColorGolden    SeedColor = "golden"
	ColorSapphire  SeedColor = "sapphire"
	ColorLavender  SeedColor = "lavender"
	ColorMoonlight SeedColor = "moonlight"
)

// PaletteEntry describes how a seed color is presented.
type PaletteEntry struct {
	Hex     string `json:"hex"`
	Name    string `json:"name"`
	Meaning string `json:"meaning"`
}

var palette = map[SeedColor]PaletteEntry{
	ColorSunset:    {Hex: "#e8a87c", Name: "Sunset Rose", Meaning: "Warmth & comfort"},
	ColorBlush:     {Hex: "#f4a4b8", Name: "Blush Peony", Meaning: "Tender affection"},
	ColorGolden:    {Hex: "#f5d76e", Name: "Golden Dahlia", Meaning: "Joy & celebration"},
	ColorSapphire:  {Hex: "#7eb8da", Name: "Sapphire Orchid", Meaning: "Deep devotion"},
	ColorLavender:  {Hex: "#b8a9c9", Name: "Lavender Dream", Meaning: "Peaceful love"},
	ColorMoonlight: {Hex: "#f0e6d3", Name: "Moonlight Lily", Meaning: "Eternal bond"},
}

// Palette returns a copy of the full seed color palette.
func Palette() map[SeedColor]PaletteEntry {
	out := make(map[SeedColor]PaletteEntry, len(palette))
	for c, e := range palette {
		out[c] = e
	}
	return out
}

// IsValid reports whether the color is one of the six palette colors.
func (c SeedColor) IsValid() bool {
	_, ok := palette[c]
	return ok
}

// Display returns the palette entry for the color.
func (c SeedColor) Display() PaletteEntry {
	return palette[c]
}
