package gardenapp

import (
	"time"

	"gardend/application/ports"
	"gardend/domain/garden"
	pkgerrors "gardend/pkg/errors"
	"gardend/pkg/utils"
)

// Field names shared with every client of the store. Instants are persisted
// as RFC3339 strings so they stay ordered and portable across store backends.

func seedFields(s *garden.Seed) map[string]interface{} {
	return map[string]interface{}{
		"message":         s.Message(),
		"durationMinutes": s.DurationMinutes(),
		"color":           string(s.Color()),
		"createdAt":       utils.FormatInstant(s.CreatedAt()),
	}
}

func decodeSeed(doc ports.Document) (*garden.Seed, error) {
	message, err := fieldString(doc, "message")
	if err != nil {
		return nil, err
	}
	duration, err := fieldInt(doc, "durationMinutes")
	if err != nil {
		return nil, err
	}
	color, err := fieldString(doc, "color")
	if err != nil {
		return nil, err
	}
	createdAt, err := fieldTime(doc, "createdAt")
	if err != nil {
		return nil, err
	}
	return garden.ReconstructSeed(doc.ID, message, duration, garden.SeedColor(color), createdAt), nil
}

func plantFields(p *garden.Plant) map[string]interface{} {
	return map[string]interface{}{
		"seedId":          p.SeedID(),
		"message":         p.Message(),
		"color":           string(p.Color()),
		"durationMinutes": p.DurationMinutes(),
		"position":        positionFields(p.Position()),
		"plantedAt":       utils.FormatInstant(p.PlantedAt()),
		"lastWateredAt":   utils.FormatInstant(p.LastWateredAt()),
		"waterStreak":     p.WaterStreak(),
	}
}

func decodePlant(doc ports.Document) (*garden.Plant, error) {
	seedID, err := fieldString(doc, "seedId")
	if err != nil {
		return nil, err
	}
	message, err := fieldString(doc, "message")
	if err != nil {
		return nil, err
	}
	color, err := fieldString(doc, "color")
	if err != nil {
		return nil, err
	}
	duration, err := fieldInt(doc, "durationMinutes")
	if err != nil {
		return nil, err
	}
	position, err := fieldPosition(doc, "position")
	if err != nil {
		return nil, err
	}
	plantedAt, err := fieldTime(doc, "plantedAt")
	if err != nil {
		return nil, err
	}
	lastWateredAt, err := fieldTime(doc, "lastWateredAt")
	if err != nil {
		return nil, err
	}
	waterStreak, err := fieldInt(doc, "waterStreak")
	if err != nil {
		return nil, err
	}
	return garden.ReconstructPlant(
		doc.ID, seedID, message, garden.SeedColor(color),
		duration, position, plantedAt, lastWateredAt, waterStreak,
	), nil
}

func memoryFields(m *garden.Memory) map[string]interface{} {
	return map[string]interface{}{
		"message":         m.Message(),
		"color":           string(m.Color()),
		"plantedAt":       utils.FormatInstant(m.PlantedAt()),
		"harvestedAt":     utils.FormatInstant(m.HarvestedAt()),
		"durationMinutes": m.DurationMinutes(),
		"position":        positionFields(m.Position()),
	}
}

func decodeMemory(doc ports.Document) (*garden.Memory, error) {
	message, err := fieldString(doc, "message")
	if err != nil {
		return nil, err
	}
	color, err := fieldString(doc, "color")
	if err != nil {
		return nil, err
	}
	plantedAt, err := fieldTime(doc, "plantedAt")
	if err != nil {
		return nil, err
	}
	harvestedAt, err := fieldTime(doc, "harvestedAt")
	if err != nil {
		return nil, err
	}
	duration, err := fieldInt(doc, "durationMinutes")
	if err != nil {
		return nil, err
	}
	position, err := fieldPosition(doc, "position")
	if err != nil {
		return nil, err
	}
	return garden.ReconstructMemory(
		doc.ID, message, garden.SeedColor(color),
		plantedAt, harvestedAt, duration, position,
	), nil
}

func commentFields(c *garden.Comment) map[string]interface{} {
	return map[string]interface{}{
		"text":      c.Text(),
		"createdAt": utils.FormatInstant(c.CreatedAt()),
	}
}

func decodeComment(memoryID string, doc ports.Document) (*garden.Comment, error) {
	text, err := fieldString(doc, "text")
	if err != nil {
		return nil, err
	}
	createdAt, err := fieldTime(doc, "createdAt")
	if err != nil {
		return nil, err
	}
	return garden.ReconstructComment(doc.ID, memoryID, text, createdAt), nil
}

func settingsFields(s garden.Settings) map[string]interface{} {
	return map[string]interface{}{
		"weather":     string(s.Weather),
		"lastUpdated": utils.FormatInstant(s.LastUpdated),
	}
}

func decodeSettings(doc ports.Document) (garden.Settings, error) {
	weather, err := fieldString(doc, "weather")
	if err != nil {
		return garden.Settings{}, err
	}
	lastUpdated, err := fieldTime(doc, "lastUpdated")
	if err != nil {
		return garden.Settings{}, err
	}
	return garden.Settings{Weather: garden.Weather(weather), LastUpdated: lastUpdated}, nil
}

func positionFields(p garden.Position) map[string]interface{} {
	return map[string]interface{}{"x": p.X, "y": p.Y}
}

func fieldString(doc ports.Document, name string) (string, error) {
	v, ok := doc.Fields[name].(string)
	if !ok {
		return "", pkgerrors.NewInternalError("field " + name + " is missing or not a string")
	}
	return v, nil
}

func fieldInt(doc ports.Document, name string) (int, error) {
	// Stores round-trip numbers with varying width; accept the usual shapes.
	switch n := doc.Fields[name].(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	}
	return 0, pkgerrors.NewInternalError("field " + name + " is missing or not a number")
}

func fieldFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func fieldTime(doc ports.Document, name string) (time.Time, error) {
	s, err := fieldString(doc, name)
	if err != nil {
		return time.Time{}, err
	}
	t, err := utils.ParseInstant(s)
	if err != nil {
		return time.Time{}, pkgerrors.NewInternalError("field " + name + " is not a valid instant").WithCause(err)
	}
	return t, nil
}

func fieldPosition(doc ports.Document, name string) (garden.Position, error) {
	nested, ok := doc.Fields[name].(map[string]interface{})
	if !ok {
		return garden.Position{}, pkgerrors.NewInternalError("field " + name + " is missing or not a position")
	}
	x, xok := fieldFloat(nested["x"])
	y, yok := fieldFloat(nested["y"])
	if !xok || !yok {
		return garden.Position{}, pkgerrors.NewInternalError("field " + name + " has non-numeric coordinates")
	}
	return garden.Position{X: x, Y: y}, nil
}
