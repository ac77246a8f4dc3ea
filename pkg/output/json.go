package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/jmalherbe/deepdiff/pkg/models"
)

// JSONRenderer writes the result as indented JSON for automation
type JSONRenderer struct{}

// NewJSONRenderer creates a JSON renderer
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Name returns the renderer name
func (r *JSONRenderer) Name() string {
	return "json"
}

// jsonReport is the stable envelope around a DiffResult
type jsonReport struct {
	Generated string             `json:"generated"`
	Result    *models.DiffResult `json:"result"`
}

// Render writes the result. Map-free model types and pre-sorted
// collections keep the serialization deterministic for identical
// results.
func (r *JSONRenderer) Render(w io.Writer, result *models.DiffResult) error {
	report := jsonReport{
		Generated: time.Now().UTC().Format(time.RFC3339),
		Result:    result,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
