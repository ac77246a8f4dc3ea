package output

import (
	"fmt"
	"os"

	"github.com/jmalherbe/deepdiff/pkg/models"
)

// WriteReport writes the result to a file. Format can be "human" or
// "json"; human reports are written without colors.
func WriteReport(result *models.DiffResult, path string, format string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	var renderer Renderer
	switch format {
	case "json":
		renderer = NewJSONRenderer()
	default:
		renderer = NewHumanRenderer(false)
	}

	return renderer.Render(file, result)
}
