package prompt

import (
	_ "embed"
	"os"
	"strings"

	"go.uber.org/zap"
)

//go:embed preamble.txt
var embeddedPreamble string

// outputRequirementsMarker separates the static preamble from the module
// definitions in a full prompt file. Only the text before it is kept.
const outputRequirementsMarker = "📝 REPORT OUTPUT REQUIREMENTS"

// DefaultPreamble returns the base instructions compiled into the binary.
func DefaultPreamble() string {
	return strings.TrimSpace(embeddedPreamble)
}

// LoadPreamble reads the base instructions from path. An empty path, or a file
// that cannot be read, yields the embedded preamble.
func LoadPreamble(path string, logger *zap.Logger) string {
	if strings.TrimSpace(path) == "" {
		return DefaultPreamble()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Could not read preamble file, using embedded preamble.",
			zap.String("path", path), zap.Error(err))
		return DefaultPreamble()
	}
	text := string(data)
	if idx := strings.Index(text, outputRequirementsMarker); idx >= 0 {
		text = text[:idx]
	}
	text = strings.TrimSpace(text)
	if text == "" {
		logger.Warn("Preamble file is empty, using embedded preamble.", zap.String("path", path))
		return DefaultPreamble()
	}
	return text
}
