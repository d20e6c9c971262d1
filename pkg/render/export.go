package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ja7ad/phaseplot/pkg/types"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return HTML, nil
	case ".svg":
		return SVG, nil
	case ".png":
		return PNG, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Export renders fig into path, creating parent directories as needed. The
// file is only written once rendering succeeded.
func Export(path string, fig *Figure) (types.Bytes, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	if err := Render(&buf, fig, format); err != nil {
		return 0, err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("render: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return 0, fmt.Errorf("render: %w", err)
	}
	return types.Bytes(buf.Len()), nil
}
