// Package format maps output file names and format names to the chart and
// table renderers.
package format

import (
	"path/filepath"
	"strings"
)

// Format represents a supported output format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// SVG indicates a vector chart.
	SVG
	// PNG indicates a raster chart.
	PNG
	// CSV indicates comma-separated table rows.
	CSV
	// Markdown indicates a markdown table.
	Markdown
	// XLSX indicates an Excel workbook.
	XLSX
	// Text indicates an aligned plain-text table.
	Text
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case SVG:
		return "SVG"
	case PNG:
		return "PNG"
	case CSV:
		return "CSV"
	case Markdown:
		return "Markdown"
	case XLSX:
		return "XLSX"
	case Text:
		return "Text"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case SVG:
		return ".svg"
	case PNG:
		return ".png"
	case CSV:
		return ".csv"
	case Markdown:
		return ".md"
	case XLSX:
		return ".xlsx"
	case Text:
		return ".txt"
	default:
		return ""
	}
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case SVG:
		return "image/svg+xml"
	case PNG:
		return "image/png"
	case CSV:
		return "text/csv; charset=utf-8"
	case Markdown:
		return "text/markdown; charset=utf-8"
	case XLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case Text:
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// IsChart reports whether the format is an image of the stacked bar chart.
func (f Format) IsChart() bool {
	return f == SVG || f == PNG
}

// Detect determines the output format from a filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".svg":
		return SVG
	case ".png":
		return PNG
	case ".csv":
		return CSV
	case ".md", ".markdown":
		return Markdown
	case ".xlsx":
		return XLSX
	case ".txt", ".text":
		return Text
	default:
		return Unknown
	}
}

// Parse maps a format name such as "svg" or "markdown" to a Format.
func Parse(name string) Format {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "svg":
		return SVG
	case "png":
		return PNG
	case "csv":
		return CSV
	case "md", "markdown":
		return Markdown
	case "xlsx", "excel":
		return XLSX
	case "txt", "text":
		return Text
	default:
		return Unknown
	}
}

// IsHTML checks if the data looks like an HTML document.
func IsHTML(data []byte) bool {
	// Trim leading whitespace and a UTF-8 byte order mark
	s := strings.TrimLeft(strings.TrimPrefix(string(data[:min(len(data), 512)]), "\ufeff"), " \t\r\n")
	if s == "" {
		return false
	}

	// Check for common HTML signatures (case-insensitive for DOCTYPE)
	upper := strings.ToUpper(s)
	if strings.HasPrefix(upper, "<!DOCTYPE HTML") || strings.HasPrefix(upper, "<HTML") {
		return true
	}
	// XML declaration followed by html-like content could be XHTML
	if strings.HasPrefix(upper, "<?XML") && strings.Contains(upper, "<HTML") {
		return true
	}
	// Fragments saved from a browser often start at the table itself.
	return strings.HasPrefix(upper, "<TABLE")
}
