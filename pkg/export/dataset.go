package export

import "fmt"

// Dataset defines tabular export content. Notes are rendered above the table
// in formats that support free text.
type Dataset struct {
	Title   string
	Notes   []string
	Headers []string
	Rows    []map[string]string
}

// Renderer turns a dataset into a document.
type Renderer interface {
	Render(data Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// ForFormat returns the renderer registered for "pdf" or "csv".
func ForFormat(format string) (Renderer, error) {
	switch format {
	case "pdf":
		return NewPDFExporter(), nil
	case "csv", "":
		return NewCSVExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

func (d Dataset) validate() error {
	if len(d.Headers) == 0 {
		return fmt.Errorf("dataset requires at least one header")
	}
	return nil
}
