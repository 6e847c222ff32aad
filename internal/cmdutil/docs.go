package cmdutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/runger/quickopen/internal/source"
)

// LoadDocuments collects the open documents passed on the command line:
// repeated --doc values and the --docs-from list ("-" reads stdin).
// Relative --doc values are made absolute against the working directory.
func LoadDocuments(docs []string, docsFrom string, stdin io.Reader) (source.StaticDocuments, error) {
	var out source.StaticDocuments
	for _, d := range docs {
		if d == "" {
			continue
		}
		if path, err := source.PathFromURI(d); err == nil {
			out = append(out, path)
			continue
		}
		abs, err := filepath.Abs(d)
		if err != nil {
			return nil, fmt.Errorf("--doc %s: %w", d, err)
		}
		out = append(out, abs)
	}

	if docsFrom == "" {
		return out, nil
	}
	rd := stdin
	if docsFrom != "-" {
		f, err := os.Open(docsFrom)
		if err != nil {
			return nil, fmt.Errorf("--docs-from: %w", err)
		}
		defer f.Close()
		rd = f
	}
	listed, err := source.ReadDocumentList(rd)
	if err != nil {
		return nil, fmt.Errorf("--docs-from: %w", err)
	}
	return append(out, listed...), nil
}
