package gateway

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mizan/internal/backend"
	"mizan/internal/logging"

	"github.com/bmatcuk/doublestar/v4"
)

// maxDocumentBytes caps the combined size of documents loaded by glob
// reference so a stray pattern cannot ship gigabytes to the backend.
const maxDocumentBytes = 2 << 20

// loadDocumentPayload resolves an "@pattern" document reference into a
// compliance payload. The pattern is matched with doublestar globbing
// relative to the current directory, and all matching files are concatenated
// with a name header between them.
func loadDocumentPayload(ref string) (*backend.CompliancePayload, error) {
	pattern := strings.TrimPrefix(ref, "@")
	if pattern == "" {
		return nil, &MissingFieldsError{Tool: ToolCompliance, Fields: []string{"document_content"}}
	}

	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid document pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no documents match %q", pattern)
	}
	sort.Strings(matches)

	var content strings.Builder
	var loaded []string
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading document %s: %w", path, err)
		}
		if content.Len()+len(data) > maxDocumentBytes {
			return nil, fmt.Errorf("documents matching %q exceed %d bytes", pattern, maxDocumentBytes)
		}
		if len(loaded) > 0 {
			content.WriteString("\n\n")
		}
		fmt.Fprintf(&content, "=== %s ===\n", filepath.Base(path))
		content.Write(data)
		loaded = append(loaded, path)
	}
	if len(loaded) == 0 {
		return nil, fmt.Errorf("no readable documents match %q", pattern)
	}

	logging.Info("Loaded documents for compliance verification", "pattern", pattern, "files", len(loaded))

	name := filepath.Base(loaded[0])
	if len(loaded) > 1 {
		name = fmt.Sprintf("%s (+%d more)", name, len(loaded)-1)
	}
	return &backend.CompliancePayload{
		DocumentContent: content.String(),
		DocumentName:    name,
	}, nil
}
