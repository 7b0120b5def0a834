package export

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// Parser deserializes an export file back into structured data.
type Parser interface {
	Parse(data []byte) (*Export, error)
}

// ParserFor picks a parser from the file extension, falling back to content
// sniffing for unrecognised extensions.
func ParserFor(ext string, data []byte) Parser {
	switch strings.ToLower(ext) {
	case ".json":
		return &JSONParser{}
	case ".md", ".markdown":
		return &MarkdownParser{}
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return &JSONParser{}
	}
	return &MarkdownParser{}
}

// JSONParser parses a JSON-encoded Export.
type JSONParser struct{}

func (p *JSONParser) Parse(data []byte) (*Export, error) {
	var e Export
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("failed to parse JSON export: %w", err)
	}
	return &e, nil
}

// MarkdownParser parses a Markdown-rendered Export by extracting the
// embedded base64 JSON payload from the sentinel comments.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(data []byte) (*Export, error) {
	content := string(data)

	if !strings.Contains(content, versionSentinel) {
		return nil, fmt.Errorf("not a valid studious export: missing version sentinel")
	}

	start := strings.Index(content, dataPrefix)
	if start == -1 {
		return nil, fmt.Errorf("not a valid studious export: missing data payload")
	}
	start += len(dataPrefix)
	end := strings.Index(content[start:], dataSuffix)
	if end == -1 {
		return nil, fmt.Errorf("not a valid studious export: malformed data payload")
	}
	encoded := content[start : start+end]

	jsonBytes, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("not a valid studious export: corrupted base64 payload: %w", err)
	}

	var e Export
	if err := json.Unmarshal(jsonBytes, &e); err != nil {
		return nil, fmt.Errorf("not a valid studious export: failed to parse embedded JSON: %w", err)
	}
	return &e, nil
}
