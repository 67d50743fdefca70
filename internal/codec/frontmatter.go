package codec

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Header is the machine-readable metadata block at the top of a task
// document. Field order here is the emission order; yaml.v3 marshals
// struct fields in declaration order, which keeps serialized documents
// deterministic and diff-friendly.
type Header struct {
	ID               string   `yaml:"id"`
	Title            string   `yaml:"title"`
	Status           string   `yaml:"status"`
	Completed        bool     `yaml:"completed"`
	Priority         string   `yaml:"priority,omitempty"`
	ParentID         string   `yaml:"parentId,omitempty"`
	BucketID         string   `yaml:"bucketId,omitempty"`
	StartDate        string   `yaml:"startDate,omitempty"`
	DueDate          string   `yaml:"dueDate,omitempty"`
	CreatedDate      string   `yaml:"createdDate,omitempty"`
	LastModifiedDate string   `yaml:"lastModifiedDate,omitempty"`
	Tags             []string `yaml:"tags,omitempty"`
	Dependencies     []string `yaml:"dependencies,omitempty"`
	Collapsed        bool     `yaml:"collapsed,omitempty"`
}

const frontmatterDelim = "---"

// marshalFrontmatter renders the header between --- delimiters.
func marshalFrontmatter(h *Header) (string, error) {
	data, err := yaml.Marshal(h)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(frontmatterDelim)
	b.WriteString("\n")
	b.Write(data)
	b.WriteString(frontmatterDelim)
	b.WriteString("\n")
	return b.String(), nil
}

// splitFrontmatter separates a document into its metadata block and
// body. ok is false when the document has no frontmatter or the block
// is unterminated.
func splitFrontmatter(text string) (header, body string, ok bool) {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(normalized, "\n")
	if len(lines) < 2 || strings.TrimRight(lines[0], " \t") != frontmatterDelim {
		return "", "", false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t") == frontmatterDelim {
			header = strings.Join(lines[1:i], "\n")
			body = strings.Join(lines[i+1:], "\n")
			body = strings.TrimPrefix(body, "\n")
			return header, body, true
		}
	}
	return "", "", false
}

// parseHeader decodes the metadata block. A malformed block yields nil.
func parseHeader(text string) *Header {
	var h Header
	if err := yaml.Unmarshal([]byte(text), &h); err != nil {
		return nil
	}
	return &h
}
