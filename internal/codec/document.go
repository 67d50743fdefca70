// Package codec converts task records to and from their canonical
// markdown document form: a YAML frontmatter header plus free-form body
// sections for description, subtasks, dependencies, and links.
package codec

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/taskvault/taskvault/internal/task"
)

// TitleResolver looks up a task title by ID, typically backed by the
// task store. ok is false for dangling references.
type TitleResolver func(id string) (title string, ok bool)

// TaskToDocument serializes a task into canonical document text. Output
// is deterministic for identical input: field order is fixed and list
// sections are emitted in array order, so repeated serialization of the
// same task produces byte-identical documents.
func TaskToDocument(t *task.Task, projectName string, resolve TitleResolver) string {
	h := &Header{
		ID:               t.ID,
		Title:            t.Title,
		Status:           t.Status,
		Completed:        t.Completed,
		Priority:         t.Priority,
		ParentID:         t.ParentID,
		BucketID:         t.BucketID,
		StartDate:        t.StartDate,
		DueDate:          t.DueDate,
		CreatedDate:      t.CreatedDate,
		LastModifiedDate: t.LastModifiedDate,
		Collapsed:        t.Collapsed,
	}
	if len(t.Tags) > 0 {
		h.Tags = append([]string(nil), t.Tags...)
	}
	for _, d := range t.Dependencies {
		h.Dependencies = append(h.Dependencies, fmt.Sprintf("%s:%s", d.Type, d.PredecessorID))
	}

	var b strings.Builder
	fm, err := marshalFrontmatter(h)
	if err != nil {
		// A header of plain strings and bools cannot fail to marshal;
		// keep the document well-formed regardless.
		fm = frontmatterDelim + "\n" + frontmatterDelim + "\n"
	}
	b.WriteString(fm)

	if t.Description != "" {
		b.WriteString("\n")
		b.WriteString(t.Description)
		b.WriteString("\n")
	}

	if len(t.Subtasks) > 0 {
		b.WriteString("\n## Subtasks\n\n")
		for _, st := range t.Subtasks {
			box := "[ ]"
			if st.Completed {
				box = "[x]"
			}
			fmt.Fprintf(&b, "- %s %s\n", box, st.Title)
		}
	}

	if len(t.Dependencies) > 0 {
		b.WriteString("\n## Dependencies\n\n")
		for _, d := range t.Dependencies {
			// The human-readable line is best-effort; the header always
			// carries the machine-readable entry.
			if resolve == nil {
				continue
			}
			if title, ok := resolve(d.PredecessorID); ok {
				fmt.Fprintf(&b, "- %s: [[%s]]\n", d.Type, title)
			}
		}
	}

	if len(t.Links) > 0 {
		b.WriteString("\n## Links\n\n")
		for _, l := range t.Links {
			if l.Type == task.LinkObsidian {
				fmt.Fprintf(&b, "- [[%s]]\n", l.URL)
			} else {
				fmt.Fprintf(&b, "- [%s](%s)\n", l.Title, l.URL)
			}
		}
	}

	fmt.Fprintf(&b, "\n---\n*Task from Project: %s*\n", projectName)
	return b.String()
}

// BodyParts are the fields recoverable from a document body.
type BodyParts struct {
	Description string
	Subtasks    []task.Subtask
	Links       []task.Link
}

var (
	checklistRe    = regexp.MustCompile(`^\s*-\s*\[([ xX])\]\s*(.*)$`)
	wikiLinkRe     = regexp.MustCompile(`^-\s*\[\[(.+)\]\]\s*$`)
	externalLinkRe = regexp.MustCompile(`^-\s*\[([^\]]*)\]\(([^)]+)\)\s*$`)
)

// ParseDocument extracts description, subtasks, and links from a body.
// It tolerates hand-edited, partially structured content: the
// description is the first contiguous non-empty block before the first
// section heading or the trailing footer delimiter; subtasks are
// checklist lines at or after a "## Subtasks" heading; links are read
// only inside a "## Links" section.
func ParseDocument(body string) BodyParts {
	var parts BodyParts

	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")

	var (
		descLines    []string
		descDone     bool
		seenSubtasks bool
		inLinks      bool
	)
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "##") {
			descDone = true
			heading := strings.ToLower(strings.TrimSpace(strings.TrimLeft(trimmed, "#")))
			seenSubtasks = seenSubtasks || heading == "subtasks"
			inLinks = heading == "links"
			continue
		}
		if trimmed == frontmatterDelim {
			// Footer delimiter terminates the description; anything
			// after it is the project footer.
			descDone = true
			inLinks = false
			continue
		}

		if m := checklistRe.FindStringSubmatch(line); m != nil && seenSubtasks {
			parts.Subtasks = append(parts.Subtasks, task.Subtask{
				Title:     strings.TrimSpace(m[2]),
				Completed: strings.EqualFold(m[1], "x"),
			})
			continue
		}

		if inLinks {
			if m := wikiLinkRe.FindStringSubmatch(trimmed); m != nil {
				parts.Links = append(parts.Links, task.Link{
					Title: m[1],
					URL:   m[1],
					Type:  task.LinkObsidian,
				})
				continue
			}
			if m := externalLinkRe.FindStringSubmatch(trimmed); m != nil {
				parts.Links = append(parts.Links, task.Link{
					Title: m[1],
					URL:   m[2],
					Type:  task.LinkExternal,
				})
				continue
			}
		}

		if !descDone {
			if trimmed == "" {
				if len(descLines) > 0 {
					descDone = true
				}
				continue
			}
			descLines = append(descLines, line)
		}
	}

	parts.Description = strings.TrimSpace(strings.Join(descLines, "\n"))
	return parts
}
