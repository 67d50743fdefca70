// Package extract holds the stateless pattern matchers applied to
// tagged checklist lines: priority markers, due-date markers, the
// project-routing tag, and freeform tags.
package extract

import (
	"regexp"
	"strings"
)

// Extraction is everything recovered from one task line. Tags carries
// raw tag names; resolving them against the configured tag list is the
// caller's concern.
type Extraction struct {
	Title       string
	Priority    string
	DueDate     string
	ProjectName string
	HasRouting  bool
	Tags        []string
}

var checklistRe = regexp.MustCompile(`^\s*-\s*\[([ xX])\]\s*(.*)$`)

// ChecklistParts splits a checkbox line into its completion state and
// trailing text. ok is false for non-checklist lines.
func ChecklistParts(line string) (completed bool, rest string, ok bool) {
	m := checklistRe.FindStringSubmatch(line)
	if m == nil {
		return false, "", false
	}
	return strings.EqualFold(m[1], "x"), m[2], true
}

// IsTaggedTaskLine reports whether the line is a checklist line carrying
// the base task tag (bare or with a routing suffix).
func IsTaggedTaskLine(line, baseTag string) bool {
	_, rest, ok := ChecklistParts(line)
	if !ok {
		return false
	}
	return baseTagRe(baseTag).MatchString(rest)
}

// Priority marker patterns, highest-signal first: checking !!! before !!
// before ! keeps a triple bang from being read as three singles. The
// textual form is the lowest-precedence alternative.
var priorityPatterns = []struct {
	re   *regexp.Regexp
	name string
}{
	{regexp.MustCompile(`!!!`), "Critical"},
	{regexp.MustCompile(`!!`), "High"},
	{regexp.MustCompile(`!`), "Medium"},
	{regexp.MustCompile(`(?i)\b(critical|high|medium|low)\b`), ""},
}

var duePatterns = []*regexp.Regexp{
	regexp.MustCompile(`📅\s*(\d{4}-\d{2}-\d{2})`),
	regexp.MustCompile(`(?i)due:\s*(\d{4}-\d{2}-\d{2})`),
	regexp.MustCompile(`@(\d{4}-\d{2}-\d{2})`),
}

var tagTokenRe = regexp.MustCompile(`#[\pL\pN][\pL\pN_/-]*`)

func baseTagRe(baseTag string) *regexp.Regexp {
	return regexp.MustCompile(`#` + regexp.QuoteMeta(baseTag) + `(/[^\s#]*)?(\s|#|$)`)
}

func routingRe(baseTag string) *regexp.Regexp {
	return regexp.MustCompile(`#` + regexp.QuoteMeta(baseTag) + `/([^\s#]*)`)
}

// Extract applies the extractors in their fixed precedence order and
// returns the residual title with every matched substring stripped.
func Extract(text, baseTag string) Extraction {
	var ex Extraction

	// 1. Priority: only the first matching pattern applies.
	for _, p := range priorityPatterns {
		loc := p.re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		if p.name != "" {
			ex.Priority = p.name
		} else {
			ex.Priority = canonicalPriority(text[loc[0]:loc[1]])
		}
		text = text[:loc[0]] + text[loc[1]:]
		break
	}

	// 2. Due date: first matching form wins.
	for _, re := range duePatterns {
		m := re.FindStringSubmatchIndex(text)
		if m == nil {
			continue
		}
		ex.DueDate = text[m[2]:m[3]]
		text = text[:m[0]] + text[m[1]:]
		break
	}

	// 3. Project-routing tag: #{base}/{suffix}, hyphens in the suffix
	// become spaces for the project-name lookup.
	if m := routingRe(baseTag).FindStringSubmatchIndex(text); m != nil {
		suffix := text[m[2]:m[3]]
		if suffix != "" {
			ex.ProjectName = strings.ReplaceAll(suffix, "-", " ")
			ex.HasRouting = true
		}
		text = text[:m[0]] + text[m[1]:]
	}

	// 4. Freeform tags: every remaining #word except the base tag.
	text = tagTokenRe.ReplaceAllStringFunc(text, func(tok string) string {
		name := strings.TrimPrefix(tok, "#")
		if !strings.EqualFold(name, baseTag) {
			ex.Tags = append(ex.Tags, name)
		}
		return ""
	})

	ex.Title = strings.TrimSpace(collapseSpaces(text))
	return ex
}

func canonicalPriority(match string) string {
	switch strings.ToLower(match) {
	case "critical":
		return "Critical"
	case "high":
		return "High"
	case "medium":
		return "Medium"
	case "low":
		return "Low"
	}
	return ""
}

var spaceRunRe = regexp.MustCompile(`[ \t]{2,}`)

func collapseSpaces(s string) string {
	return spaceRunRe.ReplaceAllString(s, " ")
}
