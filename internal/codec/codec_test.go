package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskvault/taskvault/internal/task"
)

func fullTask() *task.Task {
	return &task.Task{
		ID:               "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		ProjectID:        "default",
		Title:            "Plan the launch",
		Status:           "In Progress",
		Priority:         "High",
		Completed:        false,
		Description:      "Coordinate the rollout with the platform team.",
		Subtasks: []task.Subtask{
			{ID: "s1", Title: "Draft announcement", Completed: true},
			{ID: "s2", Title: "Schedule review", Completed: false},
		},
		Dependencies: []task.Dependency{
			{Type: task.DepFinishToStart, PredecessorID: "01ARZ3NDEKTSV4RRFFQ69G5FB0"},
		},
		Links: []task.Link{
			{ID: "l1", Title: "Launch Notes", URL: "Launch Notes", Type: task.LinkObsidian},
			{ID: "l2", Title: "Tracker", URL: "https://example.com/t/42", Type: task.LinkExternal},
		},
		Tags:             []string{"release"},
		CreatedDate:      "2026-08-01",
		LastModifiedDate: "2026-08-30",
		DueDate:          "2026-09-15",
	}
}

func TestTaskToDocumentDeterministic(t *testing.T) {
	tk := fullTask()
	resolve := func(id string) (string, bool) { return "Upstream Task", true }

	a := TaskToDocument(tk, "Inbox", resolve)
	b := TaskToDocument(tk, "Inbox", resolve)
	require.Equal(t, a, b, "same task must serialize byte-identically")

	assert.True(t, strings.HasPrefix(a, "---\n"))
	assert.Contains(t, a, "id: 01ARZ3NDEKTSV4RRFFQ69G5FAV")
	assert.Contains(t, a, "## Subtasks")
	assert.Contains(t, a, "- [x] Draft announcement")
	assert.Contains(t, a, "- [ ] Schedule review")
	assert.Contains(t, a, "- FS: [[Upstream Task]]")
	assert.Contains(t, a, "- [[Launch Notes]]")
	assert.Contains(t, a, "- [Tracker](https://example.com/t/42)")
	assert.Contains(t, a, "*Task from Project: Inbox*")

	// The header emits fields in a fixed order.
	idIdx := strings.Index(a, "\nid:")
	titleIdx := strings.Index(a, "\ntitle:")
	statusIdx := strings.Index(a, "\nstatus:")
	assert.Less(t, idIdx, titleIdx)
	assert.Less(t, titleIdx, statusIdx)
}

func TestDocumentRoundTrip(t *testing.T) {
	tk := fullTask()
	doc := TaskToDocument(tk, "Inbox", nil)

	got := MarkdownToTask(doc, "default")
	require.NotNil(t, got)

	assert.Equal(t, tk.ID, got.ID)
	assert.Equal(t, tk.Title, got.Title)
	assert.Equal(t, tk.Status, got.Status)
	assert.Equal(t, tk.Priority, got.Priority)
	assert.Equal(t, tk.Completed, got.Completed)
	assert.Equal(t, tk.Description, got.Description)
	assert.Equal(t, tk.Tags, got.Tags)
	assert.Equal(t, tk.DueDate, got.DueDate)
	assert.Equal(t, tk.CreatedDate, got.CreatedDate)
	assert.Equal(t, tk.Dependencies, got.Dependencies)

	require.Len(t, got.Subtasks, 2)
	assert.Equal(t, "Draft announcement", got.Subtasks[0].Title)
	assert.True(t, got.Subtasks[0].Completed)
	assert.Equal(t, "Schedule review", got.Subtasks[1].Title)
	assert.False(t, got.Subtasks[1].Completed)

	require.Len(t, got.Links, 2)
	assert.Equal(t, task.LinkObsidian, got.Links[0].Type)
	assert.Equal(t, "Launch Notes", got.Links[0].URL)
	assert.Equal(t, task.LinkExternal, got.Links[1].Type)
	assert.Equal(t, "https://example.com/t/42", got.Links[1].URL)
	assert.Equal(t, "Tracker", got.Links[1].Title)
}

func TestMarkdownToTaskRejectsUnusableDocuments(t *testing.T) {
	assert.Nil(t, MarkdownToTask("just some prose\n", "p"), "no frontmatter")
	assert.Nil(t, MarkdownToTask("---\ntitle: No ID\n---\n", "p"), "missing id")
	assert.Nil(t, MarkdownToTask("---\nid: abc\n---\n", "p"), "missing title")
	assert.Nil(t, MarkdownToTask("---\nid: abc\ntitle: T\n", "p"), "unterminated frontmatter")
	assert.Nil(t, MarkdownToTask("---\n: [bad yaml\n---\n", "p"), "malformed header")
}

func TestMarkdownToTaskDropsInvalidDependencies(t *testing.T) {
	doc := "---\n" +
		"id: abc\n" +
		"title: T\n" +
		"dependencies:\n" +
		"  - \"FS:pred-1\"\n" +
		"  - \"XX:pred-2\"\n" +
		"  - \"no-colon\"\n" +
		"  - \"SS:\"\n" +
		"---\n"
	got := MarkdownToTask(doc, "p")
	require.NotNil(t, got)
	require.Len(t, got.Dependencies, 1)
	assert.Equal(t, task.DepFinishToStart, got.Dependencies[0].Type)
	assert.Equal(t, "pred-1", got.Dependencies[0].PredecessorID)
}

func TestParseDocumentToleratesHandEdits(t *testing.T) {
	body := "A description the user typed.\n" +
		"Second line of it.\n" +
		"\n" +
		"## Subtasks\n" +
		"- [x] already done\n" +
		"not a checklist line\n" +
		"- [ ] still open\n" +
		"\n" +
		"## Links\n" +
		"- [[Some Note]]\n" +
		"- [Docs](https://example.com)\n" +
		"- plain bullet, not a link\n" +
		"\n" +
		"---\n" +
		"*Task from Project: Inbox*\n"

	parts := ParseDocument(body)
	assert.Equal(t, "A description the user typed.\nSecond line of it.", parts.Description)
	require.Len(t, parts.Subtasks, 2)
	require.Len(t, parts.Links, 2)
	assert.Equal(t, task.LinkObsidian, parts.Links[0].Type)
	assert.Equal(t, "Docs", parts.Links[1].Title)
}

func TestParseDocumentChecklistBeforeHeadingIgnored(t *testing.T) {
	body := "- [ ] stray checkbox in the description area\n"
	parts := ParseDocument(body)
	assert.Empty(t, parts.Subtasks)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct{ in, want string }{
		{`Invalid: /\*?"<>| chars`, "Invalid- -------- chars"},
		{"Plan: the/launch", "Plan- the-launch"},
		{`a\b*c?d"e<f>g|h`, "a-b-c-d-e-f-g-h"},
		{"plain title", "plain title"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTaskFilePath(t *testing.T) {
	assert.Equal(t, "Inbox/Tasks/My Task.md", TaskFilePath("My Task", "Inbox", ""))
	assert.Equal(t, "Projects/Inbox/Tasks/My Task.md", TaskFilePath("My Task", "Inbox", "Projects"))
	assert.Equal(t, "Inbox/Tasks/a-b.md", TaskFilePath("a:b", "Inbox", ""))
}
