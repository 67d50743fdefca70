package codec

import (
	"path"
	"strings"
)

// TasksFolderName is the per-project folder holding task documents.
const TasksFolderName = "Tasks"

// illegal path-component characters, each replaced one-for-one so the
// sanitized title keeps its length.
const illegalPathChars = `:/\*?"<>|`

// SanitizeFilename replaces every character illegal in a filesystem
// path component with '-'. Spaces and everything else pass through
// verbatim.
func SanitizeFilename(title string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(illegalPathChars, r) {
			return '-'
		}
		return r
	}, title)
}

// TasksFolder returns the vault-relative folder for a project's task
// documents, honoring an optional base path override.
func TasksFolder(projectName, basePath string) string {
	if basePath != "" {
		return path.Join(basePath, projectName, TasksFolderName)
	}
	return path.Join(projectName, TasksFolderName)
}

// TaskFilePath derives the document path for a task title:
// {basePath/}{projectName}/Tasks/{sanitizedTitle}.md
func TaskFilePath(title, projectName, basePath string) string {
	return path.Join(TasksFolder(projectName, basePath), SanitizeFilename(title)+".md")
}
