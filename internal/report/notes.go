package report

import "strings"

const (
	maxNoteLines = 5
	maxNoteChars = 300
	ellipsis     = "…"
)

// excerptNotes bounds a notes field to at most maxNoteLines lines and
// maxNoteChars characters, whichever limit is hit first, truncating mid-line
// when needed. The second return reports whether anything was cut.
func excerptNotes(notes string) (string, bool) {
	truncated := false

	lines := strings.Split(notes, "\n")
	if len(lines) > maxNoteLines {
		lines = lines[:maxNoteLines]
		truncated = true
	}

	joined := strings.Join(lines, "\n")
	if runes := []rune(joined); len(runes) > maxNoteChars {
		joined = string(runes[:maxNoteChars])
		truncated = true
	}

	return joined, truncated
}

// notesBlock renders a task's notes as an indented fenced code block under
// its checkbox line. Empty notes render nothing.
func notesBlock(notes string) string {
	if notes == "" {
		return ""
	}

	excerpt, truncated := excerptNotes(notes)
	if truncated {
		excerpt += ellipsis
	}

	var b strings.Builder
	b.WriteString("  ```\n")
	for _, line := range strings.Split(excerpt, "\n") {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("  ```\n")
	return b.String()
}
