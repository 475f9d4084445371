package parser

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"
)

// NotesExtractor separates speaker notes and slide directives from markdown content
type NotesExtractor struct {
	notePrefix  string
	layoutRegex *regexp.Regexp
}

// NewNotesExtractor creates a new notes extractor
func NewNotesExtractor() *NotesExtractor {
	return &NotesExtractor{
		notePrefix:  "Note:",
		layoutRegex: regexp.MustCompile(`^<!--\s*layout:\s*(\d+)\s*-->$`),
	}
}

// ExtractNotes separates speaker notes from main content.
// Every line starting with "Note:" contributes one line of notes.
func (e *NotesExtractor) ExtractNotes(content string) (mainContent string, notes string) {
	var contentLines, noteLines []string
	scanner := bufio.NewScanner(strings.NewReader(content))

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, e.notePrefix) {
			noteContent := strings.TrimSpace(strings.TrimPrefix(trimmed, e.notePrefix))
			if noteContent != "" {
				noteLines = append(noteLines, noteContent)
			}
		} else {
			contentLines = append(contentLines, line)
		}
	}

	return strings.Join(contentLines, "\n"), strings.Join(noteLines, "\n")
}

// ExtractLayout removes layout directives and returns the last index found
func (e *NotesExtractor) ExtractLayout(content string) (mainContent string, layout *int) {
	var contentLines []string
	scanner := bufio.NewScanner(strings.NewReader(content))

	for scanner.Scan() {
		line := scanner.Text()
		if m := e.layoutRegex.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				layout = &n
				continue
			}
		}
		contentLines = append(contentLines, line)
	}

	return strings.Join(contentLines, "\n"), layout
}
