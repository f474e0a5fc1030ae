// Package parsers reads journal text produced by internal/exporters back
// into book records. The parser is a line-oriented state machine: section
// headers set the current reading status, bullets start book records,
// dashed lines add details. It is deliberately forgiving — malformed
// numeric fields become zero rather than failing the whole import.
package parsers

import (
	"strconv"
	"strings"
)

// StatusTag is the parsed reading status of a journal section.
type StatusTag int

const (
	StatusOther StatusTag = iota
	StatusCompleted
	StatusInProgress
	StatusToRead
	StatusDidNotFinish
)

// headerMappings maps section header prefixes to status tags. Matched in
// order against the upper-cased header text; the more specific prefixes
// come first. Headers matching nothing become StatusOther labelled with
// their first word.
var headerMappings = []struct {
	prefix string
	tag    StatusTag
	label  string
}{
	{"COMPLETE", StatusCompleted, "Complete"},
	{"NOT STARTED", StatusToRead, "Not Started"},
	{"CURRENTLY READING", StatusInProgress, "In-Progress"},
	{"READING", StatusInProgress, "In-Progress"},
	{"DID NOT FINISH", StatusDidNotFinish, "Did Not Finish"},
	{"TO READ", StatusToRead, "To Read"},
}

// Book is one parsed journal record. Zero means unset for the numeric
// fields; priority and rating are recovered by counting ★ glyphs.
type Book struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	Genre           string `json:"genre,omitempty"`
	Category        string `json:"category,omitempty"`
	Status          StatusTag
	StatusLabel     string `json:"status"`
	Priority        int    `json:"priority,omitempty"`
	PageCount       int    `json:"page_count,omitempty"`
	PublicationYear int    `json:"publication_year,omitempty"`
	Rating          int    `json:"rating,omitempty"`
	DateAdded       string `json:"date_added,omitempty"`
	DateCompleted   string `json:"date_completed,omitempty"`
}

func statusFromHeader(header string) (StatusTag, string) {
	for _, mapping := range headerMappings {
		if strings.HasPrefix(header, mapping.prefix) {
			return mapping.tag, mapping.label
		}
	}
	// Fall back to the first whitespace-delimited word, capitalized, so
	// headers with counts like "## SOMEDAY (3 books)" stay readable.
	word := header
	if fields := strings.Fields(header); len(fields) > 0 {
		word = fields[0]
	}
	return StatusOther, capitalize(word)
}

// ParseJournal parses journal text into book records. Books without a
// title are dropped; everything else is recovered on a best-effort basis.
func ParseJournal(text string) []Book {
	var parsed []Book

	currentStatus := StatusOther
	currentLabel := ""
	var current Book
	flush := func() {
		if current.Title != "" {
			parsed = append(parsed, current)
		}
		current = Book{}
	}

	lines := strings.Split(text, "\n")
	for i, raw := range lines {
		line := strings.TrimSpace(raw)

		switch {
		case strings.HasPrefix(line, "## "):
			currentStatus, currentLabel = statusFromHeader(strings.TrimSpace(line[3:]))

		case strings.HasPrefix(line, "* "):
			flush()
			current = Book{Status: currentStatus, StatusLabel: currentLabel}
			titleAuthor := strings.TrimSpace(line[2:])
			if parts := strings.Split(titleAuthor, " by "); len(parts) > 1 {
				current.Title = strings.TrimSpace(parts[0])
				current.Author = strings.TrimSpace(parts[1])
			} else {
				current.Title = titleAuthor
			}

		case strings.HasPrefix(line, "- "):
			parseDetail(&current, line)

		case line == "":
			// A blank line ends a record unless the detail block
			// continues on the next line.
			if current.Title != "" && i < len(lines)-1 &&
				!strings.HasPrefix(strings.TrimSpace(lines[i+1]), "- ") {
				flush()
			}
		}
	}

	flush()
	return parsed
}

func parseDetail(book *Book, line string) {
	detail := strings.TrimSpace(line[2:])

	switch {
	case strings.HasPrefix(detail, "Genre: "):
		book.Genre, book.Category = splitGenre(detail[len("Genre: "):])
	case strings.HasPrefix(detail, "Priority: "):
		book.Priority = strings.Count(detail, "★")
	case strings.HasPrefix(detail, "Pages: "):
		book.PageCount = parseIntOrZero(detail[len("Pages: "):])
	case strings.HasPrefix(detail, "Published: "):
		book.PublicationYear = parseIntOrZero(detail[len("Published: "):])
	case strings.HasPrefix(detail, "Rating: "):
		book.Rating = strings.Count(detail, "★")
	case strings.HasPrefix(detail, "Added on: "):
		book.DateAdded = detail[len("Added on: "):]
	case strings.HasPrefix(detail, "Completed on: "):
		book.DateCompleted = detail[len("Completed on: "):]
	}
}

// splitGenre pulls an optional parenthesized category out of the genre
// text: "Sci-Fi (Space Opera)" -> ("Sci-Fi", "Space Opera").
func splitGenre(text string) (genre, category string) {
	open := strings.Index(text, "(")
	closing := strings.Index(text, ")")
	if open < 0 || closing < open {
		return strings.TrimSpace(text), ""
	}
	return strings.TrimSpace(text[:open]), strings.TrimSpace(text[open+1 : closing])
}

func parseIntOrZero(text string) int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0
	}
	return n
}

func capitalize(word string) string {
	if word == "" {
		return ""
	}
	return strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
}
