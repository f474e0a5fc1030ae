// Package exporters renders the reading list as a human-readable journal
// text file. The format is the contract of internal/parsers, which reads
// it back.
package exporters

import (
	"fmt"
	"strings"
	"time"

	"github.com/readkeep/tbrlist/internal/database/books"
)

// RenderJournal serializes the TBR entries into journal text: a header,
// one section per reading status (in first-seen order) with a book count,
// one bullet per book with indented detail lines, and a stats footer.
func RenderJournal(entries []books.Entry, now time.Time) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "MY READING JOURNAL\n")
	fmt.Fprintf(&builder, "=================\n\n")
	fmt.Fprintf(&builder, "Exported on: %s\n\n", now.Format("January 02, 2006 at 03:04 PM"))

	// Group by status, keeping the order statuses first appear in the
	// listing.
	var statusOrder []string
	groups := make(map[string][]books.Entry)
	for _, entry := range entries {
		if _, seen := groups[entry.Status]; !seen {
			statusOrder = append(statusOrder, entry.Status)
		}
		groups[entry.Status] = append(groups[entry.Status], entry)
	}

	for _, status := range statusOrder {
		group := groups[status]
		fmt.Fprintf(&builder, "## %s (%d books)\n\n", strings.ToUpper(status), len(group))

		for _, entry := range group {
			fmt.Fprintf(&builder, "* %s by %s\n", entry.Title, entry.Author)

			if entry.Genre != "" {
				fmt.Fprintf(&builder, "  - Genre: %s", entry.Genre)
				if entry.Category != "" {
					fmt.Fprintf(&builder, " (%s)", entry.Category)
				}
				fmt.Fprintf(&builder, "\n")
			}
			if entry.Priority > 0 {
				fmt.Fprintf(&builder, "  - Priority: %s\n", strings.Repeat("★", entry.Priority))
			}
			if entry.PageCount > 0 {
				fmt.Fprintf(&builder, "  - Pages: %d\n", entry.PageCount)
			}
			if entry.PublicationYear > 0 {
				fmt.Fprintf(&builder, "  - Published: %d\n", entry.PublicationYear)
			}
			if entry.Rating > 0 {
				fmt.Fprintf(&builder, "  - Rating: %s\n", strings.Repeat("★", entry.Rating))
			}
			if entry.DateAdded != "" {
				fmt.Fprintf(&builder, "  - Added on: %s\n", entry.DateAdded)
			}
			if entry.DateCompleted != "" {
				fmt.Fprintf(&builder, "  - Completed on: %s\n", entry.DateCompleted)
			}
			fmt.Fprintf(&builder, "\n")
		}
		fmt.Fprintf(&builder, "\n")
	}

	writeStatsFooter(&builder, entries)
	return builder.String()
}

func writeStatsFooter(builder *strings.Builder, entries []books.Entry) {
	fmt.Fprintf(builder, "READING STATS\n")
	fmt.Fprintf(builder, "=============\n\n")

	var completed, reading, toRead int
	for _, entry := range entries {
		switch entry.Status {
		case "Completed":
			completed++
		case "Currently Reading":
			reading++
		case "To Read":
			toRead++
		}
	}

	fmt.Fprintf(builder, "Total books: %d\n", len(entries))
	fmt.Fprintf(builder, "Completed: %d\n", completed)
	fmt.Fprintf(builder, "Currently reading: %d\n", reading)
	fmt.Fprintf(builder, "To be read: %d\n\n", toRead)

	if completed > 0 {
		var ratingSum int
		for _, entry := range entries {
			if entry.Status == "Completed" {
				ratingSum += entry.Rating
			}
		}
		avg := float64(ratingSum) / float64(completed)
		fmt.Fprintf(builder, "Average rating for completed books: %.1f stars\n", avg)
	}

	fmt.Fprintf(builder, "\n---\n")
	fmt.Fprintf(builder, "Note: This file is meant for human readability. ")
	fmt.Fprintf(builder, "Importing it back recovers titles, authors, genres, priorities and ratings.\n")
}
