// Package display renders human-readable catalog summaries for the terminal.
package display

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/starford/modcat/internal/models"
)

var (
	colorPrimary = lipgloss.Color("39")
	colorDim     = lipgloss.Color("241")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	totalStyle = lipgloss.NewStyle().
			Bold(true)
)

// Row is one category line of a summary.
type Row struct {
	Category string
	Count    int
	Share    float64 // percent of total
}

// Rows orders categories by count, descending, then by name.
func Rows(report *models.Report) []Row {
	rows := make([]Row, 0, len(report.Categories))
	for cat, n := range report.Categories {
		share := 0.0
		if report.TotalFiles > 0 {
			share = float64(n) * 100 / float64(report.TotalFiles)
		}
		rows = append(rows, Row{Category: cat, Count: n, Share: share})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}

// Summary writes a per-category count table for report.
func Summary(w io.Writer, report *models.Report, root string) error {
	rows := Rows(report)

	nameWidth := len("category")
	countWidth := len(strconv.Itoa(report.TotalFiles))
	for _, r := range rows {
		nameWidth = max(nameWidth, len(r.Category))
	}
	nameCol := lipgloss.NewStyle().Width(nameWidth + 2)
	countCol := lipgloss.NewStyle().Width(max(countWidth, len("files")) + 2).Align(lipgloss.Right)
	shareCol := lipgloss.NewStyle().Width(9).Align(lipgloss.Right)

	var b strings.Builder
	b.WriteString(headerStyle.Render("Catalog of " + root))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(nameCol.Render("category") + countCol.Render("files") + shareCol.Render("share")))
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString(nameCol.Render(r.Category))
		b.WriteString(countCol.Render(strconv.Itoa(r.Count)))
		b.WriteString(shareCol.Render(fmt.Sprintf("%.1f%%", r.Share)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(totalStyle.Render(fmt.Sprintf("%d files in %d categories", report.TotalFiles, len(rows))))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}
