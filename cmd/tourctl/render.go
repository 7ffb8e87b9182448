package main

import (
	"fmt"
	"io"
	"strconv"

	"tourplanner/internal/search"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("32"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func renderSearch(w io.Writer, res search.PagedResult) {
	if len(res.Items) == 0 {
		fmt.Fprintln(w, metaStyle.Render(fmt.Sprintf("no tours match (%d total)", res.Total)))
		return
	}

	t := newTable("Name", "From", "To", "Transport", "Distance km", "Duration")
	for _, item := range res.Items {
		t.Row(
			item.Name,
			item.From,
			item.To,
			item.TransportType,
			strconv.FormatFloat(item.DistanceKm, 'f', 2, 64),
			search.FormatDuration(item.EstimatedTimeSec),
		)
	}
	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w, metaStyle.Render(fmt.Sprintf("page %d, %d per page, %d total", res.Page, res.PageSize, res.Total)))
}

func renderSummaries(w io.Writer, items []search.Summary) {
	if len(items) == 0 {
		fmt.Fprintln(w, metaStyle.Render("no tours"))
		return
	}

	t := newTable("Name", "Distance km", "Popularity", "Avg rating", "Child friendliness")
	for _, s := range items {
		t.Row(
			s.Name,
			strconv.FormatFloat(s.DistanceKm, 'f', 2, 64),
			strconv.Itoa(s.Popularity),
			optional(s.AverageRating, func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }),
			optional(s.ChildFriendliness, search.FormatChildFriendliness),
		)
	}
	fmt.Fprintln(w, t.Render())
}

func optional(v *float64, format func(float64) string) string {
	if v == nil {
		return "-"
	}
	return format(*v)
}
