package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fyrsmithlabs/holidaze/internal/itinerary"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("51")).
			Bold(true).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	confirmedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	tentativeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226"))
)

// Terminal renders a compact listing of it for the command line.
func Terminal(it *itinerary.Itinerary) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(it.Title) + "\n")
	field := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-13s", label)) + valueStyle.Render(value) + "\n")
	}
	field("Destination", it.Destination)
	field("Dates", it.FormattedDates())
	field("Participants", strings.Join(it.Participants, ", "))

	b.WriteString("\n" + dimStyle.Render(fmt.Sprintf("%d items", len(it.Items))) + "\n")
	for _, item := range it.Items {
		b.WriteString(TerminalItem(item) + "\n")
	}
	return b.String()
}

// TerminalItem renders a single item line.
func TerminalItem(item itinerary.TravelItem) string {
	date := "undated"
	if item.StartDate != nil {
		date = item.StartDate.String()
	}

	line := fmt.Sprintf("  %s %s  %s", item.Category.Icon(), dimStyle.Render(fmt.Sprintf("%-10s", date)), item.Title)
	switch item.Status {
	case itinerary.StatusConfirmed:
		line += " " + confirmedStyle.Render("✓")
	case itinerary.StatusTentative:
		line += " " + tentativeStyle.Render("?")
	}
	if cost, ok := item.Details["cost"]; ok {
		line += dimStyle.Render("  " + cost)
	}
	if t, ok := item.Details["time"]; ok {
		line += dimStyle.Render("  " + t)
	}
	return line
}
