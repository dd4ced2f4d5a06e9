// Package review provides an interactive terminal view for curating an
// extracted itinerary before it is saved or rendered.
package review

import (
	"errors"
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fyrsmithlabs/holidaze/internal/itinerary"
)

const (
	sparklineWidth  = 30
	sparklineHeight = 3
	progressWidth   = 40
)

// ErrAborted is returned by Run when the user leaves without accepting.
var ErrAborted = errors.New("review aborted")

// Lipgloss styles (k9s-inspired color scheme)
var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("51")).
			Bold(true).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true).
			MarginTop(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	confirmedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true)

	tentativeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")).
			Bold(true)

	droppedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Strikethrough(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true)

	containerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(1, 2)

	sparklineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51"))
)

// Model is the bubbletea model for reviewing an itinerary.
type Model struct {
	source *itinerary.Itinerary
	items  []itinerary.TravelItem
	keep   []bool
	cursor int

	accepted bool
	aborted  bool

	keys     keyMap
	help     help.Model
	progress progress.Model
}

// NewModel creates a review model over a copy of it. Every item starts kept.
func NewModel(it *itinerary.Itinerary) Model {
	src := it.Clone()
	keep := make([]bool, len(src.Items))
	for i := range keep {
		keep[i] = true
	}

	return Model{
		source: src,
		items:  src.Items,
		keep:   keep,
		keys:   keys,
		help:   help.New(),
		progress: progress.New(
			progress.WithGradient("#00ffff", "#00ff00"),
			progress.WithWidth(progressWidth),
			progress.WithoutPercentage(),
		),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.aborted = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Accept):
			m.accepted = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Toggle):
			if len(m.items) > 0 {
				m.keep[m.cursor] = !m.keep[m.cursor]
			}
		case key.Matches(msg, m.keys.Status):
			if len(m.items) > 0 {
				m.items[m.cursor].Status = flipStatus(m.items[m.cursor].Status)
			}
		}

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	}

	return m, nil
}

func flipStatus(s itinerary.Status) itinerary.Status {
	if s == itinerary.StatusConfirmed {
		return itinerary.StatusTentative
	}
	return itinerary.StatusConfirmed
}

// Accepted reports whether the user accepted the selection.
func (m Model) Accepted() bool { return m.accepted }

// Aborted reports whether the user left without accepting.
func (m Model) Aborted() bool { return m.aborted }

// Kept returns the number of items currently kept.
func (m Model) Kept() int {
	n := 0
	for _, k := range m.keep {
		if k {
			n++
		}
	}
	return n
}

// Curated returns a new itinerary holding the kept items, with the status
// edits applied. The trip range is recomputed from the kept items and falls
// back to the original range when none of them carries a date.
func (m Model) Curated() *itinerary.Itinerary {
	out := &itinerary.Itinerary{
		Title:        m.source.Title,
		Destination:  m.source.Destination,
		Participants: append([]string(nil), m.source.Participants...),
		Items:        make([]itinerary.TravelItem, 0, m.Kept()),
	}
	for i, item := range m.items {
		if m.keep[i] {
			out.Items = append(out.Items, item.Clone())
		}
	}

	if start, end, ok := itinerary.DateRange(out.Items); ok {
		out.StartDate, out.EndDate = start.Ptr(), end.Ptr()
	} else {
		out.StartDate, out.EndDate = m.source.StartDate, m.source.EndDate
	}
	return out
}

// View renders the review screen.
func (m Model) View() string {
	if m.accepted || m.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("holidaze review: " + m.source.Title))
	b.WriteString("\n")
	if dates := m.source.FormattedDates(); dates != "" {
		b.WriteString(labelStyle.Render("Dates: ") + valueStyle.Render(dates) + "\n")
	}

	b.WriteString(sectionStyle.Render("Items per day"))
	b.WriteString("\n")
	b.WriteString(createSparkline(dailyCounts(m.source)))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Items"))
	b.WriteString("\n")
	if len(m.items) == 0 {
		b.WriteString(dimStyle.Render("nothing extracted"))
		b.WriteString("\n")
	}
	for i, item := range m.items {
		b.WriteString(m.renderItem(i, item))
		b.WriteString("\n")
	}

	ratio := 0.0
	if len(m.items) > 0 {
		ratio = float64(m.Kept()) / float64(len(m.items))
	}
	b.WriteString("\n")
	b.WriteString(m.progress.ViewAs(ratio))
	b.WriteString(dimStyle.Render(fmt.Sprintf(" %d/%d kept", m.Kept(), len(m.items))))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	return containerStyle.Render(b.String())
}

func (m Model) renderItem(i int, item itinerary.TravelItem) string {
	cursor := "  "
	if i == m.cursor {
		cursor = cursorStyle.Render("> ")
	}
	check := "[x]"
	if !m.keep[i] {
		check = "[ ]"
	}

	status := tentativeStyle.Render("tentative")
	if item.Status == itinerary.StatusConfirmed {
		status = confirmedStyle.Render("confirmed")
	}

	title := item.Category.Icon() + " " + item.Title
	if m.keep[i] {
		title = valueStyle.Render(title)
	} else {
		title = droppedStyle.Render(title)
	}

	line := fmt.Sprintf("%s%s %s %s", cursor, check, title, status)
	if d := item.FormattedDate(); d != "" {
		line += " " + dimStyle.Render(d)
	}
	return line
}

// dailyCounts returns the number of items starting on each day of the trip.
func dailyCounts(it *itinerary.Itinerary) []float64 {
	if it.StartDate == nil || it.EndDate == nil {
		return nil
	}
	days := it.StartDate.DaysUntil(*it.EndDate) + 1
	if days <= 0 {
		return nil
	}
	counts := make([]float64, days)
	for _, item := range it.Items {
		if item.StartDate == nil {
			continue
		}
		d := it.StartDate.DaysUntil(*item.StartDate)
		if d >= 0 && d < days {
			counts[d]++
		}
	}
	return counts
}

// createSparkline creates a sparkline chart from per-day counts.
func createSparkline(data []float64) string {
	if len(data) == 0 {
		return dimStyle.Render(fmt.Sprintf("%*s", sparklineWidth, "no data"))
	}

	spark := sparkline.New(sparklineWidth, sparklineHeight)
	for _, v := range data {
		spark.Push(v)
	}
	spark.Draw()

	return sparklineStyle.Render(spark.View())
}

// Run shows the review screen and returns the curated itinerary once the user
// accepts. It returns ErrAborted when the user quits.
func Run(it *itinerary.Itinerary, opts ...tea.ProgramOption) (*itinerary.Itinerary, error) {
	final, err := tea.NewProgram(NewModel(it), opts...).Run()
	if err != nil {
		return nil, fmt.Errorf("running review: %w", err)
	}
	m, ok := final.(Model)
	if !ok || !m.accepted {
		return nil, ErrAborted
	}
	return m.Curated(), nil
}
