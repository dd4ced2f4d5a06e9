package review

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/holidaze/internal/itinerary"
)

func testItinerary() *itinerary.Itinerary {
	return &itinerary.Itinerary{
		Title:        "Thailand 2026",
		Participants: []string{"Ana", "Ben"},
		StartDate:    itinerary.MustParseDate("2026-03-14").Ptr(),
		EndDate:      itinerary.MustParseDate("2026-03-20").Ptr(),
		Items: []itinerary.TravelItem{
			{ID: "item-1", Category: itinerary.CategoryFlight, Status: itinerary.StatusConfirmed, Title: "Etihad Flight", StartDate: itinerary.MustParseDate("2026-03-14").Ptr()},
			{ID: "item-2", Category: itinerary.CategoryHotel, Status: itinerary.StatusTentative, Title: "Old House", StartDate: itinerary.MustParseDate("2026-03-15").Ptr()},
			{ID: "item-3", Category: itinerary.CategoryTransfer, Status: itinerary.StatusConfirmed, Title: "Ferry", StartDate: itinerary.MustParseDate("2026-03-20").Ptr()},
		},
	}
}

func press(t *testing.T, m Model, msgs ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range msgs {
		updated, _ := m.Update(k)
		m = updated.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	down  = tea.KeyMsg{Type: tea.KeyDown}
	up    = tea.KeyMsg{Type: tea.KeyUp}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestNewModel(t *testing.T) {
	m := NewModel(testItinerary())
	assert.Equal(t, 3, m.Kept())
	assert.Equal(t, 0, m.cursor)
	assert.False(t, m.Accepted())
	assert.False(t, m.Aborted())
	assert.Nil(t, m.Init())
}

func TestModel_Navigation(t *testing.T) {
	m := NewModel(testItinerary())

	m = press(t, m, up)
	assert.Equal(t, 0, m.cursor, "cursor stays at top")

	m = press(t, m, down, down, down, down)
	assert.Equal(t, 2, m.cursor, "cursor stays at bottom")

	m = press(t, m, runes("k"))
	assert.Equal(t, 1, m.cursor)
}

func TestModel_ToggleKeep(t *testing.T) {
	m := press(t, NewModel(testItinerary()), down, space)
	assert.Equal(t, 2, m.Kept())
	assert.False(t, m.keep[1])

	m = press(t, m, space)
	assert.Equal(t, 3, m.Kept())
}

func TestModel_ToggleStatus(t *testing.T) {
	it := testItinerary()
	m := press(t, NewModel(it), down, runes("c"))
	assert.Equal(t, itinerary.StatusConfirmed, m.items[1].Status)
	assert.Equal(t, itinerary.StatusTentative, it.Items[1].Status, "source itinerary is not modified")

	m = press(t, m, runes("c"))
	assert.Equal(t, itinerary.StatusTentative, m.items[1].Status)
}

func TestModel_Accept(t *testing.T) {
	m := press(t, NewModel(testItinerary()), down, down, space)

	updated, cmd := m.Update(enter)
	m = updated.(Model)
	assert.True(t, m.Accepted())
	assert.NotNil(t, cmd)
	assert.Empty(t, m.View())

	cur := m.Curated()
	require.Len(t, cur.Items, 2)
	assert.Equal(t, "item-1", cur.Items[0].ID)
	assert.Equal(t, "item-2", cur.Items[1].ID)
	assert.Equal(t, "2026-03-14", cur.StartDate.String())
	assert.Equal(t, "2026-03-15", cur.EndDate.String())
	assert.Equal(t, []string{"Ana", "Ben"}, cur.Participants)
}

func TestModel_Abort(t *testing.T) {
	for _, k := range []tea.KeyMsg{runes("q"), esc} {
		updated, cmd := NewModel(testItinerary()).Update(k)
		m := updated.(Model)
		assert.True(t, m.Aborted())
		assert.False(t, m.Accepted())
		assert.NotNil(t, cmd)
	}
}

func TestModel_CuratedKeepsRangeWhenNothingDated(t *testing.T) {
	it := testItinerary()
	m := press(t, NewModel(it), space, down, space, down, space)

	cur := m.Curated()
	assert.Empty(t, cur.Items)
	assert.Equal(t, it.StartDate.String(), cur.StartDate.String())
	assert.Equal(t, it.EndDate.String(), cur.EndDate.String())
}

func TestModel_EmptyItinerary(t *testing.T) {
	m := press(t, NewModel(&itinerary.Itinerary{Title: "Empty"}), down, space, runes("c"))
	assert.Equal(t, 0, m.Kept())
	assert.Contains(t, m.View(), "nothing extracted")
}

func TestModel_View(t *testing.T) {
	m := press(t, NewModel(testItinerary()), down, space)
	view := m.View()

	assert.Contains(t, view, "Thailand 2026")
	assert.Contains(t, view, "Etihad Flight")
	assert.Contains(t, view, "tentative")
	assert.Contains(t, view, "2/3 kept")
	assert.Contains(t, view, "accept")
}

func TestDailyCounts(t *testing.T) {
	assert.Equal(t, []float64{1, 1, 0, 0, 0, 0, 1}, dailyCounts(testItinerary()))
	assert.Nil(t, dailyCounts(&itinerary.Itinerary{}))
}

func TestCreateSparkline(t *testing.T) {
	assert.Contains(t, createSparkline(nil), "no data")
	assert.NotEmpty(t, createSparkline([]float64{1, 2, 0}))
}
