package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Bravo-Actual/timegrid/pkg/event"
	"github.com/Bravo-Actual/timegrid/pkg/timeline/lanes"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// AgendaModel - Interactive day-by-day agenda browser
// =============================================================================

// agendaDay is one civil day of the agenda. Conflicts holds the IDs of
// events that share a multi-lane cluster on this day.
type agendaDay struct {
	Day       time.Time
	Events    []event.Event
	Conflicts map[string]bool
}

// AgendaModel is the bubbletea model for the agenda browser.
type AgendaModel struct {
	Days   []agendaDay
	Day    int
	Cursor int
	Height int
	Offset int
}

// NewAgendaModel creates a new agenda model.
func NewAgendaModel(days []agendaDay) AgendaModel {
	return AgendaModel{
		Days:   days,
		Day:    0,
		Cursor: 0,
		Height: 15,
		Offset: 0,
	}
}

func (m AgendaModel) Init() tea.Cmd {
	return nil
}

func (m AgendaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Days[m.Day].Events)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "left", "h":
			if m.Day > 0 {
				m.Day--
				m.Cursor, m.Offset = 0, 0
			}
		case "right", "l":
			if m.Day < len(m.Days)-1 {
				m.Day++
				m.Cursor, m.Offset = 0, 0
			}
		case "t":
			if i := m.todayIndex(); i >= 0 {
				m.Day = i
				m.Cursor, m.Offset = 0, 0
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m AgendaModel) View() string {
	var b strings.Builder

	day := m.Days[m.Day]
	loc := day.Day.Location()
	next := nextCivilDay(day.Day)

	b.WriteString(StyleTitle.Render(day.Day.Format("Monday, Jan 2 2006")))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ day  ↑/↓ event  t today  q quit"))
	b.WriteString("\n\n")

	if len(day.Events) == 0 {
		b.WriteString(listDimStyle.Render("  no events"))
		b.WriteString("\n\n")
		b.WriteString(m.footer(day))
		return b.String()
	}

	end := m.Offset + m.Height
	if end > len(day.Events) {
		end = len(day.Events)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		e := day.Events[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		where := e.Location()
		if where == "" {
			where = e.Calendar()
		}

		rows = append(rows, []string{cursor, agendaTimeCell(e, day.Day, next, loc), e.Title(), where})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Time", "Event", "Where").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(day.Events) {
				return lipgloss.NewStyle()
			}
			e := day.Events[actualIdx]
			conflicted := day.Conflicts[e.ID]
			isCurrent := actualIdx == m.Cursor

			base := lipgloss.NewStyle()
			if col == 1 || col == 3 {
				if isCurrent {
					base = base.Foreground(colorGray)
				} else {
					base = base.Foreground(colorDim)
				}
			}

			if isCurrent {
				if col != 1 && col != 3 {
					return listSelectedStyle
				}
				return base.Bold(true)
			} else if conflicted {
				if col != 1 && col != 3 {
					return base.Foreground(colorYellow)
				}
				return base
			}
			if col == 1 || col == 3 {
				return base
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n")

	if detail := agendaDetail(day, m.Cursor); detail != "" {
		b.WriteString(listDimStyle.Render("  " + iconInfo + " " + detail))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.footer(day))

	return b.String()
}

// footer renders the day position indicator and the day's conflict count.
func (m AgendaModel) footer(day agendaDay) string {
	s := listDimStyle.Render(fmt.Sprintf("  [day %d/%d]", m.Day+1, len(m.Days)))
	if n := len(day.Conflicts); n > 0 {
		s += "  " + StyleWarning.Render(fmt.Sprintf("%d overlapping", n))
	}
	return s
}

// todayIndex returns the index of today's civil day, or -1 when today is
// outside the browse range.
func (m AgendaModel) todayIndex() int {
	if len(m.Days) == 0 {
		return -1
	}
	now := time.Now().In(m.Days[0].Day.Location())
	for i, d := range m.Days {
		if sameCivilDay(d.Day, now) {
			return i
		}
	}
	return -1
}

// =============================================================================
// Day Bucketing
// =============================================================================

// agendaDays buckets events into civil days over the browse range. A zero
// start opens the range on the first event's day; days <= 0 runs it through
// the last event's end.
func agendaDays(events []event.Event, loc *time.Location, start time.Time, days int) ([]agendaDay, error) {
	sorted := make([]event.Event, len(events))
	copy(sorted, events)
	event.SortChronological(sorted)

	first := start
	if first.IsZero() {
		s := sorted[0].Start.In(loc)
		first = time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, loc)
	}

	if days <= 0 {
		lastEnd := first
		for _, e := range sorted {
			if e.End.After(lastEnd) {
				lastEnd = e.End
			}
		}
		days = 1
		for next := nextCivilDay(first); next.Before(lastEnd); next = nextCivilDay(next) {
			days++
		}
	}

	out := make([]agendaDay, 0, days)
	day := first
	for d := 0; d < days; d++ {
		next := nextCivilDay(day)

		var dayEvents []event.Event
		for _, e := range sorted {
			if e.Start.Before(next) && e.End.After(day) {
				dayEvents = append(dayEvents, e)
			}
		}

		conflicts, err := conflictedIDs(dayEvents)
		if err != nil {
			return nil, err
		}

		out = append(out, agendaDay{Day: day, Events: dayEvents, Conflicts: conflicts})
		day = next
	}
	return out, nil
}

// conflictedIDs collects the members of every multi-lane cluster.
func conflictedIDs(events []event.Event) (map[string]bool, error) {
	clusters, err := lanes.Clusters(events)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool)
	for _, cl := range clusters {
		if cl.Lanes < 2 {
			continue
		}
		for _, id := range cl.Events {
			ids[id] = true
		}
	}
	return ids, nil
}

// =============================================================================
// Helpers
// =============================================================================

// nextCivilDay steps to the following civil midnight. Going through
// time.Date keeps the step correct across DST transitions.
func nextCivilDay(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, day.Location())
}

// sameCivilDay reports whether two instants fall on the same calendar date.
func sameCivilDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// agendaTimeCell renders an event's clock range clipped to the shown day.
// Spillover into neighboring days clamps to 00:00 and 24:00.
func agendaTimeCell(e event.Event, day, next time.Time, loc *time.Location) string {
	start, end := e.Start.In(loc), e.End.In(loc)

	left := start.Format("15:04")
	if start.Before(day) {
		left = "00:00"
	}
	right := end.Format("15:04")
	if !end.Before(next) {
		right = "24:00"
	}
	return left + "-" + right
}

// agendaDetail renders the metadata line for the day's cursor event.
func agendaDetail(day agendaDay, cursor int) string {
	if cursor < 0 || cursor >= len(day.Events) {
		return ""
	}
	e := day.Events[cursor]

	parts := []string{}
	if cal := e.Calendar(); cal != "" {
		parts = append(parts, "calendar "+cal)
	}
	if where := e.Location(); where != "" {
		parts = append(parts, where)
	}
	if status := e.Status(); status != "" {
		parts = append(parts, status)
	}

	overlaps := 0
	for _, other := range day.Events {
		if other.ID != e.ID && event.Overlaps(e, other) {
			overlaps++
		}
	}
	if overlaps > 0 {
		parts = append(parts, fmt.Sprintf("overlaps %d", overlaps))
	}

	return strings.Join(parts, " · ")
}
