package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/gtww/pkg/redblack"
	"github.com/matzehuels/gtww/pkg/solver"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Step snapshots
// =============================================================================

// stepState describes the trigraph after a number of contractions.
type stepState struct {
	Vertices  int
	Black     int
	Red       int
	MaxRed    int
	Survivor  redblack.Vertex
	RedNbrs   []redblack.Vertex
	HasMerged bool
}

// replaySteps returns one snapshot per prefix of seq, starting with the
// untouched graph. g is not modified.
func replaySteps(g *redblack.Graph, seq *solver.Sequence) []stepState {
	work := g.Clone()
	states := make([]stepState, 0, seq.Len()+1)
	black, red := work.EdgeCount()
	states = append(states, stepState{Vertices: work.Len(), Black: black, Red: red, MaxRed: work.MaxRedDegree()})

	for _, c := range seq.Contractions {
		work.Merge(c.Survivor, c.Merged)
		black, red := work.EdgeCount()
		states = append(states, stepState{
			Vertices:  work.Len(),
			Black:     black,
			Red:       red,
			MaxRed:    work.MaxRedDegree(),
			Survivor:  c.Survivor,
			RedNbrs:   work.RedNeighbors(c.Survivor),
			HasMerged: true,
		})
	}
	return states
}

// =============================================================================
// StepperModel - Interactive contraction stepper
// =============================================================================

// StepperModel is the bubbletea model that walks through a contraction
// sequence one merge at a time. Cursor is the number of applied
// contractions.
type StepperModel struct {
	Name   string
	Seq    *solver.Sequence
	States []stepState
	Cursor int
	Height int
	Offset int
}

// NewStepperModel creates a stepper over seq, which must have been computed
// for g.
func NewStepperModel(name string, g *redblack.Graph, seq *solver.Sequence) StepperModel {
	return StepperModel{
		Name:   name,
		Seq:    seq,
		States: replaySteps(g, seq),
		Height: 15,
	}
}

func (m StepperModel) Init() tea.Cmd {
	return nil
}

func (m StepperModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k", "left", "h":
			m.moveTo(m.Cursor - 1)
		case "down", "j", "right", "l", " ":
			m.moveTo(m.Cursor + 1)
		case "pgup":
			m.moveTo(m.Cursor - m.Height)
		case "pgdown":
			m.moveTo(m.Cursor + m.Height)
		case "home", "g":
			m.moveTo(0)
		case "end", "G":
			m.moveTo(m.Seq.Len())
		case "w":
			m.moveTo(m.widthStep())
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 14
		if m.Height < 5 {
			m.Height = 5
		}
		m.moveTo(m.Cursor)
	}
	return m, nil
}

// moveTo clamps step to [0, Len] and scrolls the table so that the row of the
// last applied contraction stays visible.
func (m *StepperModel) moveTo(step int) {
	m.Cursor = min(max(step, 0), m.Seq.Len())
	row := max(m.Cursor-1, 0)
	if row < m.Offset {
		m.Offset = row
	}
	if row >= m.Offset+m.Height {
		m.Offset = row - m.Height + 1
	}
}

// widthStep returns the first step whose red degree equals the width.
func (m StepperModel) widthStep() int {
	for i, c := range m.Seq.Contractions {
		if c.RedDegree == m.Seq.Width {
			return i + 1
		}
	}
	return 0
}

func (m StepperModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("%s  width %d", m.Name, m.Seq.Width)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ step  g/G first/last  w jump to width  q quit"))
	b.WriteString("\n\n")

	b.WriteString(m.stepTable())
	b.WriteString("\n\n")
	b.WriteString(m.statusView())
	b.WriteString("\n")
	return b.String()
}

// stepTable renders the visible window of contractions.
func (m StepperModel) stepTable() string {
	end := min(m.Offset+m.Height, m.Seq.Len())

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		c := m.Seq.Contractions[i]
		cursor := "  "
		if i+1 == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			fmt.Sprint(i + 1),
			fmt.Sprint(c.Survivor),
			fmt.Sprint(c.Merged),
			fmt.Sprint(c.RedDegree),
			fmt.Sprint(m.States[i+1].Vertices),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Step", "Survivor", "Merged", "Red", "Left").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			idx := m.Offset + row
			if row < 0 || idx >= m.Seq.Len() {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			applied := idx < m.Cursor
			switch {
			case idx+1 == m.Cursor:
				base = base.Foreground(colorCyan).Bold(true)
			case !applied:
				base = base.Foreground(colorDim)
			}
			if col == 4 && m.Seq.Contractions[idx].RedDegree == m.Seq.Width && m.Seq.Width > 0 {
				return base.Foreground(colorRed)
			}
			return base
		})
	return t.Render()
}

// statusView describes the trigraph at the cursor.
func (m StepperModel) statusView() string {
	s := m.States[m.Cursor]

	var b strings.Builder
	fmt.Fprintf(&b, "  %s  %s vertices  %s black  %s red  max red degree %s\n",
		listSelectedStyle.Render(fmt.Sprintf("[%d/%d]", m.Cursor, m.Seq.Len())),
		StyleNumber.Render(fmt.Sprint(s.Vertices)),
		StyleNumber.Render(fmt.Sprint(s.Black)),
		StyleRed.Render(fmt.Sprint(s.Red)),
		StyleRed.Render(fmt.Sprint(s.MaxRed)))

	if !s.HasMerged {
		b.WriteString(listDimStyle.Render("  initial graph, no contractions applied"))
		return b.String()
	}
	nbrs := "none"
	if len(s.RedNbrs) > 0 {
		parts := make([]string, len(s.RedNbrs))
		for i, v := range s.RedNbrs {
			parts[i] = fmt.Sprint(v)
		}
		nbrs = strings.Join(parts, " ")
	}
	fmt.Fprintf(&b, "  %s %s",
		listDimStyle.Render(fmt.Sprintf("red neighbors of %d:", s.Survivor)),
		StyleRed.Render(nbrs))
	return b.String()
}
