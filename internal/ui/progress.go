package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"mojwgsl/internal/pipeline"
)

const (
	statusWidth = 13
	minRows     = 5
	// title, blank, blank, bar, overflow line
	chromeLines = 5
)

// how far through the pipeline a file is while working on a stage
var stageWeight = map[pipeline.Stage]float64{
	pipeline.StageCollect:    0.05,
	pipeline.StagePreprocess: 0.2,
	pipeline.StageTranslate:  0.5,
	pipeline.StageVerify:     0.8,
	pipeline.StageWrite:      0.9,
}

var stageVerb = map[pipeline.Stage]string{
	pipeline.StageCollect:    "queued",
	pipeline.StagePreprocess: "preprocessing",
	pipeline.StageTranslate:  "translating",
	pipeline.StageVerify:     "verifying",
	pipeline.StageWrite:      "writing",
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	workingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

type row struct {
	label  string
	stage  pipeline.Stage
	status pipeline.Status
}

func (r row) finished() bool {
	return r.status == pipeline.StatusDone || r.status == pipeline.StatusError
}

func (r row) statusText() string {
	if r.status == pipeline.StatusWorking {
		return stageVerb[r.stage]
	}
	return string(r.status)
}

type progressModel struct {
	title   string
	events  <-chan pipeline.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []row
	byFile  map[string]int
	width   int
	height  int // 0 until the terminal reports a size
	ok      int
	failed  int
	done    bool
}

type eventMsg pipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders batch progress.
// files are the keys events use (source paths); labels, when set, are what
// the list shows for them. The model quits when events is closed.
func NewProgressModel(title string, files, labels []string, events <-chan pipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = workingStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	rows := make([]row, len(files))
	byFile := make(map[string]int, len(files))
	for i, file := range files {
		label := file
		if i < len(labels) && labels[i] != "" {
			label = labels[i]
		}
		rows[i] = row{label: label, status: pipeline.StatusQueued}
		byFile[file] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		rows:    rows,
		byFile:  byFile,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(pipeline.Event(msg)), m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
		m.height = msg.Height
		return m, nil
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.header()))
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusWidth-4, 20)
	shown := m.visibleRows()
	for _, idx := range shown {
		r := m.rows[idx]
		status := styleFor(r).Render(fmt.Sprintf("%*s", statusWidth, r.statusText()))
		fmt.Fprintf(&b, "  %s %s\n", status, truncate(r.label, nameWidth))
	}
	if hidden := len(m.rows) - len(shown); hidden > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  … and %d more", hidden)))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	if m.done {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	return b.String()
}

func (m *progressModel) header() string {
	counts := fmt.Sprintf("%d/%d", m.ok+m.failed, len(m.rows))
	if m.failed > 0 {
		counts += fmt.Sprintf(" · %d failed", m.failed)
	}
	if m.done {
		return fmt.Sprintf("done: %s · %s", m.title, counts)
	}
	return fmt.Sprintf("%s %s · %s", m.spinner.View(), m.title, counts)
}

// visibleRows picks the rows that fit the terminal: unfinished shaders in
// batch order first, then finished ones. Indices are returned sorted.
func (m *progressModel) visibleRows() []int {
	limit := len(m.rows)
	if m.height > 0 {
		limit = min(limit, max(m.height-chromeLines, minRows))
	}
	picked := make([]bool, len(m.rows))
	n := 0
	for pass := 0; pass < 2 && n < limit; pass++ {
		for i, r := range m.rows {
			if n == limit {
				break
			}
			if picked[i] || (pass == 0 && r.finished()) {
				continue
			}
			picked[i] = true
			n++
		}
	}
	out := make([]int, 0, n)
	for i, ok := range picked {
		if ok {
			out = append(out, i)
		}
	}
	return out
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev pipeline.Event) tea.Cmd {
	idx, ok := m.byFile[ev.File]
	if !ok {
		return nil
	}
	r := &m.rows[idx]
	if r.finished() {
		return nil
	}
	r.stage, r.status = ev.Stage, ev.Status
	switch r.status {
	case pipeline.StatusDone:
		m.ok++
	case pipeline.StatusError:
		m.failed++
	}
	return m.bar.SetPercent(m.fraction())
}

func (m *progressModel) fraction() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	total := 0.0
	for _, r := range m.rows {
		if r.finished() {
			total++
		} else {
			total += stageWeight[r.stage]
		}
	}
	return total / float64(len(m.rows))
}

func styleFor(r row) lipgloss.Style {
	switch r.status {
	case pipeline.StatusDone:
		return doneStyle
	case pipeline.StatusError:
		return errorStyle
	case pipeline.StatusWorking:
		return workingStyle
	}
	return idleStyle
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
