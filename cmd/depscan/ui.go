package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type scanUpdate struct {
	modules int
	err     error
	changed []string
}

type uiModel struct {
	list       list.Model
	lastUpdate time.Time
	modules    int
	lastErr    error
}

func (m uiModel) Init() tea.Cmd {
	return nil
}

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case scanUpdate:
		m.modules = msg.modules
		m.lastErr = msg.err
		m.lastUpdate = time.Now()

		items := []list.Item{}
		for _, path := range msg.changed {
			items = append(items, item{title: "Changed", desc: path})
		}
		if msg.err != nil {
			items = append(items, item{title: "Scan Failed", desc: msg.err.Error()})
		}
		m.list.SetItems(items)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m uiModel) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last scan: %v | %d cached modules",
		m.lastUpdate.Format("15:04:05"), m.modules))

	var summary string
	if m.lastErr == nil {
		summary = successStyle.Render("Graph resolved")
	} else {
		summary = failStyle.Render("Scan failed")
	}

	header := titleStyle("depscan") + "\n" + summary + "\n" + status + "\n"
	return docStyle.Render(header + m.list.View())
}

type uiProgram struct {
	program *tea.Program
}

func newUIProgram() *uiProgram {
	delegate := list.NewDefaultDelegate()
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.SetShowTitle(false)

	m := uiModel{list: l}
	return &uiProgram{program: tea.NewProgram(m, tea.WithAltScreen())}
}

func (p *uiProgram) send(update scanUpdate) {
	p.program.Send(update)
}

func (p *uiProgram) run() error {
	_, err := p.program.Run()
	return err
}
