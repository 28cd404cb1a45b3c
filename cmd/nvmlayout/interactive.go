package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/fordtom/nvmbuilder/internal/analyzer"
	"github.com/fordtom/nvmbuilder/internal/codegen"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	recordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type viewMode int

const (
	viewFields viewMode = iota
	viewC
	viewGo
	viewJSON
)

var viewNames = []string{"fields", "c", "go", "json"}

type interactiveModel struct {
	plans     []analyzer.Plan
	renderers map[viewMode]codegen.Renderer
	viewport  viewport.Model
	selected  int
	mode      viewMode
	ready     bool
}

func newInteractiveModel(plans []analyzer.Plan, cfg config) *interactiveModel {
	return &interactiveModel{
		plans: plans,
		renderers: map[viewMode]codegen.Renderer{
			viewFields: codegen.RenderFunc(fieldsTable),
			viewC:      codegen.C{ExplicitPadding: cfg.pad, StaticAssert: cfg.assert},
			viewGo:     codegen.Go{Package: cfg.pkg},
			viewJSON:   codegen.JSON{},
		},
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.selected > 0 {
				m.selected--
				m.refresh()
			}
			return m, nil

		case "down", "j":
			if m.selected < len(m.plans)-1 {
				m.selected++
				m.refresh()
			}
			return m, nil

		case "tab":
			m.mode = (m.mode + 1) % viewMode(len(viewNames))
			m.refresh()
			return m, nil

		case "shift+tab":
			m.mode = (m.mode + viewMode(len(viewNames)) - 1) % viewMode(len(viewNames))
			m.refresh()
			return m, nil
		}

	case tea.WindowSizeMsg:
		listWidth := m.listWidth()
		height := max(msg.Height-4, 1)
		width := max(msg.Width-listWidth-2, 10)
		if !m.ready {
			m.viewport = viewport.New(width, height)
			m.ready = true
		} else {
			m.viewport.Width = width
			m.viewport.Height = height
		}
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// refresh re-renders the selected plan into the viewport.
func (m *interactiveModel) refresh() {
	if !m.ready || len(m.plans) == 0 {
		return
	}
	content, err := m.renderers[m.mode].Render(m.plans[m.selected])
	if err != nil {
		content = errorStyle.Render(fmt.Sprintf("Error: %v", err))
	}
	m.viewport.SetContent(content)
	m.viewport.GotoTop()
}

func (m *interactiveModel) listWidth() int {
	w := len("Records")
	for _, p := range m.plans {
		w = max(w, len(p.Name)+2)
	}
	return w + 2
}

func (m *interactiveModel) View() string {
	if len(m.plans) == 0 {
		return errorStyle.Render("No records compiled.\n\nPress q to quit.")
	}
	if !m.ready {
		return "Loading..."
	}

	var list strings.Builder
	list.WriteString("Records\n\n")
	for i, p := range m.plans {
		if i == m.selected {
			list.WriteString(selectedStyle.Render("> "+p.Name) + "\n")
		} else {
			list.WriteString("  " + recordStyle.Render(p.Name) + "\n")
		}
	}

	var tabs []string
	for i, name := range viewNames {
		if viewMode(i) == m.mode {
			tabs = append(tabs, selectedStyle.Padding(0, 1).Render(name))
		} else {
			tabs = append(tabs, tabStyle.Render(name))
		}
	}

	p := m.plans[m.selected]
	st := p.Stats()
	title := titleStyle.Render(fmt.Sprintf("%s  %d bytes, align %d, %.1f%% used", p.Name, p.Size, p.Align, st.Efficiency))

	left := lipgloss.NewStyle().Width(m.listWidth()).Render(list.String())
	right := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		m.viewport.View(),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		helpStyle.Render("↑/↓ select • tab view • pgup/pgdn scroll • q quit"),
	)
}

// fieldsTable renders the placed fields of p, padding included.
func fieldsTable(p analyzer.Plan) (string, error) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Offset", "Size", "Pad", "Type", "Field")

	for _, f := range p.Fields {
		typ := f.Leaf.Type.String()
		for _, d := range f.Leaf.Dims {
			typ += "[" + strconv.Itoa(d) + "]"
		}
		t.Row(
			strconv.Itoa(f.Offset),
			strconv.Itoa(f.Size()),
			strconv.Itoa(f.PaddingBefore),
			typ,
			f.Leaf.QualifiedName(),
		)
	}
	if tail := p.TrailingPadding(); tail > 0 {
		t.Row(strconv.Itoa(p.ContentEnd()), "-", strconv.Itoa(tail), "", "(trailing padding)")
	}
	return t.Render(), nil
}

func runInteractive(plans []analyzer.Plan, cfg config) error {
	p := tea.NewProgram(newInteractiveModel(plans, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
