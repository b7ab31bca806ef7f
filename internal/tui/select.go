// Package tui provides interactive terminal UI components.
package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kirjasto/ils/internal/model"
)

const (
	defaultListWidth  = 60
	defaultListHeight = 16
)

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m).Run()
}

// SelectionAction represents the user's action in the selection UI.
type SelectionAction int

const (
	// ActionNone indicates no action was taken.
	ActionNone SelectionAction = iota
	// ActionSelected indicates the user picked a location.
	ActionSelected
	// ActionCancelled indicates the user backed out.
	ActionCancelled
)

// SelectionResult holds the result of a pickup-location selection.
type SelectionResult struct {
	Action    SelectionAction
	Selection *model.PickupLocation
}

type locationItem struct {
	model.PickupLocation
	isDefault bool
}

func (i locationItem) Title() string       { return i.Display }
func (i locationItem) FilterValue() string { return i.Display }

type itemStyles struct {
	normal       lipgloss.Style
	selected     lipgloss.Style
	nameStyle    lipgloss.Style
	idStyle      lipgloss.Style
	defaultStyle lipgloss.Style
}

func newItemStyles() itemStyles {
	asciiBorder := lipgloss.Border{
		Top:         "-",
		Bottom:      "-",
		Left:        "|",
		Right:       "|",
		TopLeft:     "+",
		TopRight:    "+",
		BottomLeft:  "+",
		BottomRight: "+",
	}

	container := lipgloss.NewStyle().
		Border(asciiBorder).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1).
		Foreground(lipgloss.Color("252"))

	selected := container.Copy().
		BorderForeground(lipgloss.Color("214")).
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("237"))

	return itemStyles{
		normal:   container,
		selected: selected,
		nameStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("254")),
		idStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("247")).
			Faint(true),
		defaultStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("110")),
	}
}

type locationDelegate struct {
	styles itemStyles
}

func newDelegate() locationDelegate {
	return locationDelegate{styles: newItemStyles()}
}

func (d locationDelegate) Height() int                         { return 3 }
func (d locationDelegate) Spacing() int                        { return 0 }
func (d locationDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d locationDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	loc, ok := item.(locationItem)
	if !ok {
		return
	}

	nameLine := d.styles.nameStyle.Render(loc.Display)
	detail := loc.ID
	switch loc.ID {
	case model.PickupHome:
		detail = "delivery to your home address"
	case model.PickupWork:
		detail = "delivery to your work address"
	}
	if loc.isDefault {
		detail += "  " + d.styles.defaultStyle.Render("(default)")
	}
	idLine := d.styles.idStyle.Render(detail)

	content := lipgloss.JoinVertical(lipgloss.Left, nameLine, idLine)

	container := d.styles.normal
	if idx == m.Index() {
		container = d.styles.selected
	}
	_, _ = fmt.Fprint(w, container.Render(content))
}

type pickerModel struct {
	list   list.Model
	title  string
	result SelectionResult
}

func newModel(title string, items []locationItem) *pickerModel {
	listItems := make([]list.Item, len(items))
	for i, item := range items {
		listItems[i] = item
	}

	delegate := newDelegate()
	l := list.New(listItems, delegate, defaultListWidth, defaultListHeight)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.Styles.NoItems = lipgloss.NewStyle()

	return &pickerModel{
		list:   l,
		title:  title,
		result: SelectionResult{Action: ActionNone},
	}
}

func (m *pickerModel) Init() tea.Cmd { return nil }

func (m *pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if selected, ok := m.list.SelectedItem().(locationItem); ok {
				loc := selected.PickupLocation
				m.result = SelectionResult{
					Action:    ActionSelected,
					Selection: &loc,
				}
				return m, tea.Quit
			}
		case "ctrl+c", "q", "esc":
			m.result = SelectionResult{Action: ActionCancelled}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		width := clamp(defaultListWidth, msg.Width-4, 30)
		height := clamp(defaultListHeight, msg.Height-6, 5)
		m.list.SetSize(width, height)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *pickerModel) View() string {
	header := headerStyle.Render(fmt.Sprintf("Choose a pickup location for: %s", m.title))
	listView := m.list.View()
	help := helpStyle.Render("Up/Down navigate | Enter select | q cancel")
	return lipgloss.JoinVertical(lipgloss.Left, header, listView, help)
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("244"))
)

// SelectPickupLocation presents an interactive picker over the eligible
// pickup locations. defaultID marks the backend's default in the list;
// it may be empty.
func SelectPickupLocation(title string, locations []model.PickupLocation, defaultID string) (SelectionResult, error) {
	if len(locations) == 0 {
		return SelectionResult{Action: ActionCancelled}, nil
	}

	items := make([]locationItem, len(locations))
	for i, loc := range locations {
		items[i] = locationItem{
			PickupLocation: loc,
			isDefault:      defaultID != "" && loc.ID == defaultID,
		}
	}
	m := newModel(title, items)
	finalModel, err := runProgram(m)
	if err != nil {
		return SelectionResult{}, err
	}

	if typed, ok := finalModel.(*pickerModel); ok {
		return typed.result, nil
	}

	return SelectionResult{}, fmt.Errorf("unexpected program result")
}

func clamp(defaultValue, available, minimum int) int {
	width := defaultValue
	if available > 0 && available < defaultValue {
		width = available
	}
	if width < minimum {
		width = minimum
	}
	return width
}
