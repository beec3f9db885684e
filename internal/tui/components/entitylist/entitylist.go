package entitylist

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// Msgs carry the ID of the selected item and the list they came from.

type AddMsg struct {
	List string
}

type DeleteMsg struct {
	List string
	ID   string
}

type SelectMsg struct {
	List string
	ID   string
}

type ToggleMsg struct {
	List string
	ID   string
}

type HabitMsg struct {
	List string
	ID   string
}

type Item struct {
	ID     string
	Name   string
	Detail string
	Done   bool
}

func (i Item) Title() string {
	if i.Done {
		return "✓ " + i.Name
	}
	return i.Name
}
func (i Item) Description() string { return i.Detail }
func (i Item) FilterValue() string { return i.Name }

// KeyMap holds the actions a list supports. Zero bindings are inactive.
type KeyMap struct {
	Add    key.Binding
	Delete key.Binding
	Select key.Binding
	Toggle key.Binding
	Habit  key.Binding
}

func (k KeyMap) bindings() []key.Binding {
	var out []key.Binding
	for _, b := range []key.Binding{k.Add, k.Delete, k.Select, k.Toggle, k.Habit} {
		if b.Enabled() {
			out = append(out, b)
		}
	}
	return out
}

type Model struct {
	name  string
	empty string
	list  list.Model
	keys  KeyMap
}

// New returns an empty list. name is echoed in every message; empty is shown
// when there are no items.
func New(name, empty string, keys KeyMap, width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = name
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	l.AdditionalShortHelpKeys = keys.bindings
	l.AdditionalFullHelpKeys = keys.bindings

	return Model{name: name, empty: empty, list: l, keys: keys}
}

func (m *Model) SetItems(items []Item) {
	listItems := make([]list.Item, len(items))
	for i, it := range items {
		listItems[i] = it
	}
	m.list.SetItems(listItems)
}

func (m Model) Items() []Item {
	var out []Item
	for _, it := range m.list.Items() {
		if i, ok := it.(Item); ok {
			out = append(out, i)
		}
	}
	return out
}

// Selected returns the highlighted item.
func (m Model) Selected() (Item, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i, ok
}

// Filtering reports whether the user is typing a filter, in which case
// global keys must not be intercepted.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		if key.Matches(msg, m.keys.Add) {
			return m, func() tea.Msg { return AddMsg{List: m.name} }
		}
		i, ok := m.Selected()
		if !ok {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Delete):
			return m, func() tea.Msg { return DeleteMsg{List: m.name, ID: i.ID} }
		case key.Matches(msg, m.keys.Select):
			return m, func() tea.Msg { return SelectMsg{List: m.name, ID: i.ID} }
		case key.Matches(msg, m.keys.Toggle):
			return m, func() tea.Msg { return ToggleMsg{List: m.name, ID: i.ID} }
		case key.Matches(msg, m.keys.Habit):
			return m, func() tea.Msg { return HabitMsg{List: m.name, ID: i.ID} }
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  " + m.empty
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
