// Package tui is the interactive front end. Every change goes through the
// session, so it is on disk before the screen redraws.
package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/shoplist/internal/model"
	"github.com/idilsaglam/shoplist/internal/session"
	"github.com/idilsaglam/shoplist/internal/store/jsonstore"
)

// listItem adapts a snapshot line to bubbles/list.Item
type listItem struct {
	line model.Line
}

func (i listItem) Title() string       { return i.line.Name }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.line.Name }

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeEdit
	modeConfirmClear
	modeConfirmQuit
)

// form field order in add mode; edit mode only uses fieldAmount
const (
	fieldItem = iota
	fieldAmount
	fieldPrice
)

type modelTUI struct {
	sess *session.Session
	st   styles
	list list.Model
	mode mode

	inputs   []textinput.Model
	focus    int
	editName string

	status    string
	statusErr bool

	width, height int
}

// Custom delegate to control how items render (single line)
type itemDelegate struct{ st styles }

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	e := it.line.Entry
	line := fmt.Sprintf("%s  %s  %s  %s",
		it.line.Name,
		d.st.muted.Render(fmt.Sprintf("×%d", e.Quantity)),
		d.st.muted.Render("@ $"+e.UnitPrice.StringFixed(2)),
		d.st.money.Render("= $"+e.Cost().StringFixed(2)),
	)
	prefix := "  "
	if index == m.Index() {
		prefix = d.st.selected.Render("> ")
	}
	fmt.Fprint(w, prefix+line)
}

var (
	addBind   = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind  = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit amount"))
	delBind   = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove"))
	clearBind = key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear"))
)

func newModel(s *session.Session, theme string) modelTUI {
	st := newStyles(theme)
	l := list.New(nil, itemDelegate{st: st}, 80, 20)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = st.title
	l.Styles.HelpStyle = st.help
	l.Styles.PaginationStyle = st.help
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")
	// q and esc ask for confirmation first
	l.KeyMap.Quit.SetEnabled(false)
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{addBind, editBind, delBind} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{addBind, editBind, delBind, clearBind} }

	inputs := make([]textinput.Model, 3)
	for i, ph := range []string{"Item", "Amount", "Price ($)"} {
		ti := textinput.New()
		ti.Prompt = fmt.Sprintf("%-10s ", ph+":")
		ti.CharLimit = 200
		inputs[i] = ti
	}

	m := modelTUI{sess: s, st: st, list: l, inputs: inputs, width: 80, height: 24}
	m.refresh()
	return m
}

// Run starts the interactive list and returns when the user quits.
func Run(s *session.Session, theme string) error {
	p := tea.NewProgram(newModel(s, theme), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// refresh redraws the list and title from the session snapshot.
func (m *modelTUI) refresh() {
	snap := m.sess.Snapshot()
	items := make([]list.Item, 0, len(snap))
	for _, ln := range snap {
		items = append(items, listItem{line: ln})
	}
	m.list.SetItems(items)
	m.list.Title = fmt.Sprintf("%s   %s   %s",
		"Shopping List",
		m.st.accent.Render(fmt.Sprintf("%d items", len(snap))),
		m.st.money.Render("Total $"+m.sess.TotalCost().StringFixed(2)),
	)
}

func (m *modelTUI) ok(msg string) {
	m.status, m.statusErr = msg, false
}

// report shows err and reports whether the list changed anyway (a failed save).
func (m *modelTUI) report(err error) bool {
	m.status, m.statusErr = err.Error(), true
	if errors.Is(err, jsonstore.ErrIO) {
		m.status += " (change not saved)"
		return true
	}
	return false
}

func (m *modelTUI) openForm(md mode) tea.Cmd {
	m.mode = md
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.focus = fieldItem
	if md == modeEdit {
		m.focus = fieldAmount
	}
	return m.inputs[m.focus].Focus()
}

func (m *modelTUI) closeForm() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.mode = modeBrowse
	m.editName = ""
}

func (m modelTUI) selected() (model.Line, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	return it.line, ok
}

func (m modelTUI) Init() tea.Cmd { return nil }

func (m modelTUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.list.SetSize(ws.Width-4, m.listHeight())
		return m, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeAdd, modeEdit:
		return m.updateForm(msg)
	case modeConfirmClear, modeConfirmQuit:
		return m.updateConfirm(msg)
	}

	// keys go to the filter input while the user is typing a filter
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "q", "esc":
			if m.list.FilterState() == list.FilterApplied && k.String() == "esc" {
				break
			}
			m.mode = modeConfirmQuit
			return m, nil
		case "a":
			return m, m.openForm(modeAdd)
		case "e":
			ln, ok := m.selected()
			if !ok {
				return m, nil
			}
			cmd := m.openForm(modeEdit)
			m.editName = ln.Name
			m.inputs[fieldAmount].SetValue(fmt.Sprint(ln.Entry.Quantity))
			m.inputs[fieldAmount].CursorEnd()
			return m, cmd
		case "d":
			ln, ok := m.selected()
			if !ok {
				return m, nil
			}
			if err := m.sess.Remove(ln.Name); err != nil {
				if m.report(err) {
					m.refresh()
				}
				return m, nil
			}
			m.refresh()
			m.ok(ln.Name + " removed from your shopping list")
			return m, nil
		case "c":
			m.mode = modeConfirmClear
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m modelTUI) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			m.closeForm()
			return m, nil
		case "tab", "shift+tab", "down", "up":
			if m.mode != modeAdd {
				return m, nil
			}
			m.inputs[m.focus].Blur()
			step := 1
			if s := k.String(); s == "shift+tab" || s == "up" {
				step = len(m.inputs) - 1
			}
			m.focus = (m.focus + step) % len(m.inputs)
			return m, m.inputs[m.focus].Focus()
		case "enter":
			m.submit()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// submit applies the open form. The form stays open on invalid input so the
// user can correct it.
func (m *modelTUI) submit() {
	item := m.inputs[fieldItem].Value()
	amount := m.inputs[fieldAmount].Value()
	if m.mode == modeEdit {
		ln, err := m.sess.EditQuantity(m.editName, amount)
		if err != nil {
			if m.report(err) {
				m.refresh()
				m.closeForm()
			}
			return
		}
		m.refresh()
		m.closeForm()
		m.ok(fmt.Sprintf("the amount of %s is now %d", ln.Name, ln.Entry.Quantity))
		return
	}

	ln, err := m.sess.Add(item, amount, m.inputs[fieldPrice].Value())
	if err != nil {
		if m.report(err) {
			m.refresh()
			m.closeForm()
		}
		return
	}
	m.refresh()
	m.closeForm()
	m.ok(fmt.Sprintf("%s %s(s) at $%s each added", strings.TrimSpace(amount), ln.Name, ln.Entry.UnitPrice.StringFixed(2)))
}

func (m modelTUI) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	yes := k.String() == "y" || k.String() == "Y"
	md := m.mode
	m.mode = modeBrowse
	if !yes {
		return m, nil
	}
	if md == modeConfirmQuit {
		return m, tea.Quit
	}
	if err := m.sess.Clear(); err != nil {
		if m.report(err) {
			m.refresh()
		}
		return m, nil
	}
	m.refresh()
	m.ok("all items cleared from your shopping list")
	return m, nil
}

func (m modelTUI) listHeight() int {
	h := m.height - 5
	if m.mode == modeAdd || m.mode == modeEdit {
		h -= len(m.inputs) + 3
	}
	if h < 3 {
		h = 3
	}
	return h
}

func (m modelTUI) View() string {
	m.list.SetSize(m.width-4, m.listHeight())
	content := m.list.View()

	switch m.mode {
	case modeAdd, modeEdit:
		title := "Add item"
		fields := m.inputs
		if m.mode == modeEdit {
			title = "Edit amount of " + m.editName
			fields = m.inputs[fieldAmount : fieldAmount+1]
		}
		rows := []string{m.st.title.Render(title)}
		for _, ti := range fields {
			rows = append(rows, ti.View())
		}
		rows = append(rows, m.st.help.Render("enter save • tab next field • esc cancel"))
		content += "\n" + m.st.bar.Render(strings.Join(rows, "\n"))
	case modeConfirmClear:
		content += "\n" + m.st.bar.Render(m.st.err.Render("Clear the whole list?")+" (y/n)")
	case modeConfirmQuit:
		content += "\n" + m.st.bar.Render("Do you want to quit? (y/n)")
	}

	if m.status != "" {
		style := m.st.success
		mark := "✔ "
		if m.statusErr {
			style, mark = m.st.err, "✖ "
		}
		content += "\n" + style.Render(mark+m.status)
	}
	return m.st.frame.Render(content)
}
