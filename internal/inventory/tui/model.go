// Package tui renders the inventory screen with bubbletea. All state changes
// go through inventory.Reduce; this package only maps keys to events and
// commands to API calls.
package tui

import (
	"context"
	"log/slog"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/product-inventory-admin/internal/domain"
	"github.com/sandeepkv93/product-inventory-admin/internal/inventory"
)

// API is the part of inventory.Client the screen needs.
type API interface {
	List(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, d inventory.Draft) (domain.Product, string, error)
	Update(ctx context.Context, id uint, d inventory.Draft) (domain.Product, string, error)
	Delete(ctx context.Context, id uint) (string, error)
}

type focusArea int

const (
	focusForm focusArea = iota
	focusSearch
	focusCategory
	focusTable
)

type Model struct {
	ctx    context.Context
	api    API
	logger *slog.Logger

	state   inventory.State
	initial inventory.Command

	area   focusArea
	field  int
	cursor int
}

func New(ctx context.Context, api API, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	state, cmd := inventory.Reduce(inventory.State{}, inventory.Mounted{})
	return Model{ctx: ctx, api: api, logger: logger, state: state, initial: cmd}
}

func (m Model) State() inventory.State { return m.state }

func (m Model) Init() tea.Cmd {
	return m.perform(m.initial)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case inventory.Event:
		return m.dispatch(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) dispatch(ev inventory.Event) (Model, tea.Cmd) {
	var cmd inventory.Command
	m.state, cmd = inventory.Reduce(m.state, ev)
	if m.cursor >= len(m.state.Visible) {
		m.cursor = max(len(m.state.Visible)-1, 0)
	}
	return m, m.perform(cmd)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	if m.state.Pending != nil {
		switch key {
		case "y", "Y", "enter":
			return m.dispatch(inventory.ConfirmationAnswered{Accepted: true})
		case "n", "N", "esc":
			return m.dispatch(inventory.ConfirmationAnswered{Accepted: false})
		}
		return m, nil
	}

	switch key {
	case "tab":
		m.moveFocus(1)
		return m, nil
	case "shift+tab":
		m.moveFocus(-1)
		return m, nil
	case "esc":
		if m.state.Editing() {
			return m.dispatch(inventory.EditCancelled{})
		}
		return m, nil
	case "enter":
		if m.area == focusForm {
			return m.dispatch(inventory.SubmitRequested{})
		}
		return m, nil
	}

	switch m.area {
	case focusForm:
		name := inventory.DraftFields[m.field]
		if v, ok := editText(m.state.Draft.Get(name), msg); ok {
			return m.dispatch(inventory.FieldChanged{Field: name, Value: v})
		}
	case focusSearch:
		if v, ok := editText(m.state.Search, msg); ok {
			return m.dispatch(inventory.SearchChanged{Text: v})
		}
	case focusCategory:
		switch key {
		case "left", "h":
			return m.dispatch(inventory.CategoryFilterChanged{Category: m.cycleCategory(-1)})
		case "right", "l", " ":
			return m.dispatch(inventory.CategoryFilterChanged{Category: m.cycleCategory(1)})
		}
	case focusTable:
		return m.handleTableKey(key)
	}
	return m, nil
}

func (m Model) handleTableKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.state.Visible)-1 {
			m.cursor++
		}
	case "e":
		if p, ok := m.selected(); ok {
			m.area, m.field = focusForm, 0
			return m.dispatch(inventory.EditRequested{Product: p})
		}
	case "d":
		if p, ok := m.selected(); ok {
			return m.dispatch(inventory.DeleteRequested{ID: p.ID})
		}
	}
	return m, nil
}

func (m Model) selected() (domain.Product, bool) {
	if m.cursor < 0 || m.cursor >= len(m.state.Visible) {
		return domain.Product{}, false
	}
	return m.state.Visible[m.cursor], true
}

// moveFocus walks form fields one by one, then search, category and table.
func (m *Model) moveFocus(step int) {
	slots := len(inventory.DraftFields) + 3
	pos := m.field
	if m.area != focusForm {
		pos = len(inventory.DraftFields) + int(m.area) - 1
	}
	pos = (pos + step + slots) % slots
	if pos < len(inventory.DraftFields) {
		m.area, m.field = focusForm, pos
		return
	}
	m.area = focusArea(pos - len(inventory.DraftFields) + 1)
}

func (m Model) cycleCategory(step int) string {
	options := append([]string{""}, m.state.Categories...)
	idx := 0
	for i, c := range options {
		if c == m.state.Category {
			idx = i
			break
		}
	}
	return options[(idx+step+len(options))%len(options)]
}

func editText(current string, msg tea.KeyMsg) (string, bool) {
	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace:
		return current + string(msg.Runes), true
	case tea.KeyBackspace:
		if current == "" {
			return current, false
		}
		_, size := utf8.DecodeLastRuneInString(current)
		return current[:len(current)-size], true
	}
	return current, false
}

func (m Model) perform(cmd inventory.Command) tea.Cmd {
	ctx, api, logger := m.ctx, m.api, m.logger
	switch c := cmd.(type) {
	case inventory.FetchCommand:
		return func() tea.Msg {
			products, err := api.List(ctx)
			if err != nil {
				logger.Error("fetch products failed", "error", err, "visible", c.Visible)
			}
			return inventory.FetchCompleted{Products: products, Err: err}
		}
	case inventory.CreateCommand:
		return func() tea.Msg {
			_, msg, err := api.Create(ctx, c.Draft)
			if err != nil {
				logger.Error("save product failed", "action", "create", "error", err)
			}
			return inventory.MutationCompleted{Kind: inventory.MutationCreate, Message: msg, Err: err}
		}
	case inventory.UpdateCommand:
		return func() tea.Msg {
			_, msg, err := api.Update(ctx, c.ID, c.Draft)
			if err != nil {
				logger.Error("save product failed", "action", "update", "product_id", c.ID, "error", err)
			}
			return inventory.MutationCompleted{Kind: inventory.MutationUpdate, Message: msg, Err: err}
		}
	case inventory.DeleteCommand:
		return func() tea.Msg {
			msg, err := api.Delete(ctx, c.ID)
			if err != nil {
				logger.Error("delete product failed", "product_id", c.ID, "error", err)
			}
			return inventory.MutationCompleted{Kind: inventory.MutationDelete, Message: msg, Err: err}
		}
	}
	return nil
}
