package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sandeepkv93/product-inventory-admin/internal/domain"
	"github.com/sandeepkv93/product-inventory-admin/internal/inventory"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).MarginBottom(1)
	sectionStyle = lipgloss.NewStyle().Bold(true)
	labelStyle   = lipgloss.NewStyle().Width(14).Foreground(lipgloss.Color("245"))
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	rowStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	cursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))

	nameCol     = lipgloss.NewStyle().Width(28)
	categoryCol = lipgloss.NewStyle().Width(16)
	priceCol    = lipgloss.NewStyle().Width(16).Align(lipgloss.Right)
	qtyCol      = lipgloss.NewStyle().Width(10).Align(lipgloss.Right)
)

var fieldLabels = map[string]string{
	inventory.FieldProductName: "Product Name",
	inventory.FieldCategory:    "Category",
	inventory.FieldDescription: "Description",
	inventory.FieldPrice:       "Price (₱)",
	inventory.FieldQuantity:    "Quantity",
}

func (m Model) View() string {
	var b strings.Builder
	s := m.state
	b.WriteString(headerStyle.Render("Product Inventory"))
	b.WriteString("\n")

	title := "Add New Product"
	if s.Editing() {
		title = "Edit Product"
	}
	b.WriteString(sectionStyle.Render(title) + "\n")
	for i, name := range inventory.DraftFields {
		focused := m.area == focusForm && m.field == i
		b.WriteString(labelStyle.Render(fieldLabels[name]) + " " + inputView(s.Draft.Get(name), focused) + "\n")
	}
	action := "enter: add"
	if s.Editing() {
		action = "enter: update  esc: cancel"
	}
	if s.Busy() {
		action = "please wait"
	}
	b.WriteString(mutedStyle.Render(action) + "\n\n")

	category := "All Categories"
	if s.Category != "" {
		category = s.Category
	}
	b.WriteString(labelStyle.Render("Search") + " " + inputView(s.Search, m.area == focusSearch) + "\n")
	b.WriteString(labelStyle.Render("Category") + " " + selectView(category, m.area == focusCategory) + "\n\n")

	b.WriteString(sectionStyle.Render(fmt.Sprintf("Products (%d)", len(s.Visible))) + "\n")
	switch {
	case s.Phase == inventory.Loading:
		b.WriteString(mutedStyle.Render("Loading...") + "\n")
	case len(s.Products) == 0:
		b.WriteString(mutedStyle.Render("No products available. Add your first product above.") + "\n")
	case len(s.Visible) == 0:
		b.WriteString(mutedStyle.Render("No products found") + "\n")
	default:
		b.WriteString(m.tableView())
	}

	b.WriteString("\n")
	if s.Pending != nil {
		b.WriteString(promptStyle.Render(s.Pending.Prompt()+" (y/n)") + "\n")
	}
	if s.Notice != "" {
		b.WriteString(noticeStyle.Render(s.Notice) + "\n")
	}
	if s.Err != nil {
		b.WriteString(errorStyle.Render(errorLine(s.Err)) + "\n")
	}
	b.WriteString(mutedStyle.Render("tab/shift+tab: focus  e/d: edit/delete row  ctrl+c: quit") + "\n")
	return b.String()
}

func (m Model) tableView() string {
	var b strings.Builder
	b.WriteString("  " + mutedStyle.Render(row("Product Name", "Category", "Price", "Quantity")) + "\n")
	for i, p := range m.state.Visible {
		line := productRow(p)
		if m.area == focusTable && i == m.cursor {
			b.WriteString(cursorStyle.Render("> "+line) + "\n")
			continue
		}
		b.WriteString("  " + rowStyle.Render(line) + "\n")
	}
	return b.String()
}

func productRow(p domain.Product) string {
	category := "-"
	if p.Category != nil && *p.Category != "" {
		category = *p.Category
	}
	return row(p.ProductName, category, inventory.FormatPrice(p.Price), strconv.Itoa(p.Quantity))
}

func row(name, category, price, qty string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		nameCol.Render(truncate(name, 27)),
		categoryCol.Render(truncate(category, 15)),
		priceCol.Render(price),
		qtyCol.Render(qty),
	)
}

func inputView(value string, focused bool) string {
	if focused {
		return focusStyle.Render("[" + value + "▌]")
	}
	return "[" + value + "]"
}

func selectView(value string, focused bool) string {
	if focused {
		return focusStyle.Render("< " + value + " >")
	}
	return "< " + value + " >"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func errorLine(err error) string {
	msg := err.Error()
	var apiErr *inventory.APIError
	if errors.As(err, &apiErr) && len(apiErr.Errors) > 0 {
		for _, f := range inventory.DraftFields {
			if errs := apiErr.Errors[f]; len(errs) > 0 {
				return msg + ": " + errs[0]
			}
		}
	}
	return msg
}
