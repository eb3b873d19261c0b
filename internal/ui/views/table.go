package views

import (
	"fmt"
	"strings"

	"tablestate/internal/columns"
	"tablestate/internal/filters"
	"tablestate/internal/grid"
	"tablestate/internal/modal"
)

// Checkbox renders a selection cell.
func Checkbox(checked bool) string {
	if checked {
		return "[x]"
	}
	return "[ ]"
}

// HeaderCheckbox renders the select-all cell: checked, partial or empty.
func HeaderCheckbox(selected, total int) string {
	switch {
	case total > 0 && selected == total:
		return "[x]"
	case selected > 0:
		return "[-]"
	default:
		return "[ ]"
	}
}

// RenderFilterBar shows each filter with its selected labels or placeholder.
func RenderFilterBar(s *Styles, configs []filters.Config, values filters.Values, search string) string {
	parts := make([]string, 0, len(configs)+1)
	if search != "" {
		parts = append(parts, s.Search.Render(fmt.Sprintf("Search: %q", search)))
	}
	for _, cfg := range configs {
		selected := values[cfg.Key]
		if len(selected) == 0 {
			parts = append(parts, s.Filter.Render(cfg.Label+": "+cfg.PlaceholderText()))
			continue
		}
		labels := make([]string, len(selected))
		for i, v := range selected {
			labels[i] = cfg.ChoiceLabel(v)
		}
		parts = append(parts, s.FilterActive.Render(cfg.Label+": "+strings.Join(labels, ", ")))
	}
	return strings.Join(parts, "   ")
}

// RenderFooter renders the selection count, page size and page list.
func RenderFooter(s *Styles, selected, total int, p grid.Pagination, pageCount int) string {
	var b strings.Builder
	b.WriteString(s.Footer.Render(fmt.Sprintf("%d of %d row(s) selected.", selected, total)))
	b.WriteString("   ")
	b.WriteString(s.Dim.Render(fmt.Sprintf("Rows per page: %d", p.PageSize)))
	b.WriteString("   ")

	if pageCount == 0 {
		b.WriteString(s.Dim.Render("No pages"))
		return b.String()
	}
	current := p.PageIndex + 1
	b.WriteString(s.Footer.Render(fmt.Sprintf("Page %d of %d", current, pageCount)))
	b.WriteString(" ")
	for _, item := range grid.PageNumbers(current, pageCount) {
		switch {
		case item.Ellipsis:
			b.WriteString(s.Dim.Render(" …"))
		case item.Number == current:
			b.WriteString(" " + s.PageCurrent.Render(fmt.Sprintf("[%d]", item.Number)))
		default:
			b.WriteString(" " + s.Footer.Render(fmt.Sprintf("%d", item.Number)))
		}
	}
	return b.String()
}

// RenderColumnPanel lists columns in order with their visibility.
func RenderColumnPanel(s *Styles, states []columns.State, titles map[string]string, cursor int) string {
	var b strings.Builder
	b.WriteString(s.Title.Render("Columns"))
	b.WriteString("\n")
	for i, st := range states {
		title := titles[st.ID]
		if title == "" {
			title = st.ID
		}
		line := fmt.Sprintf("%s %s", Checkbox(st.Visible), title)
		if i == cursor {
			line = s.PanelCursor.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(s.Help.Render("space toggle • J/K move • R reset • esc close"))
	return s.Panel.Render(b.String())
}

// RenderConfirm renders a confirmation prompt.
func RenderConfirm(s *Styles, cfg modal.ConfirmConfig) string {
	var b strings.Builder
	b.WriteString(s.Confirm.Render(cfg.Title))
	if cfg.Description != "" {
		b.WriteString("\n\n")
		b.WriteString(cfg.Description)
	}
	b.WriteString("\n\n")

	confirm := cfg.ConfirmLabel
	if confirm == "" {
		confirm = "Confirm"
	}
	cancel := cfg.CancelLabel
	if cancel == "" {
		cancel = "Cancel"
	}
	if cfg.Loading {
		b.WriteString(s.StatusLoading.Render("Working..."))
		return b.String()
	}
	confirmStyle := s.Confirm
	if cfg.Variant == modal.VariantDestructive {
		confirmStyle = s.Destructive
	}
	b.WriteString(confirmStyle.Render("(y) " + confirm))
	b.WriteString("   ")
	b.WriteString(s.Dim.Render("(n) " + cancel))
	return b.String()
}
