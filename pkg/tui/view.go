package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aretw0/keep/pkg/board"
	"github.com/aretw0/keep/pkg/core"
)

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	switch m.mode {
	case modeLogin:
		b.WriteString(m.viewLogin())
	case modeEditor:
		b.WriteString(m.viewNavbar())
		b.WriteString("\n\n")
		b.WriteString(m.viewEditor())
	default:
		b.WriteString(m.viewNavbar())
		b.WriteString("\n")
		if m.mode == modeColor {
			b.WriteString("\n" + renderPalette(m.colorIdx) + "\n")
		}
		b.WriteString(m.viewPage())
	}

	b.WriteString("\n")
	if m.toast != nil {
		b.WriteString(renderToast(*m.toast))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render(m.help()))
	return b.String()
}

func (m *Model) viewLogin() string {
	lines := []string{
		brandStyle.Render("K  Keep"),
		"",
		"Sign in to your account",
		"",
		m.email.View(),
		m.password.View(),
	}
	if m.busy {
		lines = append(lines, "", mutedStyle.Render("Signing in..."))
	}
	if m.loginErr != "" {
		lines = append(lines, "", errorStyle.Render(m.loginErr))
	}
	return dialogStyle.Render(strings.Join(lines, "\n")) + "\n"
}

func (m *Model) viewNavbar() string {
	notes, archive := "Notes", "Archive"
	if m.route == core.ViewArchived {
		archive = activeTab.Render(archive)
	} else {
		notes = activeTab.Render(notes)
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		brandStyle.Render("K Keep"), "   ",
		m.search.View(), "   ",
		notes, " | ", archive, "   ",
		mutedStyle.Render("[S] Sign Out"),
	)
}

func (m *Model) viewPage() string {
	c := m.current()
	if c == nil {
		return ""
	}
	page := c.Render()
	if page.Loading {
		return "\n" + mutedStyle.Render("Loading...") + "\n"
	}

	var b strings.Builder
	if page.Title != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Bold(true).Render(page.Title) + "\n")
	}
	if page.Empty != nil {
		b.WriteString("\n" + renderEmpty(*page.Empty) + "\n")
		return b.String()
	}

	cols := m.columns()
	index := 0
	for _, section := range page.Sections {
		if section.Heading != "" {
			b.WriteString(headingStyle.Render(strings.ToUpper(section.Heading)) + "\n")
		}
		var row []string
		for _, n := range section.Notes {
			row = append(row, renderCard(n, index == m.cursor))
			index++
			if len(row) == cols {
				b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...) + "\n")
				row = nil
			}
		}
		if len(row) > 0 {
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...) + "\n")
		}
	}
	return b.String()
}

func (m *Model) viewEditor() string {
	heading := "New note"
	if n, ok := m.editor.Note(); ok {
		heading = "Edit note"
		if n.Pinned {
			heading += "  📌"
		}
	}
	d := m.editor.Draft()

	var chips []string
	for _, l := range d.Labels {
		chips = append(chips, labelStyle.Render("#"+l))
	}

	marker := func(f editorField, s string) string {
		if m.field == f {
			return "> " + s
		}
		return "  " + s
	}

	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(heading),
		"",
		marker(fieldTitle, m.title.View()),
		"",
		m.body.View(),
		"",
		"  " + strings.Join(chips, " "),
		marker(fieldLabels, m.label.View()),
		"",
		marker(fieldColor, renderPalette(m.colorIdx)),
	}
	return dialogStyle.BorderForeground(Swatch(d.Color)).Render(strings.Join(lines, "\n"))
}

func renderCard(n core.Note, selected bool) string {
	title := n.Title
	if strings.TrimSpace(title) == "" {
		title = "Untitled"
	}
	head := lipgloss.NewStyle().Bold(true).Render(truncate(title, cardWidth-6))
	if n.Pinned {
		head += " 📌"
	}

	lines := []string{head}
	if n.Body != "" {
		lines = append(lines, mutedStyle.Render(clampLines(n.Body, 6)))
	}
	if len(n.Labels) > 0 {
		var chips []string
		for _, l := range n.Labels {
			chips = append(chips, labelStyle.Render(l))
		}
		lines = append(lines, strings.Join(chips, " "))
	}

	style := cardStyle.BorderForeground(Swatch(n.Color))
	if selected {
		style = style.BorderStyle(lipgloss.ThickBorder())
	}
	return style.Render(strings.Join(lines, "\n"))
}

func renderEmpty(e board.EmptyState) string {
	lines := []string{e.Icon, lipgloss.NewStyle().Bold(true).Render(e.Title), mutedStyle.Render(e.Hint)}
	if e.ShowCreate {
		lines = append(lines, "", "Press n to create a note")
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func renderPalette(selected int) string {
	var parts []string
	for i, c := range core.Palette {
		dot := lipgloss.NewStyle().Foreground(swatches[c]).Render("●")
		if i == selected {
			dot = "[" + dot + "]"
		} else {
			dot = " " + dot + " "
		}
		parts = append(parts, dot)
	}
	return strings.Join(parts, "") + "  " + string(core.Palette[selected])
}

func renderToast(t board.Toast) string {
	if t.IsError() {
		return errorStyle.Render(t.Title + ": " + t.Description)
	}
	return successStyle.Render(t.Title + ": " + t.Description)
}

func (m *Model) help() string {
	switch m.mode {
	case modeLogin:
		return "tab: switch field • enter: sign in • ctrl+c: quit"
	case modeSearch:
		return "type to search • enter/esc: done"
	case modeColor:
		return "←/→: choose • enter: apply • esc: cancel"
	case modeEditor:
		return "tab: next field • enter (labels): add • ctrl+p: pin • ctrl+a: archive • ctrl+d: delete • esc: save & close"
	}
	if m.route == core.ViewArchived {
		return "arrows: move • enter: open • a: unarchive • d: delete forever • c: color • /: search • tab: notes • q: quit"
	}
	return "arrows: move • n: new • enter: open • p: pin • a: archive • d: delete • c: color • /: search • tab: archive • q: quit"
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func clampLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n") + "\n…"
}
