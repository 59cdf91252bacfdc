package board

import "github.com/aretw0/keep/pkg/core"

// Section is a headed group of cards. An empty heading renders no header.
type Section struct {
	Heading string
	Notes   []core.Note
}

// EmptyState is shown when nothing matches.
type EmptyState struct {
	Icon       string
	Title      string
	Hint       string
	ShowCreate bool
}

// Page is everything a view needs to draw one screen.
type Page struct {
	View     core.View
	Title    string
	Loading  bool
	Query    string
	Sections []Section
	Empty    *EmptyState
}

// Count returns the number of cards on the page.
func (p Page) Count() int {
	n := 0
	for _, s := range p.Sections {
		n += len(s.Notes)
	}
	return n
}

// Cards returns the cards in display order.
func (p Page) Cards() []core.Note {
	out := make([]core.Note, 0, p.Count())
	for _, s := range p.Sections {
		out = append(out, s.Notes...)
	}
	return out
}

func renderActive(notes []core.Note, query string) Page {
	page := Page{View: core.ViewActive, Query: query}
	visible := core.Filter(notes, query)
	pinned, unpinned := core.Partition(visible)

	if len(pinned) > 0 {
		page.Sections = append(page.Sections, Section{Heading: "Pinned", Notes: pinned})
	}
	if len(unpinned) > 0 {
		heading := ""
		if len(pinned) > 0 {
			heading = "Others"
		}
		page.Sections = append(page.Sections, Section{Heading: heading, Notes: unpinned})
	}

	if len(visible) == 0 {
		if query != "" {
			page.Empty = &EmptyState{Icon: "📝", Title: "No notes found", Hint: "Try adjusting your search terms"}
		} else {
			page.Empty = &EmptyState{Icon: "📝", Title: "No notes yet", Hint: "Create your first note to get started", ShowCreate: true}
		}
	}
	return page
}

func renderArchived(notes []core.Note, query string) Page {
	page := Page{View: core.ViewArchived, Title: "Archived Notes", Query: query}
	visible := core.Filter(notes, query)

	if len(visible) > 0 {
		page.Sections = []Section{{Notes: visible}}
		return page
	}
	if query != "" {
		page.Empty = &EmptyState{Icon: "📦", Title: "No archived notes found", Hint: "Try adjusting your search terms"}
	} else {
		page.Empty = &EmptyState{Icon: "📦", Title: "No archived notes", Hint: "Notes you archive will appear here"}
	}
	return page
}
