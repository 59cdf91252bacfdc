package core

import "strings"

// Draft is the editable part of a note: what the editor dialog holds between
// opening and closing.
type Draft struct {
	Title  string
	Body   string
	Color  string
	Labels []string
}

// DraftFromNote seeds a draft from an existing note.
// The color falls back to the default when the note has none.
func DraftFromNote(n Note) Draft {
	color := n.Color
	if color == "" {
		color = string(ColorDefault)
	}
	return Draft{
		Title:  n.Title,
		Body:   n.Body,
		Color:  color,
		Labels: append([]string(nil), n.Labels...),
	}
}

// HasContent reports whether saving the draft would persist anything.
func (d Draft) HasContent() bool {
	return strings.TrimSpace(d.Title) != "" ||
		strings.TrimSpace(d.Body) != "" ||
		len(CleanLabels(d.Labels)) > 0
}

// Normalize returns the payload that is actually written: title and body
// trimmed, blank labels dropped, color defaulted when empty.
func (d Draft) Normalize() Draft {
	color := d.Color
	if color == "" {
		color = string(ColorDefault)
	}
	return Draft{
		Title:  strings.TrimSpace(d.Title),
		Body:   strings.TrimSpace(d.Body),
		Color:  color,
		Labels: CleanLabels(d.Labels),
	}
}
