package core

import "strings"

// NormalizeLabel turns raw label input into a label: surrounding space is
// trimmed and one leading '#' removed. The result may be empty.
func NormalizeLabel(raw string) string {
	return strings.TrimPrefix(strings.TrimSpace(raw), "#")
}

// AddLabel appends the normalized label unless it is empty or already
// present. Comparison is case-sensitive. The input slice is not modified.
func AddLabel(labels []string, raw string) ([]string, bool) {
	label := NormalizeLabel(raw)
	if label == "" {
		return labels, false
	}
	for _, l := range labels {
		if l == label {
			return labels, false
		}
	}
	out := make([]string, 0, len(labels)+1)
	out = append(out, labels...)
	return append(out, label), true
}

// RemoveLabel drops every entry equal to label.
func RemoveLabel(labels []string, label string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if l != label {
			out = append(out, l)
		}
	}
	return out
}

// CleanLabels drops labels that are blank after trimming. Order is kept and
// the kept values are not rewritten.
func CleanLabels(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}
