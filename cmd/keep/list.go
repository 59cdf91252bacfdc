package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/keep/pkg/board"
	"github.com/aretw0/keep/pkg/core"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

func newListCmd(c *cli) *cobra.Command {
	var (
		archived bool
		query    string
		label    string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List notes, pinned first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.openSignedIn(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			ctrl, err := app.Board(viewFor(archived), board.WithNotifier(c.notifier()), board.WithLogger(c.logger))
			if err != nil {
				return err
			}
			if err := ctrl.Load(cmd.Context()); err != nil {
				return err
			}
			ctrl.SetQuery(query)

			page, err := filterPage(ctrl.Render(), label)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(page.Cards())
			}
			writePage(cmd.OutOrStdout(), page)
			return nil
		},
	}

	cmd.Flags().BoolVar(&archived, "archived", false, "List archived notes")
	cmd.Flags().StringVarP(&query, "query", "q", "", `Case-insensitive search over title, body and labels ("#work" matches labels containing "work")`)
	cmd.Flags().StringVarP(&label, "label", "l", "", `Keep notes with a label matching a glob ("work/*")`)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func viewFor(archived bool) core.View {
	if archived {
		return core.ViewArchived
	}
	return core.ViewActive
}

// filterPage narrows every section to notes whose labels match pattern.
// Sections left empty are dropped; a page left empty gets the search empty state.
func filterPage(page board.Page, pattern string) (board.Page, error) {
	if pattern == "" {
		return page, nil
	}
	sections := make([]board.Section, 0, len(page.Sections))
	for _, s := range page.Sections {
		notes, err := core.FilterLabels(s.Notes, pattern)
		if err != nil {
			return board.Page{}, err
		}
		if len(notes) > 0 {
			sections = append(sections, board.Section{Heading: s.Heading, Notes: notes})
		}
	}
	page.Sections = sections
	if len(sections) == 0 && page.Empty == nil {
		title := "No notes found"
		if page.View == core.ViewArchived {
			title = "No archived notes found"
		}
		page.Empty = &board.EmptyState{Title: title, Hint: "Try adjusting your search terms"}
	}
	return page, nil
}

func writePage(w io.Writer, page board.Page) {
	if page.Empty != nil {
		fmt.Fprintln(w, page.Empty.Title)
		fmt.Fprintln(w, page.Empty.Hint)
		if page.Empty.ShowCreate {
			fmt.Fprintln(w, "Run `keep new --title ...` to create one.")
		}
		return
	}
	if page.Title != "" {
		fmt.Fprintln(w, page.Title)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"", "ID", "Title", "Labels", "Color", "Updated"})

	for i, s := range page.Sections {
		if i > 0 {
			t.AppendSeparator()
		}
		if s.Heading != "" {
			t.AppendRow(table.Row{"", text.Bold.Sprint(strings.ToUpper(s.Heading))})
		}
		for _, n := range s.Notes {
			pin := ""
			if n.Pinned {
				pin = "📌"
			}
			title := n.Title
			if title == "" {
				title = "Untitled"
			}
			t.AppendRow(table.Row{
				pin,
				n.ID,
				title,
				strings.Join(n.Labels, ", "),
				string(core.ResolveColor(n.Color)),
				n.UpdatedAt.Local().Format("2006-01-02 15:04"),
			})
		}
	}
	t.Render()
}
