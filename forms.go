package main

import (
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"formpost/config"
)

func newFormsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forms",
		Short: "List the configured forms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore("", "")
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			writeForms(out, store.Config().Forms, terminalWidth(out))
			return nil
		},
	}
}

func writeForms(w io.Writer, forms []config.FormConfig, width int) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateHeader = true
	if width > 0 {
		tw.SetAllowedRowLength(width)
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 4, Align: text.AlignLeft, AlignHeader: text.AlignCenter, WidthMax: 40},
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignCenter},
	})
	tw.AppendHeader(table.Row{"Name", "Title", "Endpoint", "Label", "Max In Flight"})

	for _, form := range forms {
		endpoint := form.Endpoint
		if endpoint == "" {
			endpoint = "(not defined)"
		}
		limit := "-"
		if form.MaxInFlight > 0 {
			limit = strconv.Itoa(form.MaxInFlight)
		}
		tw.AppendRow(table.Row{form.Name, form.Title, endpoint, form.Label, limit})
	}

	if len(forms) == 0 {
		tw.AppendRow(table.Row{"(no forms)", "-", "-", "-", "-"})
	}

	_ = tw.Render()
}

func terminalWidth(out io.Writer) int {
	file, ok := out.(*os.File)
	if !ok {
		return 0
	}
	if w, _, err := term.GetSize(int(file.Fd())); err == nil && w > 0 {
		return w
	}
	return 0
}
