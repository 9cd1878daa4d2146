package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/BV-RADS/BIDS-creator-tool/internal/dispatch"
)

func renderSummary(tally dispatch.Tally) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	tw.AppendHeader(table.Row{"Outcome", "Files"})
	tw.AppendRow(table.Row{"Succeeded", strconv.Itoa(tally.Success)})
	tw.AppendRow(table.Row{"Failed", strconv.Itoa(tally.Failed)})
	tw.AppendRow(table.Row{"Skipped", strconv.Itoa(tally.Skipped)})
	tw.AppendFooter(table.Row{"Total", strconv.Itoa(tally.Total())})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft, AlignFooter: text.AlignRight},
	})

	return tw.Render()
}
