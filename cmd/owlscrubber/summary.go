package main

import (
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/c360studio/owlscrubber/scrub"
)

var summaryHeader = []string{"Phase", "Entities", "Removed", "Added", "Skipped", "Errors", "Duration"}

// printSummary renders one row per phase plus a totals footer.
func printSummary(w io.Writer, report *scrub.Report) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeader(summaryHeader)
	table.AppendBulk(phaseRows(report))
	table.SetFooter(phaseRow(report.Totals()))
	table.Render()
}

func phaseRows(report *scrub.Report) [][]string {
	rows := make([][]string, 0, len(report.Phases))
	for _, p := range report.Phases {
		rows = append(rows, phaseRow(p))
	}
	return rows
}

func phaseRow(p scrub.PhaseResult) []string {
	return []string{
		p.Name,
		strconv.Itoa(p.Entities),
		strconv.Itoa(p.Removed),
		strconv.Itoa(p.Added),
		strconv.Itoa(p.Skipped),
		strconv.Itoa(p.ErrorCount()),
		p.Duration.Round(time.Millisecond).String(),
	}
}
