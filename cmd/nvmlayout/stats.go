package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/fordtom/nvmbuilder/internal/compile"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Padding(0, 1)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#90EE90"))
)

// isTerminal reports whether w is a terminal that can show styled output.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// statsTable builds the per-record size table. Failed records are listed
// with their error in place of the numbers.
func statsTable(results []compile.Result, styled bool) *table.Table {
	t := table.New().
		Headers("Record", "Fields", "Size", "Align", "Used", "Padding", "Capacity", "Efficiency")

	if styled {
		t = t.Border(lipgloss.RoundedBorder()).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				if row >= 0 && row < len(results) && results[row].Err != nil {
					return failStyle
				}
				return cellStyle
			})
	} else {
		t = t.Border(lipgloss.ASCIIBorder()).
			StyleFunc(func(row, col int) lipgloss.Style { return cellStyle })
	}

	for _, r := range results {
		if r.Err != nil {
			t.Row(r.Name, "-", "-", "-", "-", "-", "-", "failed")
			continue
		}
		st := r.Plan.Stats()
		capacity := "-"
		if st.Capacity > 0 {
			capacity = formatBytes(st.Capacity)
		}
		t.Row(
			r.Name,
			strconv.Itoa(st.Fields),
			formatBytes(st.Size),
			strconv.Itoa(r.Plan.Align),
			formatBytes(st.Used),
			formatBytes(st.Padding),
			capacity,
			fmt.Sprintf("%.1f%%", st.Efficiency),
		)
	}
	return t
}

// summary is the one-line outcome printed under the table.
func summary(results []compile.Result) string {
	built, used, allocated := 0, 0, 0
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		built++
		st := r.Plan.Stats()
		used += st.Used
		if st.Capacity > 0 {
			allocated += st.Capacity
		} else {
			allocated += st.Size
		}
	}

	eff := 0.0
	if allocated > 0 {
		eff = float64(used) / float64(allocated) * 100
	}
	return fmt.Sprintf("Built %d of %d records (%.1f%% efficiency)", built, len(results), eff)
}

func printStats(w io.Writer, results []compile.Result, styled bool) {
	fmt.Fprintln(w, statsTable(results, styled).Render())
	line := summary(results)
	if styled {
		line = okStyle.Render(line)
	}
	fmt.Fprintln(w, line)
}

// formatBytes renders n with thousands separators: 4096 -> "4,096 B".
func formatBytes(n int) string {
	s := strconv.Itoa(n)
	var out []byte
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	return string(out) + " B"
}
