package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"planner/internal/calendar"
)

var (
	gridYear  int
	gridMonth int
)

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Print a month grid (Sunday first) to stdout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		now := time.Now()
		m := calendar.Month{Year: now.Year(), Month: now.Month()}
		if gridYear != 0 {
			m.Year = gridYear
		}
		if gridMonth != 0 {
			if gridMonth < 1 || gridMonth > 12 {
				return fmt.Errorf("--month must be 1-12, got %d", gridMonth)
			}
			m.Month = time.Month(gridMonth)
		}
		printGrid(cmd.OutOrStdout(), m)
		return nil
	},
}

func init() {
	gridCmd.Flags().IntVar(&gridYear, "year", 0, "Year (default: current)")
	gridCmd.Flags().IntVar(&gridMonth, "month", 0, "Month 1-12 (default: current)")
}

func printGrid(w io.Writer, m calendar.Month) {
	fmt.Fprintln(w, m.Label())
	fmt.Fprintln(w, "Su Mo Tu We Th Fr Sa")
	for _, week := range calendar.Weeks(calendar.Grid(m)) {
		cols := make([]string, 0, len(week))
		for _, c := range week {
			if c.Blank {
				cols = append(cols, "  ")
				continue
			}
			cols = append(cols, fmt.Sprintf("%2d", c.Date.Day))
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cols, " "), " "))
	}
}
