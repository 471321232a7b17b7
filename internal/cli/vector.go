package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	lruipv "github.com/djdv/go-lruipv"
	"github.com/djdv/go-lruipv/internal/config"
	"github.com/spf13/cobra"
)

func newVectorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vector [name]",
		Short: "Print promotion vectors",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.VectorNames()
			if len(args) == 1 {
				if _, ok := config.LookupVector(args[0]); !ok {
					return fmt.Errorf("unknown vector %q, expected one of %v", args[0], names)
				}
				names = args
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderVectors(names))
			return nil
		},
	}
}

// renderVectors prints one column per vector,
// one row per rank a hit is promoted from.
func renderVectors(names []string) string {
	rows := make([][]string, lruipv.Associativity)
	for rank := range rows {
		row := []string{strconv.Itoa(rank)}
		for _, name := range names {
			vector, _ := config.LookupVector(name)
			promoted := vector.Promote(lruipv.Rank(rank))
			row = append(row, strconv.Itoa(int(promoted)))
		}
		rows[rank] = row
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(append([]string{"RANK"}, names...)...).
		Rows(rows...).
		String()
}
