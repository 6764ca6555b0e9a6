package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/wfallow/auroravault/internal/capsule"
)

var listCmd = &cobra.Command{
	Use:   "list <archive>",
	Short: "List the contents of a container archive",
	Long: `List parses a single ERF/MOD/SAV/HAK or RIM archive and prints its
resource table: name, type, byte offset and size, in table order.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		c, err := capsule.Open(path)
		if err != nil {
			return err
		}

		slog.Debug("Opened container", "path", path, "kind", c.Kind(), "entries", len(c.Entries()))

		fmt.Printf("%-20s %-10s %10s %10s\n", "Name", "Type", "Offset", "Size")
		for _, e := range c.Entries() {
			fmt.Printf("%-20s %-10s %10d %10d\n", e.Name, e.Type, e.Offset, e.Size)
		}
		fmt.Printf("%d entries (%s container)\n", len(c.Entries()), c.Kind())

		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
