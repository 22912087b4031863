package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List registered strategies",
	RunE:  runStrategies,
}

func init() {
	rootCmd.AddCommand(strategiesCmd)
}

func runStrategies(cmd *cobra.Command, args []string) error {
	svc, _, log, err := newService()
	if err != nil {
		return err
	}
	defer log.Sync()

	for _, d := range svc.ListStrategies() {
		var marks []string
		if d.Recommended {
			marks = append(marks, "recommended")
		}
		if d.RequiresVolume {
			marks = append(marks, "requires volume")
		}
		suffix := ""
		if len(marks) > 0 {
			suffix = " (" + strings.Join(marks, ", ") + ")"
		}
		fmt.Printf("%s - %s%s\n", d.ID, d.Name, suffix)

		for _, p := range d.Schema {
			fmt.Printf("    %-18s %-8s default=%-6v min=%-6v %s\n",
				p.Name, p.Type, p.Default, p.Min, p.Description)
		}
	}
	return nil
}
