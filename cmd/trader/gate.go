package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var gateCmd = &cobra.Command{
	Use:   "gate",
	Short: "Evaluate the go/no-go risk gate",
	Long: `Evaluate the go/no-go gate for the configured trading mode using the
latest live summary in the report archive. Exits 0 on GO and 2 on NO-GO so
orchestration scripts can branch on the result.`,
	RunE: runGate,
}

func init() {
	rootCmd.AddCommand(gateCmd)
}

func runGate(cmd *cobra.Command, args []string) error {
	svc, _, log, err := newService()
	if err != nil {
		return err
	}
	defer log.Sync()

	report, err := svc.EvaluateGate(context.Background(), nil)
	if err != nil {
		return err
	}

	fmt.Printf("mode: %s\n", report.Mode)
	for _, c := range report.Checks {
		if c.Message != "" {
			fmt.Printf("  %-14s %-4s %s\n", c.Name, c.Verdict, c.Message)
		} else {
			fmt.Printf("  %-14s %s\n", c.Name, c.Verdict)
		}
	}
	fmt.Printf("aggregate: %s\n", report.Aggregate)

	if !report.Allowed() {
		log.Sync()
		os.Exit(2)
	}
	return nil
}
