package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "buzztrack",
		Short: "Track MLB prospect buzz across Reddit and news sources",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	root.AddCommand(scanCmd())
	root.AddCommand(resultsCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(runCmd())

	return root
}

func scanCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Fetch mentions and news, score the batch and store the run",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(output)
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "results JSON file (default: from config)")
	return cmd
}

func resultsCmd() *cobra.Command {
	var (
		jsonOutput bool
		runID      string
	)

	cmd := &cobra.Command{
		Use:   "results",
		Short: "Show buzz scores from the latest stored scan",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResults(jsonOutput, runID)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	cmd.Flags().StringVar(&runID, "run", "", "show a specific run instead of the latest")
	return cmd
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}

func runCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start daemon with periodic scans and HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}
