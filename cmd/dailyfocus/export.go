package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dailyfocus/internal/export"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tasks as JSON and text files",
	Long: `Export every task. By default writes dailyfocus-tasks-<date>.json and
dailyfocus-tasks-<date>.txt into the output directory. With --format the
chosen representation is printed to stdout instead.`,
	Example: `  # Write both files into the current directory
  dailyfocus export

  # Write into ~/exports
  dailyfocus export -o ~/exports

  # Print CSV
  dailyfocus export --format csv > tasks.csv`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	f := exportCmd.Flags()
	f.StringVarP(&exportFormat, "format", "f", "", "print to stdout as json, text or csv")
	f.StringVarP(&exportOutput, "output", "o", ".", "directory for the export files")
}

func runExport(cmd *cobra.Command, args []string) error {
	switch exportFormat {
	case "", "json", "text", "csv":
	default:
		return fmt.Errorf("invalid format %q (use json, text or csv)", exportFormat)
	}

	rt, err := setup(true)
	if err != nil {
		return err
	}
	defer rt.close()
	ctrl, err := rt.controller()
	if err != nil {
		return err
	}
	rt.printWarnings()

	list := ctrl.State().Tasks
	now := ctrl.Env().Now().In(rt.loc)
	out := cmd.OutOrStdout()

	switch exportFormat {
	case "json":
		data, err := export.JSON(list, now)
		if err != nil {
			return fmt.Errorf("serialize export: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case "text":
		fmt.Fprint(out, export.RenderText(list, now))
	case "csv":
		data, err := export.CSV(list)
		if err != nil {
			return fmt.Errorf("serialize export: %w", err)
		}
		fmt.Fprint(out, data)
	default:
		paths, err := export.WriteFiles(exportOutput, list, now)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Exported %d tasks\n", len(list))
		for _, p := range paths {
			fmt.Fprintf(out, "  %s\n", p)
		}
	}
	return nil
}
