package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"dailyfocus/internal/app"
	"dailyfocus/internal/importer"
)

// previewLimit caps how many tasks a dry run prints.
const previewLimit = 20

var importDryRun bool

var importCmd = &cobra.Command{
	Use:   "import FORMAT FILE",
	Short: "Import tasks from other apps",
	Long: `Import tasks from other productivity apps. Supported formats:

  todoist       Todoist CSV backup (Settings → Backups → Download)
                  TYPE=task rows only; CONTENT → text, PROJECT → category,
                  PRIORITY 4 → urgent, 3 → high, 2 → medium, 1 → low,
                  DATE → date

  taskwarrior   Output of 'task export' (JSON array or one object per line)
                  description → text, project → category,
                  priority H/M/L → high/medium/low, due → date,
                  status completed → done; deleted tasks are skipped

Tasks already present with the same text and date are skipped. Unknown
projects become new categories. The whole import is a single undo step.`,
	Example: `  # Import from Todoist
  dailyfocus import todoist ~/Downloads/Todoist_backup.csv

  # Import from Taskwarrior
  task export > tasks.json
  dailyfocus import taskwarrior tasks.json

  # Preview before importing
  dailyfocus import --dry-run todoist backup.csv`,
	Args: cobra.ExactArgs(2),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "preview import without making changes")
}

func runImport(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(args[0])

	rt, err := setup(true)
	if err != nil {
		return err
	}
	defer rt.close()

	imp := importer.GetImporter(format, rt.loc)
	if imp == nil {
		return fmt.Errorf("unknown format %q (supported: %s)", format, strings.Join(importer.SupportedFormats(), ", "))
	}

	file, err := os.Open(args[1])
	if err != nil {
		return err
	}
	defer file.Close()

	items, err := imp.Preview(file)
	if err != nil {
		return fmt.Errorf("parsing file: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintln(out, "No tasks found to import.")
		return nil
	}
	if importDryRun {
		printPreview(out, items)
		return nil
	}

	ctrl, err := rt.controller()
	if err != nil {
		return err
	}
	result, err := importer.Import(ctrl, items)
	if err != nil && !errors.Is(err, app.ErrPersist) {
		return fmt.Errorf("importing: %w", err)
	}

	fmt.Fprintln(out, "Import complete!")
	fmt.Fprintf(out, "  Imported: %d tasks\n", result.Imported)
	if result.Skipped > 0 {
		fmt.Fprintf(out, "  Skipped:  %d (already present)\n", result.Skipped)
	}
	if result.CategoriesCreated > 0 {
		fmt.Fprintf(out, "  Categories created: %d\n", result.CategoriesCreated)
	}
	if len(result.Errors) > 0 {
		fmt.Fprintf(out, "  Errors:   %d\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Fprintf(out, "    - %s\n", e)
		}
	}
	return err
}

// printPreview lists up to previewLimit parsed tasks.
func printPreview(out io.Writer, items []importer.PreviewTask) {
	fmt.Fprintf(out, "Preview: %d tasks to import\n", len(items))
	fmt.Fprintln(out, "────────────────────────────")

	for i, item := range items {
		if i == previewLimit {
			fmt.Fprintf(out, "  ... and %d more\n", len(items)-previewLimit)
			break
		}

		var details []string
		if item.Project != "" {
			details = append(details, item.Project)
		}
		if item.Priority != "" {
			details = append(details, string(item.Priority))
		}
		if item.Date != "" {
			details = append(details, item.Date)
		}
		if item.Done {
			details = append(details, "done")
		}

		fmt.Fprintf(out, "  %s", item.Text)
		if len(details) > 0 {
			fmt.Fprintf(out, " (%s)", strings.Join(details, ", "))
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Run without --dry-run to import.")
}
