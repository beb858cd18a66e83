package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/mweigel/odrlint/internal/audit"
	"github.com/mweigel/odrlint/internal/batch"
	"github.com/mweigel/odrlint/internal/config"
	"github.com/mweigel/odrlint/internal/resolver"
)

var (
	cleanDirectory  string
	cleanDryRun     bool
	cleanFilter     string
	cleanWorkers    int
	cleanAuditPath  string
	cleanConfigFile string
)

var cleanCmd = &cobra.Command{
	Use:   "clean [INPUT [OUTPUT]]",
	Short: "Remove duplicated prohibition constraints from ODRL policies",
	Long: `The clean command scans ODRL policy documents for constraints that appear
on both the permission and the prohibition side, either verbatim or with
logically inverse operators, and removes the redundant prohibition-side
constraint. Prohibition rules left without constraints and without an
action are dropped.

Documents are rewritten in place unless OUTPUT is given. The envelope
shape of the input (single policy, array, or @graph) is preserved.`,
	Example: `  # Clean a single file in-place
  odrlint clean policy.jsonld

  # Clean with a specific output file
  odrlint clean input.jsonld output.jsonld

  # Clean all files in a directory, eight files at a time
  odrlint clean --directory ./policies/ --workers 8

  # Check without modifying anything
  odrlint clean --directory ./policies/ --dry-run`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cleanConfig(args)
		if err != nil {
			return err
		}

		res := resolver.New(resolver.WithDryRun(cfg.DryRun))

		opts := []batch.Option{batch.WithWorkers(cfg.Workers)}

		if cfg.Filter != "" {
			program, err := batch.CompileFilter(cfg.Filter)
			if err != nil {
				return err
			}
			opts = append(opts, batch.WithFilter(program))
		}

		if cfg.Audit.Enabled {
			auditor, err := audit.FromConfig(cfg.Audit.Type, cfg.Audit.Config)
			if err != nil {
				return err
			}
			defer func() {
				_ = auditor.Close()
			}()
			opts = append(opts, batch.WithAuditor(auditor))
		}

		driver := batch.New(res, opts...)

		if len(args) == 2 {
			if _, err := driver.ProcessFile(args[0], args[1]); err != nil {
				return err
			}
		} else {
			if err := driver.ProcessInputs(cfg.Inputs); err != nil {
				return err
			}
		}

		printStats(driver.Stats(), cfg.DryRun)
		return nil
	},
}

// cleanConfig assembles the batch configuration from either the config
// file or the command-line flags.
func cleanConfig(args []string) (*config.Config, error) {
	if cleanConfigFile != "" {
		return config.Load(cleanConfigFile)
	}

	cfg := &config.Config{
		DryRun:  cleanDryRun,
		Workers: cleanWorkers,
		Filter:  cleanFilter,
	}

	switch {
	case cleanDirectory != "":
		cfg.Inputs = []string{cleanDirectory}
	case len(args) > 0:
		cfg.Inputs = []string{args[0]}
	default:
		return nil, fmt.Errorf("provide an input file, --directory, or --config")
	}

	if cleanAuditPath != "" {
		cfg.Audit = config.AuditConfig{
			Enabled: true,
			Type:    "file",
			Config:  map[string]any{"path": cleanAuditPath},
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func printStats(stats resolver.Stats, dryRun bool) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Cleanup Summary")

	t.AppendRow(table.Row{"Files processed", stats.FilesProcessed})
	t.AppendRow(table.Row{"Files modified", stats.FilesModified})
	t.AppendRow(table.Row{"Policies processed", stats.PoliciesProcessed})
	t.AppendRow(table.Row{"Policies modified", stats.PoliciesModified})
	t.AppendRow(table.Row{"Duplications found", stats.DuplicationsFound})
	t.AppendRow(table.Row{"Duplications resolved", stats.DuplicationsResolved})

	t.SetStyle(table.StyleLight)
	t.Render()

	if dryRun {
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Printf("\n%s No files were actually modified. Run without --dry-run to apply changes.\n",
			yellow("[DRY RUN]"))
	}
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	cleanCmd.Flags().StringVarP(&cleanDirectory, "directory", "d", "", "Process all policy files in directory")
	cleanCmd.Flags().BoolVar(&cleanDryRun, "dry-run", false, "Show what would be done without modifying files")
	cleanCmd.Flags().StringVar(&cleanFilter, "filter", "", "Only clean policies matching this expression (e.g. 'policy.UID contains \"example\"')")
	cleanCmd.Flags().IntVar(&cleanWorkers, "workers", 0, "Number of files to process concurrently")
	cleanCmd.Flags().StringVar(&cleanAuditPath, "audit-log", "", "Write an audit entry for every removal to this file (JSON lines)")
	cleanCmd.Flags().StringVarP(&cleanConfigFile, "config", "c", "", "Batch configuration file (overrides the other flags)")
}
