package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/hfsx/internal/config"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
	encoding     string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "hfsx",
	Short: "Read-only legacy Macintosh filesystem explorer and extractor",
	Long: `hfsx is a read-only command-line tool for exploring and extracting
files from HFS and HFS+ volumes, working directly against a raw device
or disk image without mounting.

Commands:
  analyze     Analyze filesystem structure and report anomalies
  list        List the contents of a folder
  extract     Extract a file, folder, or the whole volume
  discover    Find files by name, extension, or size`,
	Version: "0.1.0-dev",

	// PersistentPreRunE loads hfsx-config.yaml (if any) and applies it
	// wherever the operator left the corresponding flag untouched, so
	// flags always win over config and config always wins over the
	// built-in default.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded

		if !cmd.Flags().Changed("output") {
			outputFormat = cfg.OutputFormat
		}
		if !cmd.Flags().Changed("encoding") {
			encoding = cfg.Encoding
		}
		return nil
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output except errors")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format (table, json)")
	rootCmd.PersistentFlags().StringVar(&encoding, "encoding", "macroman", "legacy text encoding hint (macroman)")
}

// GetVerbose returns the verbose flag value.
func GetVerbose() bool { return verbose }

// GetQuiet returns the quiet flag value.
func GetQuiet() bool { return quiet }

// GetOutputFormat returns the output format flag value.
func GetOutputFormat() string { return outputFormat }

// GetEncoding returns the encoding hint flag value.
func GetEncoding() string { return encoding }
