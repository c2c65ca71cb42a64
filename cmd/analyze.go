package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <path>",
	Short: "Analyze filesystem structure and report anomalies",
	Long: `Walk an HFS/HFS+ volume's catalog and cross-check fork sizes and
allocation bitmap accounting, reporting anything inconsistent as a
structural anomaly.

Examples:
  hfsx analyze disk.dmg`,

	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runAnalyze(args[0]); err != nil {
			cobra.CheckErr(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(devicePath string) error {
	fmt.Printf("🔍 Analyzing: %s\n", devicePath)

	sess, f, err := openSession(devicePath)
	if err != nil {
		return err
	}
	defer f.Close()

	report, err := sess.Analyze()
	if err != nil {
		return err
	}

	if GetOutputFormat() == "json" {
		return printJSON(report)
	}

	fmt.Printf("    Kind: %s\n", report.Kind)
	fmt.Printf("    Name: %s\n", report.Name)
	fmt.Printf("    Allocation block size: %d\n", report.AllocBlockSize)
	fmt.Printf("    Total blocks: %d\n", report.TotalBlocks)
	fmt.Printf("    Free blocks (header): %d\n", report.HeaderFreeBlocks)
	fmt.Printf("    Free blocks (bitmap): %d\n", report.BitmapFreeBlocks)
	fmt.Printf("    Files: %d, Folders: %d\n", report.FilesWalked, report.FoldersWalked)

	if len(report.Anomalies) == 0 {
		fmt.Println("└── no anomalies found")
		return nil
	}

	fmt.Printf("└── %d anomalie(s) found:\n", len(report.Anomalies))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintf(w, "KIND\tITEM\tDETAIL\n")
	for _, a := range report.Anomalies {
		fmt.Fprintf(w, "%s\t%s\t%s\n", a.Kind, a.Item, a.Detail)
	}

	return nil
}
