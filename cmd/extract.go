package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/hfsx/internal/orchestrator"
)

var (
	extractSource    string
	extractDest      string
	extractRecursive bool
	extractOverwrite bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <path>",
	Short: "Extract a file, folder, or the whole volume",
	Long: `Extract files from an HFS/HFS+ volume to the host filesystem.

Examples:
  # Extract the entire volume
  hfsx extract disk.dmg --dest ./recovered

  # Extract one folder, recursively
  hfsx extract disk.dmg --source :Documents --dest ./docs --recursive

  # Extract a single file
  hfsx extract disk.dmg --source ":Documents:report.txt" --dest ./report.txt`,

	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if !cmd.Flags().Changed("overwrite") && cfg != nil {
			extractOverwrite = cfg.ExtractOverwrite
		}
		if err := runExtract(args[0]); err != nil {
			cobra.CheckErr(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractSource, "source", "s", "", "source path within the volume, TN1041 colon syntax (e.g. :Documents:report.txt); default: entire volume")
	extractCmd.Flags().StringVarP(&extractDest, "dest", "d", "", "destination path on the host filesystem (required)")
	extractCmd.MarkFlagRequired("dest")

	extractCmd.Flags().BoolVarP(&extractRecursive, "recursive", "r", false, "extract a folder's contents recursively")
	extractCmd.Flags().BoolVar(&extractOverwrite, "overwrite", false, "overwrite existing files at the destination")
}

func runExtract(devicePath string) error {
	fmt.Printf("📦 Extracting from: %s\n", devicePath)
	if extractSource != "" {
		fmt.Printf("    Source: %s\n", extractSource)
	} else {
		fmt.Println("    Source: entire volume")
	}
	fmt.Printf("    Destination: %s\n", extractDest)

	sess, f, err := openSession(devicePath)
	if err != nil {
		return err
	}
	defer f.Close()

	result, err := sess.Extract(extractSource, extractDest, orchestrator.ExtractOptions{
		Recursive: extractRecursive,
		Overwrite: extractOverwrite,
	})
	if err != nil {
		return err
	}

	fmt.Printf("└── %d file(s), %d bytes copied (run %s)\n", result.FilesCopied, result.BytesCopied, result.RunID)
	return nil
}
