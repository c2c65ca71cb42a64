package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	listPath      string
	listRecursive bool
)

var listCmd = &cobra.Command{
	Use:   "list <path>",
	Short: "List the contents of a folder",
	Long: `List the contents of a folder on an HFS/HFS+ volume.

Examples:
  # List the root folder
  hfsx list disk.dmg

  # List a specific folder, recursively
  hfsx list disk.dmg --path :Documents --recursive`,

	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runList(args[0]); err != nil {
			cobra.CheckErr(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listPath, "path", "p", "", "folder to list, TN1041 colon syntax (e.g. :Documents:Sub); empty means the volume root")
	listCmd.Flags().BoolVarP(&listRecursive, "recursive", "r", false, "list recursively")
}

func runList(devicePath string) error {
	fmt.Printf("📋 Listing contents of: %s\n", devicePath)
	fmt.Printf("    Path: %s\n", listPath)
	if listRecursive {
		fmt.Println("    Recursive: true")
	}

	sess, f, err := openSession(devicePath)
	if err != nil {
		return err
	}
	defer f.Close()

	entries, err := sess.List(listPath, listRecursive)
	if err != nil {
		return err
	}

	if GetOutputFormat() == "json" {
		return printJSON(entries)
	}

	if len(entries) == 0 {
		fmt.Println("└── (empty)")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintf(w, "TYPE\tSIZE\tPATH\n")
	for _, e := range entries {
		kind := "file"
		size := fmt.Sprintf("%d", e.DataFork.LogicalSize)
		if e.IsFolder {
			kind = "folder"
			size = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", kind, size, e.Path)
	}

	return nil
}
