package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/hfsx/internal/catalog"
	"github.com/deploymenttheory/hfsx/internal/orchestrator"
)

var (
	discoverNameGlob      string
	discoverExtensions    []string
	discoverCaseSensitive bool
	discoverMinSize       string
	discoverMaxSize       string
	discoverLimit         int
)

var discoverCmd = &cobra.Command{
	Use:   "discover <path>",
	Short: "Find files by name, extension, or size",
	Long: `Search an HFS/HFS+ volume's catalog for files matching criteria.

Examples:
  # Find all PDFs
  hfsx discover disk.dmg --ext pdf

  # Find files by glob, over a minimum size
  hfsx discover disk.dmg --name-glob "invoice*" --min-size 10KB`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("limit") && cfg != nil {
			discoverLimit = cfg.DiscoverMaxResults
		}
		return runDiscover(args[0])
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)

	discoverCmd.Flags().StringVar(&discoverNameGlob, "name-glob", "", "filename pattern (wildcards: *, ?)")
	discoverCmd.Flags().StringSliceVar(&discoverExtensions, "ext", nil, "file extensions (pdf,jpg,txt)")
	discoverCmd.Flags().BoolVar(&discoverCaseSensitive, "case-sensitive", false, "case-sensitive name matching")
	discoverCmd.Flags().StringVar(&discoverMinSize, "min-size", "", "minimum file size (10KB, 1MB)")
	discoverCmd.Flags().StringVar(&discoverMaxSize, "max-size", "", "maximum file size (10KB, 1MB)")
	discoverCmd.Flags().IntVar(&discoverLimit, "limit", 1000, "maximum results")
}

func runDiscover(devicePath string) error {
	fmt.Printf("🔎 Discovering files on: %s\n", devicePath)

	minSize, err := parseSize(discoverMinSize)
	if err != nil {
		return fmt.Errorf("--min-size: %w", err)
	}
	maxSize, err := parseSize(discoverMaxSize)
	if err != nil {
		return fmt.Errorf("--max-size: %w", err)
	}

	pred := orchestrator.Predicate{
		NameGlob:      discoverNameGlob,
		Extensions:    discoverExtensions,
		CaseSensitive: discoverCaseSensitive,
		MinSize:       minSize,
		MaxSize:       maxSize,
		MaxResults:    discoverLimit,
	}

	sess, f, err := openSession(devicePath)
	if err != nil {
		return err
	}
	defer f.Close()

	items, truncated, err := sess.Discover(pred)
	if err != nil {
		return err
	}

	if GetOutputFormat() == "json" {
		return printJSON(struct {
			Files     []catalog.DehydratedItem `json:"files"`
			Truncated bool                     `json:"truncated"`
		}{items, truncated})
	}

	if len(items) == 0 {
		fmt.Println("└── no matches")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintf(w, "NAME\tSIZE\n")
	for _, it := range items {
		fmt.Fprintf(w, "%s\t%d\n", it.Name, it.DataFork.LogicalSize)
	}

	fmt.Printf("\nFound %d file(s)", len(items))
	if truncated {
		fmt.Print(" (truncated at --limit)")
	}
	fmt.Println()

	return nil
}

// parseSize parses strings like "10KB", "1.5MB" into a byte count. An
// empty string parses to 0 (no bound), following the teacher's
// discover size-format grammar (pkg/app/discover's validateSizeFormat)
// re-targeted at binary byte units.
func parseSize(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	s = strings.ToUpper(strings.TrimSpace(s))

	var numPart, unit string
	for i, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			numPart += string(r)
		} else {
			unit = s[i:]
			break
		}
	}
	if numPart == "" {
		return 0, fmt.Errorf("no numeric value in %q", s)
	}
	value, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric value %q", numPart)
	}

	multiplier := map[string]float64{
		"":   1,
		"B":  1,
		"KB": 1024,
		"MB": 1024 * 1024,
		"GB": 1024 * 1024 * 1024,
	}
	m, ok := multiplier[unit]
	if !ok {
		return 0, fmt.Errorf("invalid size unit %q (valid: B, KB, MB, GB)", unit)
	}

	return int64(value * m), nil
}
