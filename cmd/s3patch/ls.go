package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/blobforge/s3patch"
	"github.com/blobforge/s3patch/s3types"
)

var (
	lsLimit      int32
	lsStartAfter string
)

var lsCmd = &cobra.Command{
	Use:   "ls [prefix]",
	Short: "List objects in the configured bucket",
	Long: `List objects in the configured bucket, optionally under a prefix.

Examples:
  s3patch ls
  s3patch ls plots/
  s3patch ls plots/ --limit 20 --start-after plots/0042.bin`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLs,
}

func init() {
	lsCmd.Flags().Int32VarP(&lsLimit, "limit", "l", 1000, "max results (max: 1000)")
	lsCmd.Flags().StringVar(&lsStartAfter, "start-after", "", "start listing after this key")
}

func runLs(cmd *cobra.Command, args []string) error {
	prefix := ""
	if len(args) > 0 {
		prefix = args[0]
	}

	client, target, err := getClient()
	if err != nil {
		return err
	}

	opts := []s3types.ListOption{s3patch.WithMaxKeys(lsLimit)}
	if lsStartAfter != "" {
		opts = append(opts, s3patch.WithStartAfter(lsStartAfter))
	}

	result, err := client.List(context.Background(), target, prefix, opts...)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, obj := range result.Objects {
		fmt.Fprintf(w, "%s\t%d\t%s\n", obj.Key, obj.Size, obj.LastModified.Format(time.RFC3339))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if result.IsTruncated {
		fmt.Fprintf(cmd.OutOrStdout(), "(truncated, continue with --start-after %s)\n",
			result.Objects[len(result.Objects)-1].Key)
	}
	return nil
}
