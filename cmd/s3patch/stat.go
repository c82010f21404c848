package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statCmd = &cobra.Command{
	Use:   "stat <key>",
	Short: "Show object metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runStat,
}

func runStat(cmd *cobra.Command, args []string) error {
	client, target, err := getClient()
	if err != nil {
		return err
	}

	info, err := client.Stat(context.Background(), target, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "bucket:        %s\n", info.Bucket)
	fmt.Fprintf(out, "key:           %s\n", info.Key)
	fmt.Fprintf(out, "size:          %d\n", info.Size)
	fmt.Fprintf(out, "etag:          %s\n", info.ETag)
	if info.ContentType != "" {
		fmt.Fprintf(out, "content-type:  %s\n", info.ContentType)
	}
	if !info.LastModified.IsZero() {
		fmt.Fprintf(out, "last-modified: %s\n", info.LastModified.Format(time.RFC3339))
	}
	return nil
}
