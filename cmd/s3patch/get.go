package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var getOutput string

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Download an object",
	Long: `Download an object to stdout or to --output. Intended for
verifying patches on small objects; the whole object is buffered in memory.`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	getCmd.Flags().StringVarP(&getOutput, "output", "O", "", "write to file instead of stdout")
}

func runGet(cmd *cobra.Command, args []string) error {
	client, target, err := getClient()
	if err != nil {
		return err
	}

	data, err := client.Get(context.Background(), target, args[0])
	if err != nil {
		return err
	}

	if getOutput != "" {
		if err := os.WriteFile(getOutput, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", getOutput, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d bytes to %s\n", len(data), getOutput)
		return nil
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}
