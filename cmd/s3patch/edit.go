package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/blobforge/s3patch"
	"github.com/blobforge/s3patch/s3types"
)

var (
	editOffset   int64
	editData     string
	editDataFile string
	editPartSize int64
)

var editCmd = &cobra.Command{
	Use:   "edit <key>",
	Short: "Replace bytes of an object in place",
	Long: `Replace bytes of an object starting at --offset, without
transferring the rest of the object. The replacement bytes come from
--data or --data-file and must fit inside the object.

Examples:
  s3patch edit plots/0042.bin --offset 1048576 --data-file patch.bin
  s3patch edit state.bin --offset 16 --data "new-marker"`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().Int64VarP(&editOffset, "offset", "o", 0, "byte offset of the edit (required)")
	editCmd.Flags().StringVarP(&editData, "data", "d", "", "replacement bytes as a literal string")
	editCmd.Flags().StringVarP(&editDataFile, "data-file", "f", "", "file holding the replacement bytes")
	editCmd.Flags().Int64Var(&editPartSize, "part-size", 0, "override the part size ceiling in bytes")
	_ = editCmd.MarkFlagRequired("offset")
	editCmd.MarkFlagsMutuallyExclusive("data", "data-file")
	editCmd.MarkFlagsOneRequired("data", "data-file")
}

func runEdit(cmd *cobra.Command, args []string) error {
	key := args[0]

	payload := []byte(editData)
	if editDataFile != "" {
		var err error
		payload, err = os.ReadFile(editDataFile)
		if err != nil {
			return fmt.Errorf("read data file: %w", err)
		}
	}

	client, target, err := getClient()
	if err != nil {
		return err
	}

	var patchOpts []s3types.PatchOption
	if editPartSize > 0 {
		patchOpts = append(patchOpts, s3patch.WithPatchMaxPartSize(editPartSize))
	}

	result, err := client.Patch(context.Background(), target, key,
		s3types.NewEdit(editOffset, payload), patchOpts...)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "patched %s/%s: %d bytes at offset %d, %d parts, etag %s (%s)\n",
		target, result.Key, result.UploadedBytes, editOffset, result.Parts, result.ETag, result.Duration.Round(time.Millisecond))
	return nil
}
