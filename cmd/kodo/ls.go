package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bluntblade/kodo-go/jsonv"
	"github.com/bluntblade/kodo-go/kodo"
)

func newLsCmd() *cobra.Command {
	var prefix, delimiter string
	var limit int

	cmd := &cobra.Command{
		Use:   "ls [bucket]",
		Short: "List objects in a bucket",
		Long:  "List objects under an optional prefix, paginating automatically, grounded on easy.c's qn_easy_list.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLs(cmd, args, prefix, delimiter, limit)
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "restrict listing to keys with this prefix")
	cmd.Flags().StringVar(&delimiter, "delimiter", "", "group keys sharing a prefix up to this byte")
	cmd.Flags().IntVar(&limit, "limit", 0, "entries requested per page (clamped to 1000; 0 means 1000)")

	return cmd
}

func runLs(cmd *cobra.Command, args []string, prefix, delimiter string, limit int) error {
	cc := mustCLIContext(cmd.Context())

	bucket := cc.Profile.Bucket
	if len(args) == 1 {
		bucket = args[0]
	}

	opts := kodo.ListOptions{Prefix: prefix, Delimiter: delimiter, Limit: limit}

	var items []kodo.Item
	err := cc.Client.List(cmd.Context(), bucket, opts, func(item kodo.Item) bool {
		items = append(items, item)
		return true
	})
	if err != nil {
		return fmt.Errorf("ls %s: %w", bucket, err)
	}

	if flagJSON {
		arr := jsonv.NewArray(len(items))
		for _, item := range items {
			obj := jsonv.NewObject(5)
			_ = obj.Set("key", jsonv.StringFromGo(item.Key))
			_ = obj.Set("hash", jsonv.StringFromGo(item.Hash))
			_ = obj.Set("fsize", jsonv.Int(item.FSize))
			_ = obj.Set("putTime", jsonv.Int(item.PutTime))
			_ = obj.Set("mimeType", jsonv.StringFromGo(item.MimeType))
			_ = arr.Push(jsonv.FromObject(obj))
		}

		return printJSON(cmd.OutOrStdout(), jsonv.FromArray(arr))
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{item.Key, formatSize(item.FSize), formatPutTime(item.PutTime), item.MimeType})
	}

	printTable(cmd.OutOrStdout(), []string{"KEY", "SIZE", "PUT TIME", "MIME TYPE"}, rows)

	return nil
}
