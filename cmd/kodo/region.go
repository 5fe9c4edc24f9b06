package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bluntblade/kodo-go/jsonv"
	"github.com/bluntblade/kodo-go/region"
)

func newRegionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "region [bucket]",
		Short: "Show the up/io service table discovered for a bucket",
		Long:  "Query (or reuse the cached) region discovery result for a bucket, grounded on demo/qregion.c.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRegion,
	}
}

func runRegion(cmd *cobra.Command, args []string) error {
	cc := mustCLIContext(cmd.Context())

	bucket := cc.Profile.Bucket
	if len(args) == 1 {
		bucket = args[0]
	}

	rgn, err := cc.Client.Region(bucket)
	if err != nil {
		return fmt.Errorf("region %s: %w", bucket, err)
	}

	if flagJSON {
		obj := jsonv.NewObject(2)
		_ = obj.Set("up", entriesJSON(rgn.Service(region.KindUp)))
		_ = obj.Set("io", entriesJSON(rgn.Service(region.KindIO)))

		return printJSON(cmd.OutOrStdout(), jsonv.FromObject(obj))
	}

	out := cmd.OutOrStdout()
	printServiceEntries(out, "up", rgn.Service(region.KindUp))
	printServiceEntries(out, "io", rgn.Service(region.KindIO))

	return nil
}

func entriesJSON(svc *region.Service) jsonv.Value {
	if svc == nil {
		return jsonv.FromArray(jsonv.NewArray(0))
	}

	arr := jsonv.NewArray(svc.Len())
	for _, ent := range svc.Entries() {
		obj := jsonv.NewObject(2)
		_ = obj.Set("baseUrl", jsonv.StringFromGo(ent.BaseURL))
		_ = obj.Set("hostname", jsonv.StringFromGo(ent.Hostname))
		_ = arr.Push(jsonv.FromObject(obj))
	}
	return jsonv.FromArray(arr)
}

func printServiceEntries(w io.Writer, kind string, svc *region.Service) {
	if svc == nil {
		return
	}

	for _, ent := range svc.Entries() {
		if ent.Hostname != "" {
			fmt.Fprintf(w, "%s: %s (host: %s)\n", kind, ent.BaseURL, ent.Hostname)
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", kind, ent.BaseURL)
	}
}
