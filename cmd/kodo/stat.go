package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bluntblade/kodo-go/jsonv"
)

// parseEntry splits a "[bucket:]key" argument, falling back to
// defaultBucket when no bucket prefix is given — letting every
// subcommand accept either a bare key (using the profile's default
// bucket) or an explicit "bucket:key" pair for one-off cross-bucket
// use, the CLI-level reading of qn_easy_put_extra's separate bucket/key
// arguments.
func parseEntry(arg, defaultBucket string) (bucket, key string) {
	for i := 0; i < len(arg); i++ {
		if arg[i] == ':' {
			return arg[:i], arg[i+1:]
		}
	}
	return defaultBucket, arg
}

func newStatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stat [bucket:]key",
		Short: "Show metadata for a stored object",
		Long:  "Show hash, size, upload time, and MIME type for an object, grounded on demo/qstat.c.",
		Args:  cobra.ExactArgs(1),
		RunE:  runStat,
	}
}

func runStat(cmd *cobra.Command, args []string) error {
	cc := mustCLIContext(cmd.Context())
	bucket, key := parseEntry(args[0], cc.Profile.Bucket)

	st, err := cc.Client.Stat(cmd.Context(), bucket, key)
	if err != nil {
		return fmt.Errorf("stat %s:%s: %w", bucket, key, err)
	}

	if flagJSON {
		obj := jsonv.NewObject(5)
		_ = obj.Set("hash", jsonv.StringFromGo(st.Hash))
		_ = obj.Set("fsize", jsonv.Int(st.FSize))
		_ = obj.Set("putTime", jsonv.Int(st.PutTime))
		_ = obj.Set("mimeType", jsonv.StringFromGo(st.MimeType))
		_ = obj.Set("type", jsonv.Int(int64(st.Type)))

		return printJSON(cmd.OutOrStdout(), jsonv.FromObject(obj))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "hash:      %s\n", st.Hash)
	fmt.Fprintf(out, "size:      %s\n", formatSize(st.FSize))
	fmt.Fprintf(out, "put time:  %s\n", formatPutTime(st.PutTime))
	fmt.Fprintf(out, "mimeType:  %s\n", st.MimeType)
	fmt.Fprintf(out, "type:      %d\n", st.Type)

	return nil
}
