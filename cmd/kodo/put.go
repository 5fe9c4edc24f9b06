package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bluntblade/kodo-go/internal/config"
	"github.com/bluntblade/kodo-go/ioreader"
	"github.com/bluntblade/kodo-go/jsonv"
	"github.com/bluntblade/kodo-go/kodoerr"
	"github.com/bluntblade/kodo-go/sign"
	"github.com/bluntblade/kodo-go/upload"
)

// defaultPolicyTTL is how long an upload token this binary mints stays
// valid, long enough to cover a slow resumable upload of a large file
// without the CLI needing its own token-refresh logic.
const defaultPolicyTTL = time.Hour

func newPutCmd() *cobra.Command {
	var mimeType string

	cmd := &cobra.Command{
		Use:   "put <local-path> [bucket:]key",
		Short: "Upload a file in a single request",
		Long:  "Upload local-path in one multipart POST regardless of size, grounded on demo/qeputf.c.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPut(cmd, args, mimeType)
		},
	}

	cmd.Flags().StringVar(&mimeType, "mime", "application/octet-stream", "MIME type to record for the object")

	return cmd
}

func runPut(cmd *cobra.Command, args []string, mimeType string) error {
	cc := mustCLIContext(cmd.Context())
	localPath, bucket, key := localPathAndEntry(args, cc.Profile.Bucket)

	f, err := ioreader.OpenFile(localPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", localPath, err)
	}
	defer f.Close()

	policy := sign.NewUploadPolicy(bucket+":"+key, time.Now().Add(defaultPolicyTTL))

	result, err := cc.Client.Put(cmd.Context(), f, key, mimeType, policy)
	if err != nil {
		return fmt.Errorf("put %s: %w", localPath, err)
	}

	return printPutResult(cmd, result)
}

func newPutFileCmd() *cobra.Command {
	var mimeType string
	var threshold string

	cmd := &cobra.Command{
		Use:   "putfile <local-path> [bucket:]key",
		Short: "Upload a file, switching to the resumable protocol above a size threshold",
		Long: "Upload local-path, dispatching between a single request and the " +
			"resumable mkblk/bput/mkfile protocol by size, with progress " +
			"persisted under the profile's cache directory so an interrupted " +
			"upload resumes instead of restarting. Grounded on demo/qputfb.c " +
			"and demo/qrputf.c.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPutFile(cmd, args, mimeType, threshold)
		},
	}

	cmd.Flags().StringVar(&mimeType, "mime", "application/octet-stream", "MIME type to record for the object")
	cmd.Flags().StringVar(&threshold, "resumable-threshold", "", "file size above which the resumable protocol is used (overrides the profile default)")

	return cmd
}

func runPutFile(cmd *cobra.Command, args []string, mimeType, thresholdFlag string) error {
	cc := mustCLIContext(cmd.Context())
	localPath, bucket, key := localPathAndEntry(args, cc.Profile.Bucket)

	threshold := cc.Profile.ResumableThreshold
	if thresholdFlag != "" {
		parsed, err := config.ParseSize(thresholdFlag)
		if err != nil {
			return fmt.Errorf("--resumable-threshold: %w", err)
		}
		threshold = parsed
	}

	policy := sign.NewUploadPolicy(bucket+":"+key, time.Now().Add(defaultPolicyTTL))
	store := upload.NewStore(cc.Profile.CacheDir)

	result, err := cc.Client.PutFile(cmd.Context(), localPath, key, mimeType, policy, store, threshold)
	if err != nil {
		if kodoerr.New(kodoerr.StorInvalidResumableSession).Is(err) {
			if delErr := store.Delete(bucket, key); delErr != nil {
				cc.Logger.Warn("kodo: failed to discard invalid upload progress", "key", key, "error", delErr)
			}
			cc.Logger.Warn("kodo: resumable session was invalid, a fresh upload will start next run", "key", key)
		}
		return fmt.Errorf("putfile %s: %w", localPath, err)
	}

	return printPutResult(cmd, result)
}

// localPathAndEntry pulls the local file path and a "[bucket:]key"
// destination out of put/putfile's two positional args.
func localPathAndEntry(args []string, defaultBucket string) (localPath, bucket, key string) {
	bucket, key = parseEntry(args[1], defaultBucket)
	return args[0], bucket, key
}

func printPutResult(cmd *cobra.Command, result *upload.Result) error {
	if flagJSON {
		obj := jsonv.NewObject(2)
		_ = obj.Set("hash", jsonv.StringFromGo(result.Hash))
		_ = obj.Set("key", jsonv.StringFromGo(result.Key))

		return printJSON(cmd.OutOrStdout(), jsonv.FromObject(obj))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "hash: %s\nkey:  %s\n", result.Hash, result.Key)

	return nil
}
