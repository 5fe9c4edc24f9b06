package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCpCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "cp [srcBucket:]srcKey [dstBucket:]dstKey",
		Short: "Copy an object within or across buckets",
		Long:  "Copy an object to a new key, grounded on demo/qcopy.c.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCp(cmd, args, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite the destination if it already exists")

	return cmd
}

func runCp(cmd *cobra.Command, args []string, force bool) error {
	cc := mustCLIContext(cmd.Context())
	srcBucket, srcKey := parseEntry(args[0], cc.Profile.Bucket)
	dstBucket, dstKey := parseEntry(args[1], cc.Profile.Bucket)

	if err := cc.Client.Copy(cmd.Context(), srcBucket, srcKey, dstBucket, dstKey, force); err != nil {
		return fmt.Errorf("cp %s:%s %s:%s: %w", srcBucket, srcKey, dstBucket, dstKey, err)
	}

	cc.Statusf("copied %s:%s -> %s:%s\n", srcBucket, srcKey, dstBucket, dstKey)

	return nil
}

func newMvCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "mv [srcBucket:]srcKey [dstBucket:]dstKey",
		Short: "Move (rename) an object within or across buckets",
		Long:  "Move an object to a new key, grounded on demo/qmove.c.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMv(cmd, args, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite the destination if it already exists")

	return cmd
}

func runMv(cmd *cobra.Command, args []string, force bool) error {
	cc := mustCLIContext(cmd.Context())
	srcBucket, srcKey := parseEntry(args[0], cc.Profile.Bucket)
	dstBucket, dstKey := parseEntry(args[1], cc.Profile.Bucket)

	if err := cc.Client.Move(cmd.Context(), srcBucket, srcKey, dstBucket, dstKey, force); err != nil {
		return fmt.Errorf("mv %s:%s %s:%s: %w", srcBucket, srcKey, dstBucket, dstKey, err)
	}

	cc.Statusf("moved %s:%s -> %s:%s\n", srcBucket, srcKey, dstBucket, dstKey)

	return nil
}

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [bucket:]key",
		Short: "Delete a stored object",
		Long:  "Delete an object, grounded on demo/qdelete.c.",
		Args:  cobra.ExactArgs(1),
		RunE:  runRm,
	}
}

func runRm(cmd *cobra.Command, args []string) error {
	cc := mustCLIContext(cmd.Context())
	bucket, key := parseEntry(args[0], cc.Profile.Bucket)

	if err := cc.Client.Delete(cmd.Context(), bucket, key); err != nil {
		return fmt.Errorf("rm %s:%s: %w", bucket, key, err)
	}

	cc.Statusf("deleted %s:%s\n", bucket, key)

	return nil
}
