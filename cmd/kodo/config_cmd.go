package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bluntblade/kodo-go/internal/config"
)

// newConfigureCmd builds `kodo configure`, which writes (or appends to)
// the profile file instead of resolving one — it is annotated with
// skipConfigAnnotation since a profile need not exist yet for this
// command to run.
func newConfigureCmd() *cobra.Command {
	var name, accessKey, secretKey, bucket string

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Write a profile to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigure(cmd, name, accessKey, secretKey, bucket)
		},
	}

	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[skipConfigAnnotation] = "true"

	cmd.Flags().StringVar(&name, "profile", "default", "profile name to write")
	cmd.Flags().StringVar(&accessKey, "access-key", "", "access key")
	cmd.Flags().StringVar(&secretKey, "secret-key", "", "secret key")
	cmd.Flags().StringVar(&bucket, "bucket", "", "default bucket")
	cmd.MarkFlagRequired("access-key")
	cmd.MarkFlagRequired("secret-key")

	return cmd
}

func runConfigure(cmd *cobra.Command, name, accessKey, secretKey, bucket string) error {
	logger := buildLogger(nil)
	env := config.ReadEnvOverrides()
	cli := config.CLIOverrides{ConfigPath: flagConfigPath}

	path := config.ResolveConfigPath(env, cli, logger)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := config.WriteNewProfile(path, name, accessKey, secretKey, bucket); err != nil {
			return fmt.Errorf("writing profile: %w", err)
		}
	} else {
		if err := config.AppendProfile(path, name, accessKey, secretKey, bucket); err != nil {
			return fmt.Errorf("writing profile: %w", err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote profile %q to %s\n", name, path)

	return nil
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration after all overrides",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cc := mustCLIContext(cmd.Context())

	return config.RenderEffective(cc.Profile, cmd.OutOrStdout())
}
