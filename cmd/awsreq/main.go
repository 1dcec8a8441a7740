package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zalando-incubator/awsreq"
	"github.com/zalando-incubator/awsreq/config"
)

func main() {
	cfg := config.NewConfig()

	cmd := &cobra.Command{
		Use:          "awsreq [flags] <url-or-path>",
		Short:        "HTTP client that signs requests with AWS Signature Version 4",
		Long:         "awsreq sends a single HTTP request signed with AWS Signature Version 4 and prints the response. The target is a full URL, or a path resolved against the base URL of the selected environment.",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, posArgs []string) error {
			// cobra parsed the shared flag set already, Load only
			// applies the config file overlay and validates.
			if err := cfg.Load(); err != nil {
				return err
			}
			return awsreq.Run(cmd.Context(), cfg, awsreq.Options{
				Target: posArgs[0],
				Stdout: os.Stdout,
			})
		},
	}
	cmd.Flags().AddFlagSet(cfg.Flags)

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
