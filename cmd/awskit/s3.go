package main

import (
	"github.com/spf13/cobra"

	"github.com/cloudops-tools/awskit/pkg/s3"
)

func addS3Commands(root *cobra.Command) {
	s3Cmd := &cobra.Command{
		Use:   "s3",
		Short: "Browse S3 buckets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	s3Cmd.AddCommand(&cobra.Command{
		Use:   "buckets",
		Short: "List buckets",
		Args:  cobra.NoArgs,
		RunE:  runS3Buckets,
	}, &cobra.Command{
		Use:     "ls BUCKET [FOLDER]",
		Short:   "List the files and folders of a bucket",
		Example: "awskit s3 ls logs emr/2019/",
		Args:    cobra.RangeArgs(1, 2),
		RunE:    runS3List,
	})
	root.AddCommand(s3Cmd)
}

func runS3Buckets(cmd *cobra.Command, args []string) error {
	client, err := s3.NewClient(logger, awsOpts, provider)
	if err != nil {
		return err
	}
	buckets, err := client.ListBuckets(rootCtx)
	if err != nil {
		return err
	}
	return printJSON(buckets)
}

func runS3List(cmd *cobra.Command, args []string) error {
	client, err := s3.NewClient(logger, awsOpts, provider)
	if err != nil {
		return err
	}
	var folder string
	if len(args) > 1 {
		folder = args[1]
	}
	listing, err := client.ListObjects(rootCtx, args[0], folder)
	if err != nil {
		return err
	}
	return printJSON(listing)
}
