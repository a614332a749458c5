package main

import (
	sdkkinesis "github.com/aws/aws-sdk-go/service/kinesis"
	"github.com/spf13/cobra"

	awsclient "github.com/cloudops-tools/awskit/pkg/aws"
	"github.com/cloudops-tools/awskit/pkg/kinesis"
)

var (
	allShards    bool
	partitionKey string
)

func addKinesisCommands(root *cobra.Command) {
	kinesisCmd := &cobra.Command{
		Use:   "kinesis",
		Short: "Inspect Kinesis streams",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	shardsCmd := &cobra.Command{
		Use:   "shards [STREAM]",
		Short: "List the open shards of a stream, defaults to aws.kinesis.stream_name",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runKinesisShards,
	}
	shardsCmd.Flags().BoolVar(&allShards, "all", false, "include shards closed by a split or merge")

	putCmd := &cobra.Command{
		Use:   "put STREAM DATA",
		Short: "Put a single record on a stream",
		Args:  cobra.ExactArgs(2),
		RunE:  runKinesisPut,
	}
	putCmd.Flags().StringVar(&partitionKey, "partition-key", "", "partition key of the record, random when empty")

	kinesisCmd.AddCommand(shardsCmd, putCmd, &cobra.Command{
		Use:   "streams",
		Short: "List streams",
		Args:  cobra.NoArgs,
		RunE:  runKinesisStreams,
	})
	root.AddCommand(kinesisCmd)
}

func newKinesisClient(stream string) (*kinesis.Client, error) {
	return kinesis.NewClient(logger, awsOpts, stream, provider)
}

func runKinesisShards(cmd *cobra.Command, args []string) error {
	var stream string
	if len(args) > 0 {
		stream = args[0]
	}
	client, err := newKinesisClient(stream)
	if err != nil {
		return err
	}
	shards, err := client.ListShards(rootCtx, "", !allShards)
	if err != nil {
		return err
	}
	return printJSON(shards)
}

func runKinesisStreams(cmd *cobra.Command, args []string) error {
	sess, err := awsclient.Connect(awsOpts, provider)
	if err != nil {
		return err
	}
	client := kinesis.New(logger, sdkkinesis.New(sess), "")
	streams, err := client.ListStreams(rootCtx)
	if err != nil {
		return err
	}
	return printJSON(streams)
}

func runKinesisPut(cmd *cobra.Command, args []string) error {
	client, err := newKinesisClient(args[0])
	if err != nil {
		return err
	}
	out, err := client.PutRecord(rootCtx, []byte(args[1]), "", partitionKey)
	if err != nil {
		return err
	}
	return printJSON(out)
}
