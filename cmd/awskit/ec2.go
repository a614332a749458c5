package main

import (
	"github.com/spf13/cobra"

	"github.com/cloudops-tools/awskit/pkg/ec2"
)

var (
	instanceCfg   ec2.InstanceConfig
	instanceCount int64
	terminate     bool
)

func addEC2Commands(root *cobra.Command) {
	ec2Cmd := &cobra.Command{
		Use:   "ec2",
		Short: "Start and stop EC2 instances",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	startCmd := &cobra.Command{
		Use:     "start IMAGE",
		Short:   "Launch instances of an AMI",
		Example: "awskit ec2 start ami-0abc --count 2 --type m5.large",
		Args:    cobra.ExactArgs(1),
		RunE:    runEC2Start,
	}
	startCmd.Flags().Int64Var(&instanceCount, "count", 1, "number of instances to launch")
	startCmd.Flags().StringVar(&instanceCfg.InstanceType, "type", "", "instance type")
	startCmd.Flags().StringVar(&instanceCfg.KeyName, "key-name", "", "name of the key pair")
	startCmd.Flags().StringVar(&instanceCfg.SubnetID, "subnet", "", "subnet to launch into")
	startCmd.Flags().StringSliceVar(&instanceCfg.SecurityGroupIDs, "security-group", nil, "security group ids")
	startCmd.Flags().StringVar(&instanceCfg.IAMInstanceProfile, "instance-profile", "", "IAM instance profile name")
	startCmd.Flags().StringToStringVar(&instanceCfg.Tags, "tag", nil, "instance tags as key=value")

	stopCmd := &cobra.Command{
		Use:   "stop ID",
		Short: "Stop an instance",
		Args:  cobra.ExactArgs(1),
		RunE:  runEC2Stop,
	}
	stopCmd.Flags().BoolVar(&terminate, "terminate", false, "terminate the instance instead of stopping it")

	ec2Cmd.AddCommand(startCmd, stopCmd)
	root.AddCommand(ec2Cmd)
}

func runEC2Start(cmd *cobra.Command, args []string) error {
	client, err := ec2.NewClient(logger, awsOpts, provider)
	if err != nil {
		return err
	}
	instanceCfg.ImageID = args[0]
	ids, err := client.StartInstances(rootCtx, instanceCount, instanceCfg)
	if err != nil {
		return err
	}
	return printJSON(ids)
}

func runEC2Stop(cmd *cobra.Command, args []string) error {
	client, err := ec2.NewClient(logger, awsOpts, provider)
	if err != nil {
		return err
	}
	return client.StopInstance(rootCtx, args[0], terminate)
}
