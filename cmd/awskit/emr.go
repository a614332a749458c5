package main

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/cloudops-tools/awskit/pkg/emr"
)

var (
	clustersDay    string
	clustersToday  bool
	clustersAfter  string
	clustersBefore string
	fullDetail     bool
	rawSteps       bool
)

func addEMRCommands(root *cobra.Command) {
	clustersCmd := &cobra.Command{
		Use:     "clusters",
		Short:   "List EMR clusters, leaving out the ones terminated by a user",
		Example: "awskit clusters --day 2019-03-04 --full",
		Args:    cobra.NoArgs,
		RunE:    runClusters,
	}
	clustersCmd.Flags().StringVar(&clustersDay, "day", "", "list the clusters created on this day (YYYY-MM-DD)")
	clustersCmd.Flags().BoolVar(&clustersToday, "today", false, "list the clusters created today")
	clustersCmd.Flags().StringVar(&clustersAfter, "after", "", "only clusters created after this time (RFC3339 or YYYY-MM-DD)")
	clustersCmd.Flags().StringVar(&clustersBefore, "before", "", "only clusters created before this time (RFC3339 or YYYY-MM-DD)")
	clustersCmd.Flags().BoolVar(&fullDetail, "full", false, "include the steps of every cluster")

	clusterCmd := &cobra.Command{
		Use:   "cluster ID",
		Short: "Describe one EMR cluster",
		Args:  cobra.ExactArgs(1),
		RunE:  runCluster,
	}
	clusterCmd.Flags().BoolVar(&fullDetail, "full", false, "include the cluster's steps")

	stepsCmd := &cobra.Command{
		Use:   "steps ID",
		Short: "List the steps of an EMR cluster",
		Args:  cobra.ExactArgs(1),
		RunE:  runSteps,
	}
	stepsCmd.Flags().BoolVar(&rawSteps, "raw", false, "dump the step records as returned by EMR")

	root.AddCommand(clustersCmd, clusterCmd, stepsCmd)
}

func newAggregator() (*emr.Aggregator, error) {
	return emr.NewClient(logger, awsOpts, provider)
}

func runClusters(cmd *cobra.Command, args []string) error {
	agg, err := newAggregator()
	if err != nil {
		return err
	}
	ctx := rootCtx

	var clusters []emr.ClusterSummary
	switch {
	case clustersToday:
		clusters, err = agg.ListClustersForToday(ctx, fullDetail)
	case clustersDay != "":
		day, perr := parseDay(clustersDay)
		if perr != nil {
			return perr
		}
		clusters, err = agg.ListClustersForDay(ctx, day, fullDetail)
	default:
		after, perr := parseTime(clustersAfter)
		if perr != nil {
			return perr
		}
		before, perr := parseTime(clustersBefore)
		if perr != nil {
			return perr
		}
		clusters, err = agg.ListClusters(ctx, fullDetail, after, before)
	}
	if err != nil {
		return err
	}
	return printJSON(clusters)
}

func runCluster(cmd *cobra.Command, args []string) error {
	agg, err := newAggregator()
	if err != nil {
		return err
	}
	cluster, err := agg.GetClusterDetail(rootCtx, args[0], fullDetail)
	if err != nil {
		return err
	}
	return printJSON(cluster)
}

func runSteps(cmd *cobra.Command, args []string) error {
	agg, err := newAggregator()
	if err != nil {
		return err
	}
	if rawSteps {
		steps, err := agg.ListRawSteps(rootCtx, args[0])
		if err != nil {
			return err
		}
		spew.Fdump(stdout, steps)
		return nil
	}
	steps, err := agg.ListSteps(rootCtx, args[0])
	if err != nil {
		return err
	}
	return printJSON(steps)
}
