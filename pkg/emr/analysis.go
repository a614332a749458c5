package emr

// MostRecentCluster picks the cluster with the earliest StartDateTime.
//
// Despite its name the comparison selects the minimum, which is the behaviour
// existing callers rely on. Clusters that are not ready yet (no start time)
// only win when no candidate has a start time. Returns nil for an empty list.
func MostRecentCluster(clusters []ClusterSummary) *ClusterSummary {
	var selected *ClusterSummary
	for i := range clusters {
		cluster := &clusters[i]
		if selected == nil {
			selected = cluster
			continue
		}
		if cluster.StartDateTime == nil {
			continue
		}
		if selected.StartDateTime == nil || cluster.StartDateTime.Before(*selected.StartDateTime) {
			selected = cluster
		}
	}
	if selected == nil {
		return nil
	}
	c := *selected
	return &c
}

// ClusterHasError reports whether the cluster stopped because of a failed step.
func ClusterHasError(cluster ClusterSummary) bool {
	return cluster.Status.Code == ReasonStepFailure
}

// FindFailedStep inspects every step. When several steps failed the report
// carries the last one in list order.
func FindFailedStep(steps []StepSummary) FailureReport {
	report := FailureReport{ProcessResult: ProcessSuccess}
	for _, step := range steps {
		if step.Status != StepFailed {
			continue
		}
		report.ProcessResult = ProcessFail
		report.Details = &FailureDetails{
			ID:            step.ID,
			StepName:      step.Name,
			StartDateTime: step.StartDateTime,
			FailDateTime:  step.EndDateTime,
		}
	}
	return report
}
