package emr

import (
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/emr"
	"github.com/pkg/errors"
)

// FormatCluster maps a described cluster onto a ClusterSummary. Steps is left
// empty.
func FormatCluster(raw *emr.Cluster) (ClusterSummary, error) {
	if raw == nil {
		return ClusterSummary{}, errors.Wrap(ErrSchemaMismatch, "cluster record is empty")
	}
	if raw.Id == nil {
		return ClusterSummary{}, errors.Wrap(ErrSchemaMismatch, "cluster is missing Id")
	}
	id := aws.StringValue(raw.Id)
	if raw.Name == nil {
		return ClusterSummary{}, errors.Wrapf(ErrSchemaMismatch, "cluster %s is missing Name", id)
	}
	if raw.Status == nil || raw.Status.State == nil {
		return ClusterSummary{}, errors.Wrapf(ErrSchemaMismatch, "cluster %s is missing Status.State", id)
	}

	cluster := ClusterSummary{
		ID:        id,
		Name:      aws.StringValue(raw.Name),
		PublicDNS: aws.StringValue(raw.MasterPublicDnsName),
		Status: ClusterStatus{
			Name: aws.StringValue(raw.Status.State),
		},
		Steps: []StepSummary{},
	}
	if reason := raw.Status.StateChangeReason; reason != nil {
		cluster.Status.Code = aws.StringValue(reason.Code)
		cluster.Status.Reason = aws.StringValue(reason.Message)
	}
	if timeline := raw.Status.Timeline; timeline != nil {
		cluster.StartDateTime = copyTime(timeline.ReadyDateTime)
		cluster.EndDateTime = copyTime(timeline.EndDateTime)
	}
	return cluster, nil
}

// FormatStep maps a step record onto a StepSummary. A pending step has no
// start time and a running step has no end time. Completed and failed steps
// must carry both. A cancelled step carries whichever times EMR recorded.
func FormatStep(raw *emr.StepSummary) (StepSummary, error) {
	if raw == nil {
		return StepSummary{}, errors.Wrap(ErrSchemaMismatch, "step record is empty")
	}
	if raw.Id == nil {
		return StepSummary{}, errors.Wrap(ErrSchemaMismatch, "step is missing Id")
	}
	id := aws.StringValue(raw.Id)
	if raw.Name == nil {
		return StepSummary{}, errors.Wrapf(ErrSchemaMismatch, "step %s is missing Name", id)
	}
	if raw.Status == nil || raw.Status.State == nil {
		return StepSummary{}, errors.Wrapf(ErrSchemaMismatch, "step %s is missing Status.State", id)
	}
	if raw.Config == nil {
		return StepSummary{}, errors.Wrapf(ErrSchemaMismatch, "step %s is missing Config", id)
	}

	state := StepState(aws.StringValue(raw.Status.State))
	step := StepSummary{
		ID:     id,
		Name:   aws.StringValue(raw.Name),
		Status: state,
		Args:   aws.StringValueSlice(raw.Config.Args),
	}

	timeline := raw.Status.Timeline
	if timeline == nil {
		timeline = &emr.StepTimeline{}
	}
	switch state {
	case StepPending:
		// EMR leaves EndDateTime unset on steps that are still queued, so it is
		// copied when present and never required.
		step.EndDateTime = copyTime(timeline.EndDateTime)
	case StepCancelled:
		// steps queued behind a failed step are cancelled before they start
		step.StartDateTime = copyTime(timeline.StartDateTime)
		step.EndDateTime = copyTime(timeline.EndDateTime)
	case StepRunning:
		if timeline.StartDateTime == nil {
			return StepSummary{}, errors.Wrapf(ErrSchemaMismatch, "%s step %s is missing Status.Timeline.StartDateTime", state, id)
		}
		step.StartDateTime = copyTime(timeline.StartDateTime)
	default:
		if timeline.StartDateTime == nil {
			return StepSummary{}, errors.Wrapf(ErrSchemaMismatch, "%s step %s is missing Status.Timeline.StartDateTime", state, id)
		}
		if timeline.EndDateTime == nil {
			return StepSummary{}, errors.Wrapf(ErrSchemaMismatch, "%s step %s is missing Status.Timeline.EndDateTime", state, id)
		}
		step.StartDateTime = copyTime(timeline.StartDateTime)
		step.EndDateTime = copyTime(timeline.EndDateTime)
	}
	return step, nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
