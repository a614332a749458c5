package emr

import (
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/emr"
)

func ts(hour, min int) time.Time {
	return time.Date(2024, time.March, 5, hour, min, 0, 0, time.UTC)
}

func tsPtr(hour, min int) *time.Time {
	t := ts(hour, min)
	return &t
}

func listedCluster(id, code string) *emr.ClusterSummary {
	c := &emr.ClusterSummary{
		Id:     aws.String(id),
		Status: &emr.ClusterStatus{State: aws.String(emr.ClusterStateTerminated)},
	}
	if code != "" {
		c.Status.StateChangeReason = &emr.ClusterStateChangeReason{Code: aws.String(code)}
	}
	return c
}

func describedCluster(id, state, code string, ready, end *time.Time) *emr.Cluster {
	return &emr.Cluster{
		Id:                  aws.String(id),
		Name:                aws.String("nightly-" + id),
		MasterPublicDnsName: aws.String("ec2-" + id + ".compute.amazonaws.com"),
		Status: &emr.ClusterStatus{
			State: aws.String(state),
			StateChangeReason: &emr.ClusterStateChangeReason{
				Code:    aws.String(code),
				Message: aws.String("reason for " + id),
			},
			Timeline: &emr.ClusterTimeline{
				ReadyDateTime: ready,
				EndDateTime:   end,
			},
		},
	}
}

func rawStep(id string, state StepState, start, end *time.Time, args ...string) *emr.StepSummary {
	return &emr.StepSummary{
		Id:     aws.String(id),
		Name:   aws.String("step " + id),
		Config: &emr.HadoopStepConfig{Args: aws.StringSlice(args)},
		Status: &emr.StepStatus{
			State: aws.String(string(state)),
			Timeline: &emr.StepTimeline{
				StartDateTime: start,
				EndDateTime:   end,
			},
		},
	}
}
