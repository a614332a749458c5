package emr

import (
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when the directory has no cluster with the
	// requested id.
	ErrNotFound = errors.New("cluster not found")

	// ErrSchemaMismatch is returned when a directory record lacks a field the
	// normalized view depends on.
	ErrSchemaMismatch = errors.New("cluster record does not match the expected schema")
)

const (
	// ReasonUserRequest marks clusters terminated manually by an operator.
	ReasonUserRequest = "USER_REQUEST"
	// ReasonStepFailure marks clusters that stopped because a step failed.
	ReasonStepFailure = "STEP_FAILURE"
)

// StepState is the lifecycle state of a cluster step.
type StepState string

const (
	StepPending   StepState = "PENDING"
	StepRunning   StepState = "RUNNING"
	StepCompleted StepState = "COMPLETED"
	StepFailed    StepState = "FAILED"
	StepCancelled StepState = "CANCELLED"
)

type ClusterStatus struct {
	Name   string `json:"name"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// ClusterSummary is the normalized view of a cluster. StartDateTime is nil
// until the cluster is ready and EndDateTime is nil while it is running.
type ClusterSummary struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	PublicDNS     string        `json:"publicDNS"`
	Status        ClusterStatus `json:"status"`
	StartDateTime *time.Time    `json:"startDateTime"`
	EndDateTime   *time.Time    `json:"endDateTime"`
	Steps         []StepSummary `json:"steps"`
}

// StepSummary is the normalized view of a step. StartDateTime is nil for
// pending steps and EndDateTime is nil for running steps.
type StepSummary struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Status        StepState  `json:"status"`
	StartDateTime *time.Time `json:"startDateTime"`
	EndDateTime   *time.Time `json:"endDateTime"`
	Args          []string   `json:"args"`
}

type ProcessResult string

const (
	ProcessFail    ProcessResult = "FAIL"
	ProcessSuccess ProcessResult = "SUCCESS"
)

// FailureReport describes the outcome of a list of steps. Details is only set
// when ProcessResult is ProcessFail.
type FailureReport struct {
	ProcessResult ProcessResult   `json:"processResult"`
	Details       *FailureDetails `json:"details,omitempty"`
}

type FailureDetails struct {
	ID            string     `json:"id"`
	StepName      string     `json:"stepName"`
	StartDateTime *time.Time `json:"startDateTime"`
	FailDateTime  *time.Time `json:"failDateTime"`
}
