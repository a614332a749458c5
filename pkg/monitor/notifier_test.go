package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudops-tools/awskit/pkg/emr"
)

func TestRenderDefaultTemplates(t *testing.T) {
	templates, err := NewTemplates("", "")
	require.NoError(t, err)

	cluster := failedCluster()
	cluster.EndDateTime = nil
	result := &Result{
		Day:      "2019-03-04",
		Cluster:  &cluster,
		HasError: true,
		Report:   emr.FindFailedStep(cluster.Steps),
	}

	subject, body, err := templates.Render(result)
	require.NoError(t, err)
	assert.Equal(t, "[EMR] step failure on nightly-etl (2019-03-04)", subject)
	assert.Contains(t, body, "Cluster nightly-etl (j-FAILED) stopped with STEP_FAILURE.")
	assert.Contains(t, body, "Started: 2019-03-04 01:00:00 UTC")
	assert.Contains(t, body, "Ended:   -")
	assert.Contains(t, body, "Failed:  2019-03-04 01:50:00 UTC")
	assert.Contains(t, body, "  FAILED    transform")
	assert.Contains(t, body, "  COMPLETED extract")
}

func TestRenderCustomTemplate(t *testing.T) {
	templates, err := NewTemplates(`{{ .Cluster.ID | lower }}`, `{{ .Report.ProcessResult | lower | title }}`)
	require.NoError(t, err)

	cluster := failedCluster()
	subject, body, err := templates.Render(&Result{Cluster: &cluster, Report: emr.FindFailedStep(cluster.Steps)})
	require.NoError(t, err)
	assert.Equal(t, "j-failed", subject)
	assert.Equal(t, "Fail", body)
}

func TestNewTemplatesRejectsInvalidSyntax(t *testing.T) {
	_, err := NewTemplates("{{ .Cluster.Name ", "")
	assert.Error(t, err)
}
