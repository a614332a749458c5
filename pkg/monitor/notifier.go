package monitor

import (
	"bytes"
	"context"
	"text/template"
	"time"

	"github.com/Masterminds/sprig"
	"github.com/pkg/errors"

	"github.com/cloudops-tools/awskit/pkg/mail"
)

//go:generate mockgen -destination=mock/notifier.go -package=mock github.com/cloudops-tools/awskit/pkg/monitor Notifier,MetricPublisher

// Notifier delivers a failure notification. *mail.Mailer implements it.
type Notifier interface {
	Send(subject, body string, format mail.Format) error
}

// MetricPublisher publishes a single datapoint. *cloudwatch.Client
// implements it.
type MetricPublisher interface {
	PutMetric(ctx context.Context, namespace, name string, value float64, dimensions map[string]string) error
}

const DefaultSubjectTemplate = `[EMR] step failure on {{ .Cluster.Name }} ({{ .Day }})`

const DefaultBodyTemplate = `Cluster {{ .Cluster.Name }} ({{ .Cluster.ID }}) stopped with {{ .Cluster.Status.Code | default "UNKNOWN" }}.
State:  {{ .Cluster.Status.Name }}
Reason: {{ .Cluster.Status.Reason | default "no reason given" }}
Started: {{ timestamp .Cluster.StartDateTime }}
Ended:   {{ timestamp .Cluster.EndDateTime }}
{{- with .Report.Details }}

Failed step {{ .StepName | quote }} ({{ .ID }})
Started: {{ timestamp .StartDateTime }}
Failed:  {{ timestamp .FailDateTime }}
{{- end }}
{{- if .Cluster.Steps }}

Steps:
{{- range .Cluster.Steps }}
  {{ .Status | toString | upper | printf "%-9s" }} {{ .Name }}
{{- end }}
{{- end }}
`

func timestamp(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05 MST")
}

// Templates render the subject and body of failure notifications.
type Templates struct {
	subject *template.Template
	body    *template.Template
}

// NewTemplates parses the subject and body templates. Empty strings select the
// defaults.
func NewTemplates(subject, body string) (*Templates, error) {
	if subject == "" {
		subject = DefaultSubjectTemplate
	}
	if body == "" {
		body = DefaultBodyTemplate
	}
	subjectTmpl, err := newTemplate("subject", subject)
	if err != nil {
		return nil, err
	}
	bodyTmpl, err := newTemplate("body", body)
	if err != nil {
		return nil, err
	}
	return &Templates{subject: subjectTmpl, body: bodyTmpl}, nil
}

func newTemplate(name, text string) (*template.Template, error) {
	funcs := template.FuncMap{
		"timestamp": timestamp,
	}
	tmpl, err := template.New(name).Funcs(sprig.TxtFuncMap()).Funcs(funcs).Parse(text)
	if err != nil {
		return nil, errors.Wrapf(err, "error parsing %s template", name)
	}
	return tmpl, nil
}

// Render returns the subject and body for result.
func (t *Templates) Render(result *Result) (string, string, error) {
	subject, err := render(t.subject, result)
	if err != nil {
		return "", "", err
	}
	body, err := render(t.body, result)
	if err != nil {
		return "", "", err
	}
	return subject, body, nil
}

func render(tmpl *template.Template, result *Result) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, result); err != nil {
		return "", errors.Wrapf(err, "error executing %s template", tmpl.Name())
	}
	return buf.String(), nil
}
