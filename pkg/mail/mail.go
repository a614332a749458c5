package mail

import (
	"bytes"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/cloudops-tools/awskit/pkg/config"
)

// Format is the MIME subtype of a message body.
type Format string

const (
	FormatPlain Format = "plain"
	FormatHTML  Format = "html"
)

var ErrNoRecipients = errors.New("no mail recipients given or configured")

// SendFunc delivers one message. smtp.SendMail is used unless overridden; it
// upgrades the connection with STARTTLS when the server offers it.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Settings locate the SMTP server and address the messages. Empty fields are
// resolved from the mail section of the configuration.
type Settings struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
	To       []string
}

type Mailer struct {
	logger   logrus.FieldLogger
	settings Settings
	send     SendFunc
}

// New resolves overrides against the provider. With a nil provider the
// overrides are used as given.
func New(logger logrus.FieldLogger, overrides Settings, provider config.Provider) (*Mailer, error) {
	s := overrides
	if provider != nil {
		err := config.Resolve(provider,
			config.Override{Value: &s.Host, FromConfig: func(c *config.Config) string { return c.Mail.Host }},
			config.Override{Value: &s.Port, FromConfig: func(c *config.Config) string {
				if c.Mail.Port == 0 {
					return ""
				}
				return strconv.Itoa(c.Mail.Port)
			}},
			config.Override{Value: &s.User, FromConfig: func(c *config.Config) string { return c.Mail.User }},
			config.Override{Value: &s.Password, FromConfig: func(c *config.Config) string { return c.Mail.Password }},
			config.Override{Value: &s.From, FromConfig: func(c *config.Config) string { return c.Mail.From }},
		)
		if err != nil {
			return nil, err
		}
		if len(s.To) == 0 {
			cfg, err := provider.Config()
			if err != nil {
				return nil, errors.Wrap(err, "unable to resolve mail recipients")
			}
			s.To = cfg.Mail.Addresses()
		}
	}
	if s.Host == "" || s.From == "" {
		return nil, errors.New("an SMTP host and sender address must be provided or configured")
	}
	if s.Port == "" {
		s.Port = "25"
	}
	if len(s.To) == 0 {
		return nil, ErrNoRecipients
	}
	return &Mailer{
		logger:   logger,
		settings: s,
		send:     smtp.SendMail,
	}, nil
}

// WithSendFunc replaces the delivery function.
func (m *Mailer) WithSendFunc(send SendFunc) *Mailer {
	m.send = send
	return m
}

func (m *Mailer) Recipients() []string {
	return m.settings.To
}

// Send delivers the message to every recipient, one message each. It stops at
// the first recipient that fails.
func (m *Mailer) Send(subject, body string, format Format) error {
	if format == "" {
		format = FormatPlain
	}
	if format != FormatPlain && format != FormatHTML {
		return errors.Errorf("unsupported mail format %q", format)
	}

	var auth smtp.Auth
	if m.settings.User != "" {
		auth = smtp.PlainAuth("", m.settings.User, m.settings.Password, m.settings.Host)
	}
	addr := net.JoinHostPort(m.settings.Host, m.settings.Port)

	for _, to := range m.settings.To {
		m.logger.WithField("to", to).Debugf("sending mail %q", subject)
		msg := compose(m.settings.From, to, subject, body, format)
		if err := m.send(addr, auth, m.settings.From, []string{to}, msg); err != nil {
			return errors.Wrapf(err, "could not send mail to %s", to)
		}
	}
	return nil
}

func compose(from, to, subject, body string, format Format) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: text/%s; charset=\"utf-8\"\r\n", format)
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.Bytes()
}
