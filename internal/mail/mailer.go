package mail

import (
	"crypto/tls"
	"fmt"
	"net/mail"
	"net/url"

	"github.com/dajohi/goemail"
)

// Mailer sends transactional email. Delivery is best-effort; callers
// persist their own state before firing a send.
type Mailer interface {
	// IsEnabled determines if the smtp client is enabled or not.
	IsEnabled() bool

	// SendPasswordReset sends the reset-password email. resetURL
	// already carries the token as a query parameter.
	SendPasswordReset(toEmail, username, resetURL string) error
}

// client provides an SMTP client for sending emails from a preset
// email address.
//
// client implements the Mailer interface.
type client struct {
	smtp        *goemail.SMTP
	mailName    string
	mailAddress string
	disabled    bool
}

var _ Mailer = (*client)(nil)

// IsEnabled returns whether the mail client is enabled.
func (c *client) IsEnabled() bool {
	return !c.disabled
}

// SendPasswordReset sends the reset-password email to a single recipient.
func (c *client) SendPasswordReset(toEmail, username, resetURL string) error {
	if c.disabled {
		return nil
	}

	subject := "RPGTableMaker: password recovery"
	body := fmt.Sprintf(passwordResetTemplate, username, resetURL, resetURL)

	msg := goemail.NewHTMLMessage(c.mailAddress, subject, body)
	msg.SetName(c.mailName)
	msg.AddTo(toEmail)

	return c.smtp.Send(msg)
}

const passwordResetTemplate = `
<p>Hello, %s!</p>
<p>Click the link below to reset your password. The link is valid for two hours.</p>
<p><a href="%s">%s</a></p>
<p>If you did not ask for a password reset, you can safely ignore this email.</p>
`

// NewClient returns a new SMTP-backed Mailer. Email is considered
// disabled when any of the required credentials are missing, in which
// case sends are silently skipped.
func NewClient(host, smtpUser, password, fromAddress, fromName string, skipVerify bool) (Mailer, error) {
	if host == "" || smtpUser == "" || password == "" {
		return &client{disabled: true}, nil
	}

	h := fmt.Sprintf("smtps://%v:%v@%v", smtpUser, password, host)
	u, err := url.Parse(h)
	if err != nil {
		return nil, err
	}

	a, err := mail.ParseAddress(fromAddress)
	if err != nil {
		return nil, err
	}

	tlsConfig := &tls.Config{
		InsecureSkipVerify: skipVerify,
	}

	smtp, err := goemail.NewSMTP(u.String(), tlsConfig)
	if err != nil {
		return nil, err
	}

	return &client{
		smtp:        smtp,
		mailName:    fromName,
		mailAddress: a.Address,
	}, nil
}
