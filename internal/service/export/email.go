package export

import (
	"bytes"
	"html/template"
)

// DefaultEmailMessage is used when the sender leaves the message empty
const DefaultEmailMessage = "Please find the attached document."

var emailBody = template.Must(template.New("email").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Document Attached</h2>
  <p style="color: #666; line-height: 1.6;">
    {{.Message}}
  </p>
  <p style="color: #666; line-height: 1.6;">
    The document is attached as a PDF file. You can:
  </p>
  <ul style="color: #666; line-height: 1.6;">
    <li>Open it directly in your PDF viewer</li>
    <li>Print it for your records</li>
    <li>Save it on your device</li>
  </ul>
  <p style="color: #999; font-size: 12px; margin-top: 30px; border-top: 1px solid #eee; padding-top: 10px;">
    This email was sent from ReqGen Document Management System
  </p>
</div>
`))

// renderEmailBody fills the email template. The message is HTML-escaped.
func renderEmailBody(message string) (string, error) {
	var buf bytes.Buffer
	if err := emailBody.Execute(&buf, struct{ Message string }{message}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
