package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// Email templates.
const (
	TemplateWelcome       = "welcome"
	TemplatePasswordReset = "password_reset"
)

var welcomeTemplate = template.Must(template.New("welcome").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #1a5276;">Welcome to the {{.SchoolName}} Digital Library</h2>
  <p>Hello {{.Name}},</p>
  <p>Your library account has been created. You can now browse e-books,
  videos and study material for your class.</p>
  <p>
    <a href="{{.LibraryURL}}" style="background: #1a5276; color: #fff; padding: 10px 20px; text-decoration: none; border-radius: 4px;">
      Open the library
    </a>
  </p>
  <p>Happy reading!</p>
</div>
`))

var passwordResetTemplate = template.Must(template.New("password_reset").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #1a5276;">Password Reset Request</h2>
  <p>Hello {{.Name}},</p>
  <p>We received a request to reset your library account password. Click the
  button below to choose a new one. The link is valid for 1 hour.</p>
  <p>
    <a href="{{.ResetURL}}" style="background: #1a5276; color: #fff; padding: 10px 20px; text-decoration: none; border-radius: 4px;">
      Reset password
    </a>
  </p>
  <p>If you did not request this, you can safely ignore this email.</p>
</div>
`))

type templateData struct {
	Name       string
	SchoolName string
	LibraryURL string
	ResetURL   string
}

// RenderTemplate produces the subject and HTML body for a template name.
func RenderTemplate(name string, data templateData) (subject, body string, err error) {
	var buf bytes.Buffer

	switch name {
	case TemplateWelcome:
		if err := welcomeTemplate.Execute(&buf, data); err != nil {
			return "", "", fmt.Errorf("failed to render welcome template: %w", err)
		}
		return fmt.Sprintf("Welcome to the %s Digital Library", data.SchoolName), buf.String(), nil
	case TemplatePasswordReset:
		if err := passwordResetTemplate.Execute(&buf, data); err != nil {
			return "", "", fmt.Errorf("failed to render password reset template: %w", err)
		}
		return "Password Reset Request", buf.String(), nil
	default:
		return "", "", fmt.Errorf("unknown email template: %s", name)
	}
}
