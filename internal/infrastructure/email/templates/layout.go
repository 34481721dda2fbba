// Package templates provides email template layout
package templates

import (
	"bytes"
	"html/template"
	"log"
)

type EmailLayoutProps struct {
	Preheader string
	Content   string
}

type emailTemplateData struct {
	Preheader string
	Content   template.HTML // Mark as safe HTML to prevent escaping
}

var emailLayoutTemplate = template.Must(template.New("emailLayout").Parse(`
<!doctype html>
<html lang="en">
  <head>
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <meta http-equiv="Content-Type" content="text/html; charset=UTF-8">
    <title>MenuStack</title>
  </head>
  <body style="font-family: Helvetica, sans-serif; font-size: 16px; line-height: 1.3; background-color: #f4f5f6; margin: 0; padding: 0;">
    <span class="preheader" style="display: none; max-height: 0; overflow: hidden;">{{.Preheader}}</span>
    <table role="presentation" border="0" cellpadding="0" cellspacing="0" width="100%" style="background-color: #f4f5f6;">
      <tr>
        <td>&nbsp;</td>
        <td style="max-width: 600px; padding: 24px;">
          <table role="presentation" border="0" cellpadding="0" cellspacing="0" width="100%" style="background-color: #ffffff; border-radius: 8px; padding: 24px;">
            <tr>
              <td style="font-family: Helvetica, sans-serif; font-size: 16px;">
                {{.Content}}
              </td>
            </tr>
          </table>
          <p style="color: #9a9ea6; font-size: 13px; text-align: center; margin-top: 16px;">Sent by MenuStack</p>
        </td>
        <td>&nbsp;</td>
      </tr>
    </table>
  </body>
</html>`))

// GetEmailLayout wraps rendered content in the shared email shell.
func GetEmailLayout(props EmailLayoutProps) string {
	data := emailTemplateData{
		Preheader: props.Preheader,
		Content:   template.HTML(props.Content),
	}

	var buf bytes.Buffer
	if err := emailLayoutTemplate.Execute(&buf, data); err != nil {
		log.Printf("ERROR: Failed to render email layout: %v", err)
		return props.Content
	}
	return buf.String()
}
