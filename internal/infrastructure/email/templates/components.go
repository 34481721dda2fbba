// Package templates provides email template components
package templates

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
)

// MenuPublishedProps carries the details for the menu-published notification.
type MenuPublishedProps struct {
	MenuTitle    string
	AppliedCount int
	FailedCount  int
	SavedAt      string
}

type menuPublishedData struct {
	MenuTitle string
	Summary   string
	SavedAt   string
}

var menuPublishedTemplate = template.Must(template.New("menuPublished").Parse(`
<h2 style="font-family: Helvetica, sans-serif; font-size: 20px; margin: 0 0 16px 0;">Menu updated</h2>
<p style="font-family: Helvetica, sans-serif; font-size: 16px; margin: 0 0 16px 0;">The menu <strong>{{.MenuTitle}}</strong> was saved from the front-end editor.</p>
<p style="font-family: Helvetica, sans-serif; font-size: 16px; margin: 0 0 16px 0;">{{.Summary}}</p>
<p style="font-family: Helvetica, sans-serif; font-size: 13px; color: #9a9ea6; margin: 0;">Saved at {{.SavedAt}}</p>`))

// GetMenuPublishedContent renders the body of the menu-published email.
func GetMenuPublishedContent(props MenuPublishedProps) string {
	summary := fmt.Sprintf("%d changes applied.", props.AppliedCount)
	if props.FailedCount > 0 {
		summary = fmt.Sprintf("%d changes applied, %d failed.", props.AppliedCount, props.FailedCount)
	}

	data := menuPublishedData{
		MenuTitle: props.MenuTitle,
		Summary:   summary,
		SavedAt:   props.SavedAt,
	}

	var buf bytes.Buffer
	if err := menuPublishedTemplate.Execute(&buf, data); err != nil {
		log.Printf("ERROR: Failed to render menu published email: %v", err)
		return summary
	}
	return buf.String()
}
