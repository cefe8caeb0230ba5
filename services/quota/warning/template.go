package warning

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/opengovern/linkhub/services/quota/db/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

var quotaWarningTemplate = template.Must(template.ParseFS(templatesFS, "templates/quota_warning.html"))

type mailData struct {
	Username    string
	ActionLabel string
	Used        int64
	Limit       int64
	ResetAt     string
	AppURL      string
}

func actionLabel(action model.ActionType) string {
	switch action {
	case model.ActionCreateRequest:
		return "requests"
	case model.ActionCreateOffer:
		return "offers"
	}
	return action.String()
}

func subject(data mailData) string {
	return fmt.Sprintf("You have used %d of %d %s this month", data.Used, data.Limit, data.ActionLabel)
}

func renderBody(data mailData) (string, error) {
	var buf bytes.Buffer
	if err := quotaWarningTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render quota warning: %w", err)
	}
	return buf.String(), nil
}
