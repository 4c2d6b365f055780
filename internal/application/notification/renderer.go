package notification

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/promanage/backend/internal/domain/notification"
)

// KindWelcome is an email-only kind rendered through the generic layout.
// It never appears as an in-app notification row.
const KindWelcome notification.Type = "welcome"

// EmailData is the flat payload the templates interpolate. All string
// fields pass through html/template, so titles, descriptions and names
// are escaped before they reach the outbound body.
type EmailData struct {
	RecipientName   string
	TaskTitle       string
	TaskDescription string
	Priority        string
	DeadlineText    string
	ProjectName     string
	ManagerName     string
	EmployeeName    string
	DueText         string
	Digest          *Digest
	Subject         string
	Message         string
	Link            string
}

const layoutTmpl = `<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background-color:#f4f5f7;font-family:Arial,Helvetica,sans-serif;">
<div style="max-width:600px;margin:24px auto;background:#ffffff;border-radius:8px;overflow:hidden;">
<div style="background:#4f46e5;padding:20px 24px;">
<h2 style="margin:0;color:#ffffff;">ProManage+</h2>
</div>
<div style="padding:24px;color:#333333;line-height:1.5;">
{{block "body" .}}{{end}}
{{if .Link}}<p style="margin-top:24px;"><a href="{{.Link}}" style="background:#4f46e5;color:#ffffff;padding:10px 18px;border-radius:6px;text-decoration:none;">Open in ProManage+</a></p>{{end}}
</div>
<div style="padding:16px 24px;background:#f4f5f7;color:#888888;font-size:12px;">
You are receiving this email because of your ProManage+ notification settings.
</div>
</div>
</body>
</html>`

const taskAssignedBody = `{{define "body"}}
<p>Hi {{.RecipientName}},</p>
<p>{{.ManagerName}} assigned you a new task in <strong>{{.ProjectName}}</strong>:</p>
<h3 style="margin:16px 0 4px;">{{.TaskTitle}}</h3>
{{if .TaskDescription}}<p style="color:#555555;">{{.TaskDescription}}</p>{{end}}
<p>Priority: <strong>{{.Priority}}</strong>{{if .DeadlineText}} &middot; Due: <strong>{{.DeadlineText}}</strong>{{end}}</p>
{{end}}`

const taskCompletedBody = `{{define "body"}}
<p>Hi {{.RecipientName}},</p>
<p>{{.EmployeeName}} completed the task <strong>{{.TaskTitle}}</strong>{{if .ProjectName}} in <strong>{{.ProjectName}}</strong>{{end}}.</p>
{{end}}`

const deadlineReminderBody = `{{define "body"}}
<p>Hi {{.RecipientName}},</p>
<p>Your task <strong>{{.TaskTitle}}</strong>{{if .ProjectName}} in <strong>{{.ProjectName}}</strong>{{end}} is due <strong>{{.DueText}}</strong>{{if .DeadlineText}} ({{.DeadlineText}}){{end}}.</p>
{{end}}`

const dailyDigestBody = `{{define "body"}}
<p>Hi {{.RecipientName}}, here is your daily summary:</p>
{{with .Digest}}
<table style="width:100%;border-collapse:collapse;margin:16px 0;">
<tr>
<td style="padding:12px;text-align:center;background:#eef2ff;border-radius:6px;"><strong>{{.Total}}</strong><br>Total</td>
<td style="padding:12px;text-align:center;background:#fef9c3;border-radius:6px;"><strong>{{.Pending}}</strong><br>Pending</td>
<td style="padding:12px;text-align:center;background:#dcfce7;border-radius:6px;"><strong>{{.CompletedToday}}</strong><br>Done today</td>
<td style="padding:12px;text-align:center;background:#fee2e2;border-radius:6px;"><strong>{{.Overdue}}</strong><br>Overdue</td>
</tr>
</table>
{{if .TopTasks}}
<p><strong>Coming up next:</strong></p>
<ul>
{{range .TopTasks}}<li>{{.Title}} ({{.Priority}}{{if .Deadline}}, due {{.Deadline.Format "Jan 2"}}{{end}})</li>
{{end}}</ul>
{{end}}
{{end}}
{{end}}`

const genericBody = `{{define "body"}}
<p>Hi {{.RecipientName}},</p>
<p>{{.Message}}</p>
{{end}}`

// Renderer maps a notification kind and payload to a subject and HTML
// body. Pure; safe for concurrent use after construction.
type Renderer struct {
	templates map[notification.Type]*template.Template
	generic   *template.Template
}

// NewRenderer parses the fixed template set
func NewRenderer() (*Renderer, error) {
	bodies := map[notification.Type]string{
		notification.TypeTaskAssigned:     taskAssignedBody,
		notification.TypeTaskCompleted:    taskCompletedBody,
		notification.TypeDeadlineReminder: deadlineReminderBody,
		notification.TypeDailyDigest:      dailyDigestBody,
		notification.TypeGeneric:          genericBody,
	}

	templates := make(map[notification.Type]*template.Template, len(bodies))
	for kind, body := range bodies {
		t, err := template.New(string(kind)).Parse(layoutTmpl + body)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", kind, err)
		}
		templates[kind] = t
	}

	return &Renderer{
		templates: templates,
		generic:   templates[notification.TypeGeneric],
	}, nil
}

// Render produces the subject and HTML body for one email. Unknown
// kinds fall back to the generic layout.
func (r *Renderer) Render(kind notification.Type, data EmailData) (subject, html string, err error) {
	t, known := r.templates[kind]
	if !known {
		t = r.generic
	}

	var buf strings.Builder
	if err := t.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render %s email: %w", kind, err)
	}

	return r.subjectFor(kind, data), buf.String(), nil
}

func (r *Renderer) subjectFor(kind notification.Type, data EmailData) string {
	switch kind {
	case notification.TypeTaskAssigned:
		return "New Task Assigned: " + data.TaskTitle
	case notification.TypeTaskCompleted:
		return "Task Completed: " + data.TaskTitle
	case notification.TypeDeadlineReminder:
		return fmt.Sprintf("Reminder: %s is due %s", data.TaskTitle, data.DueText)
	case notification.TypeDailyDigest:
		return "Your Daily Task Digest"
	case KindWelcome:
		if data.Subject != "" {
			return data.Subject
		}
		return "Welcome to ProManage+"
	default:
		if data.Subject != "" {
			return data.Subject
		}
		return "Notification from ProManage+"
	}
}
