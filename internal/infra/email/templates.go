package email

import (
	"bytes"
	"html/template"
)

var templates = template.Must(template.New("email").Parse(`
{{define "order_created"}}<p>Hi {{.Name}},</p>
<p>Thanks for your {{.Kind}} poem order. Once payment of {{.Amount}} {{.Currency}} is confirmed, expect it within {{.Hours}} hours.</p>
<p>Track it any time: <a href="{{.TrackURL}}">{{.TrackURL}}</a></p>{{end}}

{{define "payment_confirmed"}}<p>Hi {{.Name}},</p>
<p>We received your payment of {{.Amount}} {{.Currency}}. Your poem is due by {{.Due}}.</p>
<p>Track it: <a href="{{.TrackURL}}">{{.TrackURL}}</a></p>{{end}}

{{define "poem_delivered"}}<p>Hi {{.Name}},</p>
<p>Your poem{{if .Title}} "{{.Title}}"{{end}} is ready.</p>
<pre style="font-family: Georgia, serif; white-space: pre-wrap">{{.Poem}}</pre>
<p>Leave a testimonial: <a href="{{.TrackURL}}">{{.TrackURL}}</a></p>{{end}}

{{define "admin_paid"}}<p>New paid {{.Kind}} order {{.OrderID}}: {{.Amount}} {{.Currency}}, due {{.Due}}.</p>
{{if .Title}}<p>Title: {{.Title}}</p>{{end}}{{if .Mood}}<p>Mood: {{.Mood}}</p>{{end}}{{if .Instructions}}<p>Instructions: {{.Instructions}}</p>{{end}}{{end}}
`))

// TemplateData feeds every template; each one uses the fields it needs.
type TemplateData struct {
	OrderID      string
	Name         string
	Kind         string
	Amount       string
	Currency     string
	Hours        int
	Due          string
	Title        string
	Mood         string
	Instructions string
	Poem         string
	TrackURL     string
}

func Render(name string, data TemplateData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
