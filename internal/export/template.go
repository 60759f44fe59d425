// file: internal/export/template.go
// version: 1.0.0
// guid: 8f3d1a6b-27e4-4c90-b5a1-d6e0c9f72b84

package export

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/elsayedebiad/qsr-final-sub001/internal/models"
)

// Template is the per-record visual document handed to a surface.
type Template struct {
	HTML    []byte
	BaseURL *url.URL
}

// TemplateSource produces the visual template for a record id.
type TemplateSource interface {
	Template(ctx context.Context, recordID string) (*Template, error)
}

// HTTPTemplateSource fetches templates from the detail view. Pattern must
// contain "{id}", e.g. "http://localhost:8080/cv/{id}/template".
type HTTPTemplateSource struct {
	Pattern string
	Token   string
	Client  *http.Client
}

// NewHTTPTemplateSource creates a source for pattern.
func NewHTTPTemplateSource(pattern, token string) (*HTTPTemplateSource, error) {
	if !strings.Contains(pattern, "{id}") {
		return nil, fmt.Errorf("template url %q has no {id} placeholder", pattern)
	}
	return &HTTPTemplateSource{
		Pattern: pattern,
		Token:   token,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Template implements TemplateSource.
func (s *HTTPTemplateSource) Template(ctx context.Context, recordID string) (*Template, error) {
	target := strings.ReplaceAll(s.Pattern, "{id}", url.PathEscape(recordID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html")
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch template: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch template: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResourceBytes))
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return &Template{HTML: body, BaseURL: resp.Request.URL}, nil
}

// RecordLookup resolves a record id.
type RecordLookup func(id string) (*models.CandidateRecord, bool)

// RecordTemplateSource renders a built-in card for each record.
type RecordTemplateSource struct {
	lookup    RecordLookup
	rootClass string
	tmpl      *template.Template
}

// NewRecordTemplateSource creates a source that fills the built-in card
// template from lookup.
func NewRecordTemplateSource(lookup RecordLookup, rootClass string) *RecordTemplateSource {
	if rootClass == "" {
		rootClass = DefaultSurfaceOptions().RootClass
	}
	return &RecordTemplateSource{
		lookup:    lookup,
		rootClass: rootClass,
		tmpl:      template.Must(template.New("card").Parse(cardTemplate)),
	}
}

// Template implements TemplateSource.
func (s *RecordTemplateSource) Template(_ context.Context, recordID string) (*Template, error) {
	rec, ok := s.lookup(recordID)
	if !ok {
		return nil, fmt.Errorf("record %s not found", recordID)
	}
	var buf bytes.Buffer
	if err := s.Write(&buf, rec); err != nil {
		return nil, err
	}
	return &Template{HTML: buf.Bytes()}, nil
}

// Write renders the card for rec to w.
func (s *RecordTemplateSource) Write(w io.Writer, rec *models.CandidateRecord) error {
	if err := s.tmpl.Execute(w, newCardView(rec, s.rootClass)); err != nil {
		return fmt.Errorf("render card: %w", err)
	}
	return nil
}

type cardRow struct {
	Label string
	Value string
}

type cardView struct {
	RootClass  string
	Name       string
	ArabicName string
	Reference  string
	Position   string
	Details    []cardRow
	Skills     []cardRow
	Languages  []cardRow
}

func newCardView(rec *models.CandidateRecord, rootClass string) cardView {
	v := cardView{
		RootClass:  rootClass,
		Name:       rec.DisplayName(),
		ArabicName: rec.FullNameArabic,
		Reference:  rec.ReferenceCode,
		Position:   rec.Position,
	}
	if v.Reference == "" {
		v.Reference = rec.Key()
	}

	add := func(rows *[]cardRow, label, value string) {
		if value = strings.TrimSpace(value); value != "" {
			*rows = append(*rows, cardRow{Label: label, Value: value})
		}
	}
	add(&v.Details, "Nationality", rec.Nationality)
	if rec.Age > 0 {
		add(&v.Details, "Age", fmt.Sprint(int(rec.Age)))
	}
	add(&v.Details, "Religion", rec.Religion)
	add(&v.Details, "Marital status", rec.MaritalStatus)
	if rec.NumberOfChildren != nil {
		add(&v.Details, "Children", fmt.Sprint(rec.ChildrenCount()))
	}
	add(&v.Details, "Education", rec.EducationText())
	add(&v.Details, "Experience", rec.Experience)
	add(&v.Details, "Height", rec.Height.String())
	add(&v.Details, "Weight", rec.Weight.String())
	add(&v.Details, "Living town", rec.LivingTown)
	add(&v.Details, "Place of birth", rec.PlaceOfBirth)
	add(&v.Details, "Monthly salary", rec.MonthlySalary.String())
	add(&v.Details, "Contract period", rec.ContractPeriod)
	add(&v.Details, "Passport", rec.PassportNumber)

	for _, k := range models.AllSkills {
		level, _ := rec.Skill(k)
		add(&v.Skills, string(k), string(level.OrNo()))
	}
	add(&v.Languages, "Arabic", string(rec.ArabicLevel.OrNo()))
	add(&v.Languages, "English", string(rec.EnglishLevel.OrNo()))
	return v
}

const cardTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Name}}</title></head>
<body style="margin:0">
<div class="{{.RootClass}}" style="width:800px; padding:24px; background:#ffffff; color:#1f2937">
  <div style="display:flex; background:#1e3a8a; color:#ffffff; padding:16px">
    <div>
      <h1 style="margin-bottom:4px">{{.Name}}</h1>
      {{if .Position}}<p style="font-size:18px">{{.Position}}</p>{{end}}
    </div>
    {{if .ArabicName}}<div dir="rtl"><h2>{{.ArabicName}}</h2></div>{{end}}
  </div>
  <p style="padding:8px 0; color:#6b7280">Ref: {{.Reference}}</p>
  <table style="width:800px">
    {{range .Details}}<tr><th style="width:240px">{{.Label}}</th><td>{{.Value}}</td></tr>
    {{end}}
  </table>
  <h3 style="margin-top:16px">Skills</h3>
  <table style="width:800px">
    {{range .Skills}}<tr><td style="width:240px">{{.Label}}</td><td>{{.Value}}</td></tr>
    {{end}}
  </table>
  <h3 style="margin-top:16px">Languages</h3>
  <ul>{{range .Languages}}<li>{{.Label}}: {{.Value}}</li>{{end}}</ul>
  <div class="print:hidden" style="padding:12px; background:#16a34a; color:#ffffff">
    <a href="#">Book now</a>
  </div>
</div>
</body>
</html>
`
