package models

import (
	"encoding/json"
	"strings"

	dErrors "docmint/pkg/domain-errors"
)

// RenderPayloadVersion is the current payload schema version. Stored snapshots
// and override JSON share this shape; bump when the binding schema changes.
const RenderPayloadVersion = 1

// Category classifies a document type for render-payload construction.
// Adding a document family means adding a category and a builder for it, not
// another branch inside the saga.
type Category string

const (
	CategoryCertificate Category = "certificate"
	CategoryDiploma     Category = "diploma"
	CategoryTranscript  Category = "transcript"
	CategoryGeneral     Category = "general"
)

// CategoryOf derives the render category from a document type name.
func CategoryOf(typeName string) Category {
	switch strings.ToLower(strings.TrimSpace(typeName)) {
	case "certificate":
		return CategoryCertificate
	case "diploma":
		return CategoryDiploma
	case "transcript":
		return CategoryTranscript
	default:
		return CategoryGeneral
	}
}

// Simple reports whether the category skips identity binding rewrites at
// approval time (general documents carry whatever the template authored).
func (c Category) Simple() bool { return c == CategoryGeneral }

// BindingKind types a field binding.
type BindingKind string

const (
	BindingText   BindingKind = "text"
	BindingNumber BindingKind = "number"
	BindingDate   BindingKind = "date"
	BindingQR     BindingKind = "qr"
	BindingTable  BindingKind = "table"
)

// Well-known binding names the approval step rewrites with resolved identity
// data. QRCodeBinding is rewritten for every category so the scannable code
// always points at the canonical record regardless of template authoring.
const (
	BindingNameStudent   = "student_name"
	BindingNameIssuer    = "issuer_name"
	BindingNameSignature = "signature"
	BindingNameDetails   = "details"
	QRCodeBinding        = "QR_CODE"
)

// TemplateDescriptor names the template and optionally embeds the stored
// layout blob from the document type catalog.
type TemplateDescriptor struct {
	Name   string `json:"name"`
	Layout string `json:"layout,omitempty"`
}

// FieldBinding is one typed input bound into the template. Scalar kinds use
// Value; table bindings use Columns/Rows.
type FieldBinding struct {
	Name    string      `json:"name"`
	Kind    BindingKind `json:"kind"`
	Value   string      `json:"value,omitempty"`
	Columns []string    `json:"columns,omitempty"`
	Rows    [][]string  `json:"rows,omitempty"`
}

// RenderPayload is the versioned template-plus-bindings snapshot persisted on
// the document row and accepted as override JSON at approval time.
type RenderPayload struct {
	Version  int                `json:"version"`
	Template TemplateDescriptor `json:"template"`
	Bindings []FieldBinding     `json:"bindings"`
}

// Validate checks that the payload carries enough material to render.
func (p *RenderPayload) Validate() error {
	if p.Version != RenderPayloadVersion {
		return dErrors.Newf(dErrors.CodeBadRequest, "unsupported render payload version: %d", p.Version)
	}
	if p.Template.Name == "" {
		return dErrors.New(dErrors.CodeBadRequest, "render payload has no template")
	}
	if len(p.Bindings) == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "render payload has no bound inputs")
	}
	return nil
}

// SetBinding overwrites the named binding in place, appending it when absent.
func (p *RenderPayload) SetBinding(name string, kind BindingKind, value string) {
	for i := range p.Bindings {
		if p.Bindings[i].Name == name {
			p.Bindings[i].Kind = kind
			p.Bindings[i].Value = value
			p.Bindings[i].Columns = nil
			p.Bindings[i].Rows = nil
			return
		}
	}
	p.Bindings = append(p.Bindings, FieldBinding{Name: name, Kind: kind, Value: value})
}

// Binding returns the named binding, or nil.
func (p *RenderPayload) Binding(name string) *FieldBinding {
	for i := range p.Bindings {
		if p.Bindings[i].Name == name {
			return &p.Bindings[i]
		}
	}
	return nil
}

// Clone deep-copies the payload.
func (p RenderPayload) Clone() RenderPayload {
	cp := p
	cp.Bindings = make([]FieldBinding, len(p.Bindings))
	copy(cp.Bindings, p.Bindings)
	for i := range cp.Bindings {
		if p.Bindings[i].Columns != nil {
			cp.Bindings[i].Columns = append([]string(nil), p.Bindings[i].Columns...)
		}
		if p.Bindings[i].Rows != nil {
			rows := make([][]string, len(p.Bindings[i].Rows))
			for j, r := range p.Bindings[i].Rows {
				rows[j] = append([]string(nil), r...)
			}
			cp.Bindings[i].Rows = rows
		}
	}
	return cp
}

// ParseRenderPayload decodes and validates override JSON supplied at approval
// time, so the override path and the stored-snapshot path share one shape.
func ParseRenderPayload(raw []byte) (*RenderPayload, error) {
	var p RenderPayload
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "malformed render template JSON")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
