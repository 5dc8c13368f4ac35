package link

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Link types as stored by the CMS in the linkType field.
const (
	TypeHref = "href"
	TypePage = "page"
	TypePost = "post"
)

// Problem records why a link degraded to the fallback target.
type Problem string

const (
	ProblemNone        Problem = ""
	ProblemMissing     Problem = "missing"
	ProblemIncomplete  Problem = "incomplete"
	ProblemUnknownType Problem = "unknown_type"
	ProblemMalformed   Problem = "malformed"
)

// Raw is the link record as it arrives from the content store. Payloads for
// every variant may be present; only the one selected by LinkType counts.
type Raw struct {
	LinkType     string `json:"linkType"`
	Href         string `json:"href,omitempty"`
	Page         *Ref   `json:"page,omitempty"`
	Post         *Ref   `json:"post,omitempty"`
	OpenInNewTab bool   `json:"openInNewTab,omitempty"`
}

// Ref is a document reference carrying the target's slug.
type Ref struct {
	Type string `json:"_type,omitempty"`
	Slug Slug   `json:"slug"`
}

// UnmarshalJSON decodes linkType first and then only the payload it selects.
// Payloads of other variants are never decoded, so their shape cannot break
// the link. A non-bool openInNewTab reads as false.
func (r *Raw) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	if fields == nil {
		return errors.New("link: record is null")
	}
	*r = Raw{}
	// A non-string linkType is left empty and parses as an unknown type.
	_ = decodeField(fields, "linkType", &r.LinkType)
	_ = decodeField(fields, "openInNewTab", &r.OpenInNewTab)
	switch r.LinkType {
	case TypeHref:
		return decodeField(fields, "href", &r.Href)
	case TypePage:
		return decodeField(fields, "page", &r.Page)
	case TypePost:
		return decodeField(fields, "post", &r.Post)
	}
	return nil
}

// decodeField decodes fields[key] into v. A missing key leaves v untouched.
func decodeField(fields map[string]json.RawMessage, key string, v any) error {
	data, ok := fields[key]
	if !ok {
		return nil
	}
	return json.Unmarshal(data, v)
}

// UnmarshalJSON accepts any object and drops a malformed _type.
func (r *Ref) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	*r = Ref{}
	_ = decodeField(fields, "_type", &r.Type)
	return decodeField(fields, "slug", &r.Slug)
}

// Parse converts a raw record into a Link. A nil Link is returned together
// with the Problem that explains it.
func Parse(raw *Raw) (Link, Problem) {
	if raw == nil {
		return nil, ProblemMissing
	}
	switch raw.LinkType {
	case TypeHref:
		if raw.Href == "" {
			return nil, ProblemIncomplete
		}
		return Href{URL: raw.Href, NewTab: raw.OpenInNewTab}, ProblemNone
	case TypePage:
		if raw.Page == nil {
			return nil, ProblemIncomplete
		}
		return PageRef{Slug: raw.Page.Slug.String()}, ProblemNone
	case TypePost:
		if raw.Post == nil {
			return nil, ProblemIncomplete
		}
		return PostRef{Slug: raw.Post.Slug.String()}, ProblemNone
	default:
		return nil, ProblemUnknownType
	}
}

// Slug accepts both slug shapes the CMS produces: a bare string or an
// object with a "current" field.
type Slug struct {
	Value string
	Valid bool
}

// NewSlug returns a valid slug. An empty string yields an absent slug.
func NewSlug(s string) Slug {
	return Slug{Value: s, Valid: s != ""}
}

// String returns the slug, or "" when absent.
func (s Slug) String() string {
	if !s.Valid {
		return ""
	}
	return s.Value
}

// UnmarshalJSON never fails: unexpected shapes decode as an absent slug.
func (s *Slug) UnmarshalJSON(b []byte) error {
	*s = Slug{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '"':
		var v string
		if err := json.Unmarshal(b, &v); err == nil {
			*s = NewSlug(v)
		}
	case '{':
		var obj struct {
			Current *string `json:"current"`
		}
		if err := json.Unmarshal(b, &obj); err == nil && obj.Current != nil {
			*s = Slug{Value: *obj.Current, Valid: true}
		}
	}
	return nil
}

// MarshalJSON writes the object form used by the CMS.
func (s Slug) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(struct {
		Type    string `json:"_type"`
		Current string `json:"current"`
	}{"slug", s.Value})
}

// Field is a link slot inside a content document, already parsed.
type Field struct {
	Target  Link
	Problem Problem
}

// UnmarshalJSON never fails. Records that do not decode become a Field
// with ProblemMalformed so the surrounding document still loads.
func (f *Field) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = Field{Problem: ProblemMissing}
		return nil
	}
	var raw Raw
	if err := json.Unmarshal(b, &raw); err != nil {
		*f = Field{Problem: ProblemMalformed}
		return nil
	}
	f.Target, f.Problem = Parse(&raw)
	return nil
}

// Resolve resolves the field and reports why it fell back, if it did.
func (f Field) Resolve() (Resolved, Problem) {
	if f.Target == nil && f.Problem == ProblemNone {
		return Resolve(nil), ProblemMissing
	}
	return Resolve(f.Target), f.Problem
}

// FieldOf wraps an already parsed link.
func FieldOf(l Link) Field {
	if l == nil {
		return Field{Problem: ProblemMissing}
	}
	return Field{Target: l}
}
