// Package content holds the structured documents behind the site (settings,
// pages, posts) and the SQLite document store they are fetched from.
//
// Every field is optional. Documents are read-only snapshots: renderers
// borrow them for one request and never write them back.
package content

import (
	"github.com/jwdigital/jwsite/link"
)

// DefaultBrand is the site name used when settings do not provide one.
const DefaultBrand = "JW Digital"

// Settings is the singleton settings document.
type Settings struct {
	LegacySiteTitle string          `json:"siteTitle,omitempty"`
	Branding        Branding        `json:"branding"`
	SEO             SEODefaults     `json:"seo"`
	Nav             *NavData        `json:"nav,omitempty"`
	Footer          *FooterData     `json:"footer,omitempty"`
	Theme           Theme           `json:"theme"`
	StructuredData  *StructuredData `json:"structuredData,omitempty"`
}

// SiteTitle returns the branding title, then the legacy top-level title.
// It returns "" when neither is set.
func (s *Settings) SiteTitle() string {
	if s == nil {
		return ""
	}
	if s.Branding.SiteTitle != "" {
		return s.Branding.SiteTitle
	}
	return s.LegacySiteTitle
}

type Branding struct {
	SiteTitle string `json:"siteTitle,omitempty"`
	Logo      *Image `json:"logo,omitempty"`
}

// SEODefaults apply to every page that does not override them.
type SEODefaults struct {
	Title         string  `json:"title,omitempty"`
	Description   string  `json:"description,omitempty"`
	MetadataBase  string  `json:"metadataBase,omitempty"`
	OGImage       *Image  `json:"ogImage,omitempty"`
	TwitterHandle string  `json:"twitterHandle,omitempty"`
	Robots        *Robots `json:"robots,omitempty"`
}

type Robots struct {
	Index  *bool `json:"index,omitempty"`
	Follow *bool `json:"follow,omitempty"`
}

// Image references an asset file in the images directory.
type Image struct {
	Asset string `json:"asset"`
	Alt   string `json:"alt,omitempty"`
}

// Nav item kinds.
const (
	KindLink     = "link"
	KindDropdown = "dropdown"
)

// NavData is the primary navigation.
type NavData struct {
	Items []NavItem `json:"items,omitempty"`
	CTA   *NavCta   `json:"cta,omitempty"`
}

// NavItem is either a plain link or a dropdown, selected by Kind.
type NavItem struct {
	Label    string     `json:"label"`
	Kind     string     `json:"kind"`
	Link     link.Field `json:"link"`
	Children []NavChild `json:"children,omitempty"`
}

type NavChild struct {
	Label       string     `json:"label"`
	Description string     `json:"description,omitempty"`
	Link        link.Field `json:"link"`
}

// CTA variants.
const (
	VariantPrimary   = "primary"
	VariantSecondary = "secondary"
)

type NavCta struct {
	Label   string     `json:"label"`
	Link    link.Field `json:"link"`
	Variant string     `json:"variant,omitempty"`
}

// FooterData holds three independent optional sections plus copyright.
type FooterData struct {
	Columns   []FooterColumn `json:"columns,omitempty"`
	Social    []SocialLink   `json:"social,omitempty"`
	Legal     []LegalLink    `json:"legal,omitempty"`
	Copyright string         `json:"copyright,omitempty"`
}

type FooterColumn struct {
	Title string       `json:"title"`
	Links []FooterLink `json:"links,omitempty"`
}

type FooterLink struct {
	Label string     `json:"label"`
	Link  link.Field `json:"link"`
}

// SocialLink is a bare external URL.
type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type LegalLink struct {
	Label string     `json:"label"`
	Link  link.Field `json:"link"`
}

// StructuredData feeds the Schema.org JSON-LD emitted on every page.
type StructuredData struct {
	Enabled      *bool         `json:"enabled,omitempty"`
	Language     string        `json:"language,omitempty"`
	Website      *WebsiteInfo  `json:"website,omitempty"`
	Organization *Organization `json:"organization,omitempty"`
}

// IsEnabled reports whether schema output is on. It defaults to true.
func (d *StructuredData) IsEnabled() bool {
	if d == nil {
		return false
	}
	return d.Enabled == nil || *d.Enabled
}

type WebsiteInfo struct {
	Name               string `json:"name,omitempty"`
	URL                string `json:"url,omitempty"`
	EnableSearchAction bool   `json:"enableSearchAction,omitempty"`
	SearchURLTemplate  string `json:"searchUrlTemplate,omitempty"`
}

type Organization struct {
	Name        string   `json:"name,omitempty"`
	LegalName   string   `json:"legalName,omitempty"`
	URL         string   `json:"url,omitempty"`
	Description string   `json:"description,omitempty"`
	Slogan      string   `json:"slogan,omitempty"`
	SameAs      []string `json:"sameAs,omitempty"`
	Logo        *Image   `json:"logo,omitempty"`
	Contact     *Contact `json:"contact,omitempty"`
	AreaServed  string   `json:"areaServed,omitempty"`
}

type Contact struct {
	Phone             string `json:"phone,omitempty"`
	Email             string `json:"email,omitempty"`
	ContactType       string `json:"contactType,omitempty"`
	AvailableLanguage string `json:"availableLanguage,omitempty"`
}

// Page is a page-builder document.
type Page struct {
	ID     string    `json:"_id"`
	Name   string    `json:"name"`
	Slug   link.Slug `json:"slug"`
	SEO    PageSEO   `json:"seo"`
	Blocks []Block   `json:"pageBuilder,omitempty"`
}

type PageSEO struct {
	Title           string   `json:"title,omitempty"`
	Description     string   `json:"description,omitempty"`
	Canonical       string   `json:"canonical,omitempty"`
	NoIndex         bool     `json:"noIndex,omitempty"`
	NoFollow        bool     `json:"noFollow,omitempty"`
	HideFromSitemap bool     `json:"hideFromSitemap,omitempty"`
	OGImage         *Image   `json:"ogImage,omitempty"`
	OGTitle         string   `json:"ogTitle,omitempty"`
	OGDescription   string   `json:"ogDescription,omitempty"`
	Keywords        []string `json:"keywords,omitempty"`
}

// Page builder block types.
const (
	BlockCallToAction = "callToAction"
	BlockInfoSection  = "infoSection"
)

// Block is one page-builder section. Fields not used by Type are ignored.
type Block struct {
	Key        string     `json:"_key,omitempty"`
	Type       string     `json:"_type"`
	Heading    string     `json:"heading,omitempty"`
	Subheading string     `json:"subheading,omitempty"`
	Text       string     `json:"text,omitempty"`
	ButtonText string     `json:"buttonText,omitempty"`
	Link       link.Field `json:"link"`
	Content    string     `json:"content,omitempty"`
}

// Post is a blog post with a markdown body.
type Post struct {
	ID      string    `json:"_id"`
	Title   string    `json:"title"`
	Slug    link.Slug `json:"slug"`
	Excerpt string    `json:"excerpt,omitempty"`
	Date    string    `json:"date,omitempty"`
	Tags    []string  `json:"tags,omitempty"`
	Body    string    `json:"body,omitempty"`
}
