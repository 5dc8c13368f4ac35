package jwsite

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"

	"github.com/jwdigital/jwsite/content"
	"github.com/jwdigital/jwsite/link"
)

// AbsoluteURL joins a base URL with an unescaped site path such as
// "/posts/hello". The root path keeps its trailing slash; others have none.
func AbsoluteURL(base, p string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base + p
	}
	joined := path.Join("/", u.Path, p)
	if joined == "/" || p == "" || p == "/" {
		u.Path = strings.TrimSuffix(joined, "/") + "/"
	} else {
		u.Path = joined
	}
	return u.String()
}

// validBase returns s when it is an absolute http(s) URL.
func validBase(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", false
	}
	return strings.TrimSuffix(u.String(), "/"), true
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func encodeJSONLD(data map[string]any) string {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// WebsiteJSONLD returns a WebSite schema. info may be nil, in which case
// the site name and base URL are used.
func WebsiteJSONLD(info *content.WebsiteInfo, name, base, description string) string {
	siteURL := AbsoluteURL(base, "/")
	if info != nil {
		if info.Name != "" {
			name = info.Name
		}
		if info.URL != "" {
			siteURL = info.URL
		}
	}
	data := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     name,
		"url":      siteURL,
	}
	if description != "" {
		data["description"] = description
	}
	if info != nil && info.EnableSearchAction && info.SearchURLTemplate != "" {
		data["potentialAction"] = map[string]any{
			"@type":       "SearchAction",
			"target":      info.SearchURLTemplate,
			"query-input": "required name=search_term_string",
		}
	}
	return encodeJSONLD(data)
}

// OrganizationJSONLD returns an Organization schema, or "" when org is nil.
func OrganizationJSONLD(org *content.Organization, base string) string {
	if org == nil || org.Name == "" {
		return ""
	}
	data := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Organization",
		"name":     org.Name,
		"url":      AbsoluteURL(base, "/"),
	}
	if org.URL != "" {
		data["url"] = org.URL
	}
	optional := map[string]string{
		"legalName":   org.LegalName,
		"description": org.Description,
		"slogan":      org.Slogan,
		"areaServed":  org.AreaServed,
	}
	for k, v := range optional {
		if v != "" {
			data[k] = v
		}
	}
	if sameAs := FilterEmpty(org.SameAs); len(sameAs) > 0 {
		data["sameAs"] = sameAs
	}
	if org.Logo != nil && org.Logo.Asset != "" {
		data["logo"] = AbsoluteURL(base, "/images/"+org.Logo.Asset)
	}
	if ct := org.Contact; ct != nil && (ct.Phone != "" || ct.Email != "") {
		point := map[string]any{"@type": "ContactPoint"}
		if ct.Phone != "" {
			point["telephone"] = ct.Phone
		}
		if ct.Email != "" {
			point["email"] = ct.Email
		}
		if ct.ContactType != "" {
			point["contactType"] = ct.ContactType
		}
		if ct.AvailableLanguage != "" {
			point["availableLanguage"] = ct.AvailableLanguage
		}
		data["contactPoint"] = point
	}
	return encodeJSONLD(data)
}

// BlogPostingJSONLD returns a BlogPosting schema for a post.
func BlogPostingJSONLD(post content.Post, publisher, base string) string {
	postURL := AbsoluteURL(base, link.PostPath(post.Slug.String()))
	data := map[string]any{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Excerpt,
		"datePublished": post.Date,
		"url":           postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if publisher != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  publisher,
		}
	}
	if len(post.Tags) > 0 {
		data["keywords"] = strings.Join(post.Tags, ", ")
	}
	return encodeJSONLD(data)
}
