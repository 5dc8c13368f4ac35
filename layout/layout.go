// Package layout turns content snapshots into the navigable structure of a
// page: the primary navigation, the footer and page-builder sections.
//
// Builders are pure. They resolve every link through package link and
// never fail; links that degrade to "#" are reported to an optional
// Reporter so they can be counted or logged.
package layout

import (
	"github.com/jwdigital/jwsite/link"
)

// Fallback describes a link that resolved to the fallback target.
type Fallback struct {
	Section string // e.g. "nav.items", "footer.legal"
	Where   string // full path, e.g. "nav.items[2].children[0]"
	Label   string
	Problem link.Problem
}

// Reporter receives every Fallback seen during a build.
type Reporter func(Fallback)

// Option configures a build.
type Option func(*options)

type options struct {
	report Reporter
}

// WithReporter sets the fallback reporter.
func WithReporter(r Reporter) Option {
	return func(o *options) {
		o.report = r
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) resolve(f link.Field, section, where, label string) link.Resolved {
	r, p := f.Resolve()
	if p != link.ProblemNone && o.report != nil {
		o.report(Fallback{Section: section, Where: where, Label: label, Problem: p})
	}
	return r
}

// LinkEntry is a labelled, resolved link.
type LinkEntry struct {
	Label string
	Link  link.Resolved
}
