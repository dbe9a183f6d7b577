// Package template selects, fetches and renders the HTML email templates.
// A small catalog maps known event subject phrases to template objects in
// S3; unknown subjects and fetch failures degrade to an empty template so
// the dispatch pipeline never aborts on template problems.
package template
