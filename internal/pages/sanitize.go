package pages

import (
	"html/template"

	"github.com/microcosm-cc/bluemonday"
)

// Backend-provided HTML fragments (facilities, terms, map embeds) are
// rendered only after passing one of these allow-lists.
var (
	richTextPolicy = newRichTextPolicy()
	embedPolicy    = newEmbedPolicy()
)

func newRichTextPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "br", "b", "strong", "i", "em", "ul", "ol", "li", "a", "span", "div")
	p.AllowAttrs("href", "target", "rel").OnElements("a")
	p.AllowAttrs("class").Globally()
	p.AllowStandardURLs()
	return p
}

func newEmbedPolicy() *bluemonday.Policy {
	p := newRichTextPolicy()
	p.AllowElements("iframe")
	p.AllowAttrs("src", "width", "height", "style", "allow", "allowfullscreen", "loading", "referrerpolicy").
		OnElements("iframe")
	return p
}

// RichText sanitizes a fragment down to basic formatting and links
func RichText(fragment string) template.HTML {
	return template.HTML(richTextPolicy.Sanitize(fragment))
}

// Embed is RichText that also keeps iframes, for map embeds
func Embed(fragment string) template.HTML {
	return template.HTML(embedPolicy.Sanitize(fragment))
}
