/**
 * @description
 * This file holds the email templates, one per message kind, and renders them
 * with the Liquid template language. Templates are parsed once at construction;
 * an unparseable template is a startup error, never a per-message one.
 *
 * @dependencies
 * - github.com/osteele/liquid: Template rendering.
 * - The shared contracts package for the kind enumeration.
 */
package email

import (
	"fmt"

	"github.com/osteele/liquid"

	"github.com/PetterZiden/Auctioneer-sub001/pkg/contracts"
)

type templateSource struct {
	subject string
	body    string
}

var templateSources = map[contracts.Kind]templateSource{
	contracts.KindPlaceBid: {
		subject: "New bid on {{ auction_title }}",
		body: `<p>Hi {{ auction_owner }},</p>
<p>{{ bidder_name }} just placed a bid of {{ bid }} on <strong>{{ auction_title }}</strong>.</p>
<p><a href="{{ auction_url }}">View the auction</a></p>`,
	},
	contracts.KindCreateAuction: {
		subject: "Your auction {{ auction_title }} is live",
		body: `<p>Hi {{ auction_owner }},</p>
<p>Your auction <strong>{{ auction_title }}</strong> is live with a starting price of {{ starting_price }}.</p>
<p><a href="{{ auction_url }}">View the auction</a></p>`,
	},
	contracts.KindCreateMember: {
		subject: "Welcome to Auctioneer, {{ name }}",
		body: `<p>Hi {{ name }},</p>
<p>Welcome to Auctioneer! Your account is ready.</p>`,
	},
	contracts.KindRateMember: {
		subject: "{{ rated_by_name }} rated you {{ stars }} stars",
		body: `<p>Hi {{ rated_name }},</p>
<p>{{ rated_by_name }} rated you {{ stars }} stars.</p>`,
	},
}

type parsedTemplate struct {
	subject *liquid.Template
	body    *liquid.Template
}

// TemplateSet renders the per-kind subject and body templates.
type TemplateSet struct {
	templates map[contracts.Kind]parsedTemplate
}

// NewTemplateSet parses every template up front so malformed templates fail the
// process at startup.
func NewTemplateSet() (*TemplateSet, error) {
	engine := liquid.NewEngine()
	templates := make(map[contracts.Kind]parsedTemplate, len(templateSources))

	for kind, src := range templateSources {
		subject, err := engine.ParseString(src.subject)
		if err != nil {
			return nil, fmt.Errorf("parsing %s subject template: %w", kind, err)
		}
		body, err := engine.ParseString(src.body)
		if err != nil {
			return nil, fmt.Errorf("parsing %s body template: %w", kind, err)
		}
		templates[kind] = parsedTemplate{subject: subject, body: body}
	}

	return &TemplateSet{templates: templates}, nil
}

// Render produces the subject and HTML body for the kind from the given
// bindings.
func (t *TemplateSet) Render(kind contracts.Kind, data map[string]any) (subject, body string, err error) {
	tpl, ok := t.templates[kind]
	if !ok {
		return "", "", fmt.Errorf("no template for message kind %q", kind)
	}

	subject, err = tpl.subject.RenderString(data)
	if err != nil {
		return "", "", fmt.Errorf("rendering %s subject: %w", kind, err)
	}
	body, err = tpl.body.RenderString(data)
	if err != nil {
		return "", "", fmt.Errorf("rendering %s body: %w", kind, err)
	}
	return subject, body, nil
}
