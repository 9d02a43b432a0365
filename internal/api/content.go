package api

import (
	"fmt"
	"strings"

	"github.com/jhillyerd/enmime/v2"
	"github.com/microcosm-cc/bluemonday"
)

var htmlPolicy = bluemonday.UGCPolicy()

// SanitizedHTML joins the HTML parts of the message and strips scripts,
// event handlers and other markup unsafe to render.
func (m *Message) SanitizedHTML() string {
	if len(m.HTML) == 0 {
		return ""
	}
	return htmlPolicy.Sanitize(strings.Join(m.HTML, "\n"))
}

// Envelope parses the raw source into its MIME structure.
func (s *Source) Envelope() (*enmime.Envelope, error) {
	env, err := enmime.ReadEnvelope(strings.NewReader(s.Data))
	if err != nil {
		return nil, fmt.Errorf("parse source %s: %w", s.ID, err)
	}
	return env, nil
}
