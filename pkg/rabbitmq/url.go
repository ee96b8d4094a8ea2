package rabbitmq

import (
	"errors"
	"net/url"
	"strings"
)

// sanitizeAMQPURL trims whitespace, stray quotes, and any junk preceding the
// scheme from a configured AMQP URL. Deployment platforms occasionally inject
// both into environment variables.
func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.Trim(clean, "\"'")
	if idx := strings.Index(strings.ToLower(clean), "amqp"); idx > 0 {
		clean = clean[idx:]
	}
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}
