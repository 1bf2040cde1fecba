package database

import "net/url"

// redactURI hides credentials before a connection string is logged.
func redactURI(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "invalid uri"
	}
	return u.Redacted()
}
