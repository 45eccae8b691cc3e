package download

import "regexp"

// urlPattern accepts http/https/ftp/ftps URLs with a domain name,
// localhost, or dotted-quad IPv4 host, optional port, and optional
// path/query. Syntactic gate only; reachability is not checked.
var urlPattern = regexp.MustCompile(`(?i)^(?:http|ftp)s?://` +
	`(?:(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\.)+(?:[a-z]{2,6}\.?|[a-z0-9-]{2,}\.?)` +
	`|localhost` +
	`|\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})` +
	`(?::\d+)?` +
	`(?:/?|[/?]\S+)$`)

// IsValidURL reports whether s looks like a downloadable media URL.
func IsValidURL(s string) bool {
	return urlPattern.MatchString(s)
}
