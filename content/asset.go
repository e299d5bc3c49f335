package content

import (
	"net/url"
	"strings"
)

// ResolveAssetURL rewrites a course-relative asset address into a fully
// qualified content-server URL. Addresses that already carry a scheme are
// returned unchanged. An empty base leaves the address untouched, since
// there is no server to qualify against.
func ResolveAssetURL(baseURL, address string) string {
	if address == "" || baseURL == "" {
		return address
	}
	if u, err := url.Parse(address); err == nil && u.Scheme != "" {
		return address
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(address, "/")
}
