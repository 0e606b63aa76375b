package request

import "strings"

const (
	ClientTypeWeb    = "web"
	ClientTypeMobile = "mobile"
	ClientTypeAPI    = "api"
)

// ResolveClientType prefers the explicit X-Client-Type header and falls back
// to a User-Agent sniff, defaulting to web so browsers get cookie handling.
func ResolveClientType(header, userAgent string) string {
	switch strings.ToLower(strings.TrimSpace(header)) {
	case ClientTypeWeb, ClientTypeMobile, ClientTypeAPI:
		return strings.ToLower(strings.TrimSpace(header))
	}

	ua := strings.ToLower(userAgent)
	if strings.Contains(ua, "okhttp") || strings.Contains(ua, "dart") {
		return ClientTypeMobile
	}
	if ua == "" {
		return ClientTypeAPI
	}

	return ClientTypeWeb
}

func IsWebClient(clientType string) bool {
	return clientType == ClientTypeWeb
}
