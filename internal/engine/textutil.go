package engine

import (
	"net/url"
	"strings"

	"github.com/anatolykoptev/go-kit/strutil"
)

// UserAgentBot is sent on every outbound API request.
const UserAgentBot = "GoStudy/1.0"

// TruncateRunes caps s at limit runes, appending suffix if truncated.
// Pass suffix="" for no suffix. Safe for UTF-8 (Cyrillic, CJK, emoji).
func TruncateRunes(s string, limit int, suffix string) string {
	return strutil.TruncateWith(s, limit, suffix)
}

// HostOf returns the lowercased host of a URL or bare "host/path" string,
// without port and without a leading "www.". Returns "" if nothing usable.
func HostOf(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}
