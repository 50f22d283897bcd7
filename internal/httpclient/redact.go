package httpclient

import (
	"net/http"
	"strings"
)

// redactPath hides Bot API tokens carried as a "/bot<id>:<secret>/" path segment.
func redactPath(req *http.Request) string {
	if req == nil || req.URL == nil {
		return ""
	}
	segments := strings.Split(req.URL.Path, "/")
	for i, seg := range segments {
		if strings.HasPrefix(seg, "bot") && strings.Contains(seg, ":") {
			segments[i] = "bot<token>"
		}
	}
	return req.URL.Host + strings.Join(segments, "/")
}
