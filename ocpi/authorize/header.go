package authorize

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"
)

// ParseAuthorization extracts the credentials token from an Authorization
// header. Both "Token" and "Bearer" schemes are accepted; base64 encoded
// tokens are decoded, anything else is taken verbatim.
func ParseAuthorization(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 {
		return ""
	}
	scheme := parts[0]
	if !strings.EqualFold(scheme, "Token") && !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return ""
	}
	if decoded, ok := decodeToken(token); ok {
		return decoded
	}
	return token
}

func decodeToken(token string) (string, bool) {
	// JWTs are base64url segments joined by dots and are never decoded here
	if strings.Count(token, ".") == 2 {
		return "", false
	}
	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil || len(data) == 0 || !utf8.Valid(data) {
		return "", false
	}
	for _, r := range string(data) {
		if r < 0x20 || r == 0x7f {
			return "", false
		}
	}
	return string(data), true
}
