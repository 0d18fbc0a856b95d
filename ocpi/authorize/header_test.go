package authorize

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAuthorization(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("partner-secret"))
	cases := []struct {
		header string
		want   string
	}{
		{"Token " + encoded, "partner-secret"},
		{"Bearer " + encoded, "partner-secret"},
		{"token raw-token", "raw-token"},
		{"Token a.b.c", "a.b.c"},
		{"  Token   spaced  ", "spaced"},
		{"Basic abc", ""},
		{"Token", ""},
		{"Token ", ""},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ParseAuthorization(c.header), c.header)
	}
}

func TestParseAuthorization_BinaryIsNotDecoded(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte{0x01, 0x02, 0xff})
	assert.Equal(t, encoded, ParseAuthorization("Token "+encoded))
}
