package security

import (
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	apperrors "youchat/pkg/errors"
)

func TestSanitizeInput(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "hello world", "hello world"},
		{"tags stripped", "<b>bold</b> move", "bold move"},
		{"script tags stripped", "<script>alert(1)</script>hi", "alert(1)hi"},
		{"javascript scheme stripped", "click javascript:doEvil() now", "click doEvil() now"},
		{"event attributes stripped", "x onclick= y onmouseover = z", "x y z"},
		{"quotes and angle brackets stripped", `he said "hi" <now> 'bye'`, "he said hi now bye"},
		{"control characters stripped", "a\x00b\x1Fc\x7Fd", "abcd"},
		{"whitespace trimmed", "   padded   ", "padded"},
		{"newlines and tabs survive", "line1\nline2\tend", "line1\nline2\tend"},
		{"empty after cleaning", "  <br/>  ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SanitizeInput(tc.in))
		})
	}
}

func TestSanitizeInputCapsLength(t *testing.T) {
	out := SanitizeInput(strings.Repeat("x", MaxMessageLength+1000))
	assert.Len(t, out, MaxMessageLength)
}

func TestSanitizeInputCapKeepsValidUTF8(t *testing.T) {
	// Place a multi-byte rune straddling the byte cap.
	in := strings.Repeat("x", MaxMessageLength-1) + "héllo"
	out := SanitizeInput(in)
	assert.True(t, utf8.ValidString(out))
	assert.LessOrEqual(t, len(out), MaxMessageLength)
}

func TestValidateUpload(t *testing.T) {
	assert.NoError(t, ValidateUpload("image/png", 1024))
	assert.NoError(t, ValidateUpload("application/pdf", MaxUploadSize))
	assert.NoError(t, ValidateUpload("video/mp4", 1024))

	for _, bad := range []error{
		ValidateUpload("application/x-msdownload", 1024),
		ValidateUpload("text/html", 1024),
		ValidateUpload("", 1024),
		ValidateUpload("image/png", MaxUploadSize+1),
	} {
		assert.Error(t, bad)
		assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(bad))
		assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(bad))
	}
}
