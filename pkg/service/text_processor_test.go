package service

import (
	"encoding/base64"
	"strings"
	"testing"

	"text-ingest/pkg/model"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plain(body string) model.TextPayload {
	return model.TextPayload{Body: []byte(body), ContentType: "text/plain; charset=utf-8"}
}

func requireReason(t *testing.T, err error, reason ValidationReason) *ValidationError {
	t.Helper()
	ve, ok := AsValidationError(err)
	require.True(t, ok, "expected ValidationError, got %v", err)
	assert.Equal(t, reason, ve.Reason)
	return ve
}

func TestProcessCountsWordsAndLines(t *testing.T) {
	got, err := NewTextProcessor().Process(plain("hello world\n\nfoo"))
	require.NoError(t, err)

	want := &model.TextAnalysis{
		Text:           "hello world\n\nfoo",
		OriginalLength: 16,
		DecodedBytes:   16,
		WordCount:      3,
		LineCount:      2,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("analysis mismatch (-want +got):\n%s", diff)
	}
}

func TestProcessValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		payload model.TextPayload
		reason  ValidationReason
		message string
	}{
		{
			name:    "empty body",
			payload: plain(""),
			reason:  ReasonMissingPayload,
			message: "No file uploaded.",
		},
		{
			name:    "nil body",
			payload: model.TextPayload{ContentType: "text/plain"},
			reason:  ReasonMissingPayload,
			message: "No file uploaded.",
		},
		{
			name:    "json content type",
			payload: model.TextPayload{Body: []byte(`{"a":1}`), ContentType: "application/json"},
			reason:  ReasonInvalidContentType,
			message: "Invalid file type.",
		},
		{
			name:    "missing content type",
			payload: model.TextPayload{Body: []byte("hello")},
			reason:  ReasonInvalidContentType,
			message: "Invalid file type.",
		},
		{
			name:    "bad base64",
			payload: model.TextPayload{Body: []byte("%%%"), ContentType: "text/plain", Base64Encoded: true},
			reason:  ReasonInvalidEncoding,
			message: "Invalid file encoding.",
		},
		{
			name:    "base64 decodes to nothing",
			payload: model.TextPayload{Body: []byte("\r\n"), ContentType: "text/plain", Base64Encoded: true},
			reason:  ReasonEmptyPayload,
			message: "empty",
		},
		{
			name:    "spaces and tabs",
			payload: plain("  \t \t  "),
			reason:  ReasonNoMeaningfulText,
			message: "contains no meaningful text",
		},
		{
			name:    "blank lines only",
			payload: plain("\r\n\r\n\n\r"),
			reason:  ReasonNoMeaningfulText,
			message: "contains no meaningful text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTextProcessor().Process(tt.payload)
			assert.Nil(t, got)
			ve := requireReason(t, err, tt.reason)
			assert.Contains(t, ve.Message, tt.message)
		})
	}
}

func TestProcessChecksContentTypeBeforeSize(t *testing.T) {
	body := strings.Repeat("a", MaxPayloadBytes+1)
	_, err := NewTextProcessor().Process(model.TextPayload{Body: []byte(body), ContentType: "application/octet-stream"})
	requireReason(t, err, ReasonInvalidContentType)
}

func TestRejectOversizedChecksContentTypeFirst(t *testing.T) {
	assert.Equal(t, ReasonInvalidContentType, RejectOversized("application/json", 9<<20).Reason)

	ve := RejectOversized("text/plain; charset=utf-8", 9<<20)
	assert.Equal(t, ReasonPayloadTooLarge, ve.Reason)
	assert.Equal(t, int64(9<<20), ve.Size)
}

func TestProcessRejectsOversizedPayload(t *testing.T) {
	body := strings.Repeat("a", 1048577)
	_, err := NewTextProcessor().Process(plain(body))

	ve := requireReason(t, err, ReasonPayloadTooLarge)
	assert.EqualValues(t, 1048577, ve.Size)
	assert.Contains(t, ve.Message, "1048577")
}

func TestProcessAcceptsExactLimit(t *testing.T) {
	body := strings.Repeat("a", MaxPayloadBytes)
	got, err := NewTextProcessor().Process(plain(body))
	require.NoError(t, err)
	assert.Equal(t, 1, got.WordCount)
	assert.Equal(t, 1, got.LineCount)
	assert.True(t, got.Truncated)
}

func TestProcessSizeIsMeasuredAfterDecoding(t *testing.T) {
	// 编码后超过 1MiB，解码后未超过
	raw := strings.Repeat("b", MaxPayloadBytes-10)
	encoded := base64.StdEncoding.EncodeToString([]byte(raw))
	require.Greater(t, len(encoded), MaxPayloadBytes)

	got, err := NewTextProcessor().Process(model.TextPayload{Body: []byte(encoded), ContentType: "TEXT/PLAIN", Base64Encoded: true})
	require.NoError(t, err)
	assert.Equal(t, MaxPayloadBytes-10, got.DecodedBytes)
}

func TestProcessDecodesBase64(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("one two\r\nthree"))
	got, err := NewTextProcessor().Process(model.TextPayload{Body: []byte(encoded), ContentType: "text/plain", Base64Encoded: true})
	require.NoError(t, err)
	assert.Equal(t, "one two\nthree", got.Text)
	assert.Equal(t, 3, got.WordCount)
	assert.Equal(t, 2, got.LineCount)
}

func TestProcessTruncatesLongText(t *testing.T) {
	got, err := NewTextProcessor().Process(plain(strings.Repeat("x", 1200)))
	require.NoError(t, err)

	assert.True(t, got.Truncated)
	assert.Equal(t, 1200, got.OriginalLength)
	assert.Len(t, got.Text, 1003)
	assert.True(t, strings.HasSuffix(got.Text, TruncationMarker))
}

func TestProcessTruncatesByCharacter(t *testing.T) {
	got, err := NewTextProcessor().Process(plain(strings.Repeat("字", 1001)))
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("字", 1000)+"...", got.Text)
}

func TestProcessContentTypeIsCaseInsensitiveSubstring(t *testing.T) {
	for _, ct := range []string{"text/plain", "Text/Plain", "TEXT/PLAIN; charset=UTF-8", "multipart/x; text/plain"} {
		_, err := NewTextProcessor().Process(model.TextPayload{Body: []byte("hi"), ContentType: ct})
		assert.NoError(t, err, ct)
	}
}

func TestProcessReplacesInvalidUTF8(t *testing.T) {
	got, err := NewTextProcessor().Process(model.TextPayload{Body: []byte{'o', 'k', ' ', 0xff, 0xfe}, ContentType: "text/plain"})
	require.NoError(t, err)
	assert.Equal(t, "ok \uFFFD", got.Text)
	assert.Equal(t, 2, got.WordCount)
}

func TestValidInputAlwaysCountsAtLeastOne(t *testing.T) {
	inputs := []string{"a", " a ", "\n\n a\t", "a\r\rb", " x ", "word\n", strings.Repeat("z ", 5000)}
	for _, in := range inputs {
		got, err := NewTextProcessor().Process(plain(in))
		require.NoError(t, err, "%q", in)
		assert.GreaterOrEqual(t, got.WordCount, 1, "%q", in)
		assert.GreaterOrEqual(t, got.LineCount, 1, "%q", in)
	}
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "a\nb\nc\nd", NormalizeText("  a\r\nb\rc\nd \n"))
	assert.Equal(t, "a\n\nb", NormalizeText("a\r\r\nb"))
}

func TestNormalizeTextIsIdempotent(t *testing.T) {
	inputs := []string{"", "  x  ", "a\r\nb\r\n\r\nc", "\r\r\r", "tab\tsep\r\n  ", "mixed\r\n\r\nend\r"}
	for _, in := range inputs {
		once := NormalizeText(in)
		assert.Equal(t, once, NormalizeText(once), "%q", in)
	}
}

func TestMixedLineEndingsCountTheSame(t *testing.T) {
	variants := []string{
		"first line\nsecond line\n\nthird",
		"first line\r\nsecond line\r\n\r\nthird",
		"first line\rsecond line\r\rthird",
		"first line\r\nsecond line\r\n\rthird",
	}
	for _, v := range variants {
		n := NormalizeText(v)
		assert.Equal(t, 3, CountLines(n), "%q", v)
		assert.Equal(t, 5, CountWords(n), "%q", v)
	}
}

func TestCountLinesSkipsBlankLines(t *testing.T) {
	assert.Equal(t, 0, CountLines(""))
	assert.Equal(t, 1, CountLines("   padded   "))
	assert.Equal(t, 2, CountLines("a\n \t \nb"))
}

func TestTruncateText(t *testing.T) {
	s, truncated := TruncateText("abc", 3)
	assert.Equal(t, "abc", s)
	assert.False(t, truncated)

	s, truncated = TruncateText("abcd", 3)
	assert.Equal(t, "abc...", s)
	assert.True(t, truncated)
}
