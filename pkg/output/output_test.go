package output

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/skillshare/cli/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, format string) *bytes.Buffer {
	t.Helper()
	require.NoError(t, config.Init(filepath.Join(t.TempDir(), "config.toml")))
	config.Set("output.format", format)

	color.NoColor = true
	var buf bytes.Buffer
	SetWriter(&buf)
	t.Cleanup(func() { SetWriter(color.Output) })
	return &buf
}

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		format  string
		isValid bool
	}{
		{"json", true},
		{"text", true},
		{"table", true},
		{"invalid", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.isValid, ValidateOutputFormat(tt.format), tt.format)
	}
}

func TestUnknownFormatFallsBackToText(t *testing.T) {
	capture(t, "yaml")
	assert.Equal(t, FormatText, GetOutputFormat())
}

func TestPrintRecordText(t *testing.T) {
	buf := capture(t, "text")

	require.NoError(t, PrintRecord("Profile", []Field{{"Name", "Ada"}, {"Followers", 3}}, nil))
	assert.Equal(t, "Profile\nName: Ada\nFollowers: 3\n", buf.String())
}

func TestPrintRecordJSON(t *testing.T) {
	buf := capture(t, "json")

	require.NoError(t, PrintRecord("Profile", nil, map[string]int{"followers": 3}))
	assert.JSONEq(t, `{"followers":3}`, buf.String())
}

func TestPrintListTable(t *testing.T) {
	buf := capture(t, "table")

	require.NoError(t, PrintList("Posts", nil, []string{"ID", "Title"}, [][]string{{"1", "Go"}, {"22", "Knitting"}}))
	assert.Equal(t, "ID  Title\n1   Go\n22  Knitting\n", buf.String())
}

func TestPrintListTextEmpty(t *testing.T) {
	buf := capture(t, "text")

	require.NoError(t, PrintList("Posts", nil, nil, nil))
	assert.Equal(t, "Posts\n  (none)\n", buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "a b c", Truncate("a\n b   c", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
}
