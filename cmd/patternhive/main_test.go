package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/patternhive/internal/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestExtract_TextJSON(t *testing.T) {
	out, err := run(t, "", "extract", "--text", "Contact Dr. John Smith at john.smith@example.com")
	require.NoError(t, err)

	var res extract.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Emails, 1)
	assert.Equal(t, "john.smith@example.com", res.Emails[0].Email)
	require.Len(t, res.Names, 1)
	assert.Equal(t, "John Smith", res.Names[0].Name)
}

func TestExtract_Formats(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"csv", "Type,Value,Additional Info,Valid/Confidence\r\nEmail,a@example.com,example.com,True\r\n"},
		{"report", "  a@example.com (example.com) - ✓ Valid"},
		{"json", `"domain": "example.com"`},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, err := run(t, "", "extract", "-t", "a@example.com", "-f", tt.format)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestExtract_File(t *testing.T) {
	path := writeFile(t, "people.csv", "name,phone\nAnn Lee,+41446681800\n")

	out, err := run(t, "", "extract", path, "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "Phone,+41 44 668 18 00,CH,True")
}

func TestExtract_Stdin(t *testing.T) {
	out, err := run(t, "reach me at stdin@example.net\n", "extract", "--format", "report")
	require.NoError(t, err)
	assert.Contains(t, out, "stdin@example.net")
}

func TestExtract_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode string
	}{
		{"bad format", []string{"extract", "-t", "x@example.com", "-f", "xml"}, "EXP001"},
		{"empty text", []string{"extract", "--text", ""}, "VAL001"},
		{"unsafe text", []string{"extract", "--text", "<script>x</script>"}, "VAL003"},
		{"unsupported file", []string{"extract", writeFile(t, "run.exe", "MZ")}, "FILE002"},
		{"blank file", []string{"extract", writeFile(t, "blank.txt", "   \n")}, "FILE003"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "["+tt.wantCode+"]")
		})
	}
}

func TestExtract_FileAndTextConflict(t *testing.T) {
	path := writeFile(t, "a.txt", "a@example.com")

	_, err := run(t, "", "extract", path, "--text", "b@example.com")
	assert.ErrorContains(t, err, "not both")
}

func TestValidate(t *testing.T) {
	good := writeFile(t, "notes.txt", "hello")
	reserved := writeFile(t, "aux.txt", "hello")

	tests := []struct {
		name     string
		args     []string
		wantOut  string
		wantCode string
	}{
		{"file ok", []string{"validate", good}, "ok: notes.txt (5 bytes)", ""},
		{"text ok", []string{"validate", "--text", "plain words"}, "ok: text accepted", ""},
		{"reserved name", []string{"validate", reserved}, "", "FILE005"},
		{"unsafe text", []string{"validate", "--text", "<a onclick=go()>x</a>"}, "", "VAL003"},
		{"nothing given", []string{"validate"}, "", "FILE004"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, "", tt.args...)
			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Contains(t, out, tt.wantOut)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), "["+tt.wantCode+"]")
		})
	}
}

func TestValidate_MaxFileSizeFromEnv(t *testing.T) {
	t.Setenv("EXTRACT_MAX_FILE_SIZE", "4")
	path := writeFile(t, "big.txt", "more than four")

	_, err := run(t, "", "validate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[FILE001]")
}
