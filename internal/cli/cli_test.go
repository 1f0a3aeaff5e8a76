package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	labels, force, noBreach, remoteURL = nil, false, false, ""
	jsonOutput, checkHistory, interactive, hashed, overwrite = false, false, false, false, false
	skipWait = true

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env")}, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

func testEnv(t *testing.T) {
	t.Setenv("BREACH_DISABLED", "true")
	t.Setenv("ANALYSIS_URL", "")
	t.Setenv("HISTORY_BACKEND", "file")
	t.Setenv("HISTORY_PATH", t.TempDir())
}

func TestAnalyzeCommand(t *testing.T) {
	testEnv(t)

	out, err := run(t, "analyze", "password123", "--suggestions", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Weak (56.87 bits")
	assert.Contains(t, out, "Online (1k guesses/sec)")
	assert.Contains(t, out, "commonly used passwords")
	assert.NotContains(t, out, "Suggestions:")

	out, err = run(t, "analyze", "password123", "--json", "--check-history")
	require.NoError(t, err)
	assert.Contains(t, out, `"classification": "Weak"`)
	assert.Contains(t, out, `"similar": false`)

	_, err = run(t, "analyze")
	assert.Error(t, err)
}

func TestHistoryCommands(t *testing.T) {
	testEnv(t)

	out, err := run(t, "history", "add", "summer2021", "-l", "home,wifi")
	require.NoError(t, err)
	id := regexp.MustCompile(`Saved (\w{26})`).FindStringSubmatch(out)
	require.Len(t, id, 2, out)

	_, err = run(t, "history", "add", "summer2022")
	assert.ErrorContains(t, err, "too similar")

	_, err = run(t, "history", "add", "summer2022", "--force")
	require.NoError(t, err)

	out, err = run(t, "history", "list", "-l", "wifi")
	require.NoError(t, err)
	assert.Contains(t, out, id[1])
	assert.Contains(t, out, "**********")
	assert.Contains(t, out, "home,wifi")
	assert.NotContains(t, out, "summer")

	out, err = run(t, "history", "label", id[1], "-l", "old")
	require.NoError(t, err)
	assert.Contains(t, out, "labels: old")

	_, err = run(t, "history", "rm", id[1])
	require.NoError(t, err)

	_, err = run(t, "history", "rm", id[1])
	assert.ErrorContains(t, err, "not found")
}

func TestGenerateCommands(t *testing.T) {
	testEnv(t)

	out, err := run(t, "generate", "strong", "-c", "2", "-l", "20")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)

	out, err = run(t, "generate", "harden", "abc")
	require.NoError(t, err)
	assert.Contains(t, out, "bits")

	out, err = run(t, "generate", "dna", "--character", "Gandalf", "--pet", "Biscuit", "--destination", "Kyoto")
	require.NoError(t, err)
	assert.Contains(t, out, "Against someone who knows your answers")
}

func TestAuditCommand(t *testing.T) {
	testEnv(t)

	in := filepath.Join(t.TempDir(), "passwords.txt")
	require.NoError(t, os.WriteFile(in, []byte("password123\nabc\r\n\nCorrect-Horse-Battery-9\n"), 0o600))

	out, err := run(t, "audit", "-i", in, "-t", "2")
	require.NoError(t, err)
	assert.Regexp(t, `Total\s+3`, out)
	assert.Regexp(t, `Weak\s+1`, out)
	assert.Regexp(t, `Breach unknown\s+3`, out)
}

func TestWordsetCommands(t *testing.T) {
	testEnv(t)

	dir := t.TempDir()
	in := filepath.Join(dir, "rockyou.txt")
	gcs := filepath.Join(dir, "rockyou.gcs")
	require.NoError(t, os.WriteFile(in, []byte("123456\npassword\niloveyou\nprincess\n"), 0o600))

	_, err := run(t, "wordset", "create", "-i", in, "-o", gcs, "-p", "1024", "-g", "2")
	require.NoError(t, err)

	_, err = run(t, "wordset", "create", "-i", in, "-o", gcs)
	assert.ErrorContains(t, err, "overwrite")

	out, err := run(t, "wordset", "query", "-i", gcs, "princess")
	require.NoError(t, err)
	assert.Contains(t, out, "Password is present")

	out, err = run(t, "wordset", "query", "-i", gcs, "-s", "5BAA61E4C9B93F3F0682250B6CF8331B7EE68FD8")
	require.NoError(t, err)
	assert.Contains(t, out, "Password is present")

	_, err = run(t, "wordset", "query", "-i", gcs, "-s", "nothex")
	assert.Error(t, err)
}
