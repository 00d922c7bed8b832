package cmd

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

const cplAnalyzeFixture = `{
start() {
	foo();
	syscall(1, 2);
}
}`

// withCapturedStdout runs fn with os.Stdout redirected to a pipe and
// returns everything written to it.
func withCapturedStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(bytes.TrimSpace(out))
}

func resetAnalyzeFlags() {
	analyzeLang = ""
	analyzeFormat = "text"
	analyzePrintIR = false
	analyzeDebugFlag = false
	verboseFlag = false
}

func TestRunAnalyzeUnknownLanguage(t *testing.T) {
	resetAnalyzeFlags()
	defer resetAnalyzeFlags()

	dir := t.TempDir()
	path := dir + "/src.cpl"
	require.NoError(t, os.WriteFile(path, []byte(cplAnalyzeFixture), 0o644))

	analyzeLang = "cobol"
	err := runAnalyze(analyzeCmd, []string{path})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown --lang")
}

func TestRunAnalyzeMissingFile(t *testing.T) {
	resetAnalyzeFlags()
	defer resetAnalyzeFlags()

	analyzeLang = "cpl"
	err := runAnalyze(analyzeCmd, []string{"/no/such/file.cpl"})
	require.Error(t, err)
}

func TestRunAnalyzeCPLTextReport(t *testing.T) {
	resetAnalyzeFlags()
	defer resetAnalyzeFlags()

	dir := t.TempDir()
	path := dir + "/src.cpl"
	require.NoError(t, os.WriteFile(path, []byte(cplAnalyzeFixture), 0o644))

	analyzeLang = "cpl"
	analyzeFormat = "text"

	var err error
	out := withCapturedStdout(t, func() {
		err = runAnalyze(analyzeCmd, []string{path})
	})
	require.NoError(t, err)
	require.Contains(t, out, "FUNCTION")
	require.Contains(t, out, "start")
}

func TestRunAnalyzePrintsIR(t *testing.T) {
	resetAnalyzeFlags()
	defer resetAnalyzeFlags()

	dir := t.TempDir()
	path := dir + "/src.cpl"
	require.NoError(t, os.WriteFile(path, []byte(cplAnalyzeFixture), 0o644))

	analyzeLang = "cpl"
	analyzePrintIR = true

	var err error
	out := withCapturedStdout(t, func() {
		err = runAnalyze(analyzeCmd, []string{path})
	})
	require.NoError(t, err)
	require.Contains(t, out, "BB")
}
