package cmd

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/jskeetcode/ircfg/analysis"
	"github.com/jskeetcode/ircfg/lang"
	"github.com/stretchr/testify/require"
)

const cplReportFixture = `{
start() {
	foo();
	syscall(1, 2);
}
}`

func TestPrintReportText(t *testing.T) {
	result, err := analysis.Analyze(context.Background(), []byte(cplReportFixture), lang.CPL)
	require.NoError(t, err)

	out := withCapturedStdout(t, func() {
		require.NoError(t, printReport(result, "text"))
	})
	require.Contains(t, out, "FUNCTION  BB  IR  START  CALLS  SYSCALLS")
	require.Contains(t, out, "start")
}

func TestPrintReportJSON(t *testing.T) {
	result, err := analysis.Analyze(context.Background(), []byte(cplReportFixture), lang.CPL)
	require.NoError(t, err)

	out := withCapturedStdout(t, func() {
		require.NoError(t, printReport(result, "json"))
	})

	var decoded struct {
		Functions []functionReport `json:"functions"`
		Calls     []callReport     `json:"calls"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Functions, 1)
	require.Equal(t, "start", decoded.Functions[0].Name)
	require.NotEmpty(t, decoded.Calls)
}

func TestPrintReportUnknownFormat(t *testing.T) {
	result, err := analysis.Analyze(context.Background(), []byte(cplReportFixture), lang.CPL)
	require.NoError(t, err)

	err = printReport(result, "xml")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown --format")
}
