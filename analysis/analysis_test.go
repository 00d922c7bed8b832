package analysis

import (
	"context"
	"testing"

	"github.com/jskeetcode/ircfg/lang"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeRejectsEmptySource(t *testing.T) {
	_, err := Analyze(context.Background(), nil, lang.C)
	require.ErrorIs(t, err, ErrNoSource)
}

func TestAnalyzeRejectsUnknownLanguage(t *testing.T) {
	_, err := Analyze(context.Background(), []byte("int main(){}"), lang.Unknown)
	require.ErrorIs(t, err, ErrInvalidLanguage)
}

// TestAnalyzeCScenario implements spec.md Scenario A (single function, no
// control flow): two functions, main.funccalls == 1, and all_calls() has
// exactly one entry naming "foo" with no loop info.
func TestAnalyzeCScenario(t *testing.T) {
	src := `
int foo() { return 1; }
int main() {
	foo();
	return 0;
}
`
	a, err := Analyze(context.Background(), []byte(src), lang.C)
	require.NoError(t, err)

	require.ElementsMatch(t, []string{"foo", "main"}, a.Functions())

	main, err := a.GetFunction("main")
	require.NoError(t, err)
	require.True(t, main.Features.IsStart)
	require.Equal(t, 1, main.Features.FuncCalls)

	calls := a.AllCalls()
	require.Len(t, calls, 1)
	require.Equal(t, "foo", calls[0].Callee)
	require.Nil(t, calls[0].Loop)

	_, err = a.GetFunction("nope")
	require.Error(t, err)
	var unknown *UnknownFunctionError
	require.ErrorAs(t, err, &unknown)
}

func TestAnalyzeCWhileBreakLoopFeatures(t *testing.T) {
	src := `
int main() {
	while (1) {
		foo();
		break;
	}
	return 0;
}
`
	a, err := Analyze(context.Background(), []byte(src), lang.C)
	require.NoError(t, err)

	var sawCallInLoop bool
	for _, inst := range a.AllCalls() {
		if inst.Callee == "foo" {
			require.NotNil(t, inst.Loop)
			require.GreaterOrEqual(t, inst.Loop.LoopSizeBB, 1)
			sawCallInLoop = true
		}
	}
	require.True(t, sawCallInLoop)
}

func TestAnalyzeCSyscallCounted(t *testing.T) {
	src := `
int main() {
	write(1, 0, 0);
	return 0;
}
`
	a, err := Analyze(context.Background(), []byte(src), lang.C)
	require.NoError(t, err)

	main, err := a.GetFunction("main")
	require.NoError(t, err)
	require.Equal(t, 1, main.Features.Syscalls)
}

func TestAnalyzeCPLSource(t *testing.T) {
	src := `{
start() {
	foo();
}
}`
	a, err := Analyze(context.Background(), []byte(src), lang.CPL)
	require.NoError(t, err)
	require.Contains(t, a.Functions(), "start")

	start, err := a.GetFunction("start")
	require.NoError(t, err)
	require.True(t, start.Features.IsStart)
	require.Equal(t, 1, start.Features.FuncCalls)
}

func TestPrintIRIncludesDefineLines(t *testing.T) {
	a, err := Analyze(context.Background(), []byte("int main(){ return 0; }"), lang.C)
	require.NoError(t, err)
	out := a.PrintIR()
	require.Contains(t, out, "define function(main)")
}
