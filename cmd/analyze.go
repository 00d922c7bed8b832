package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/jskeetcode/ircfg/analysis"
	"github.com/jskeetcode/ircfg/analytics"
	"github.com/jskeetcode/ircfg/lang"
	"github.com/jskeetcode/ircfg/output"
	"github.com/spf13/cobra"
)

var (
	analyzeLang      string
	analyzeFormat    string
	analyzePrintIR   bool
	analyzeDebugFlag bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a C-like or CPL source file",
	Long: `analyze parses a single source file, lowers it into the linear IR, builds
per-function control-flow graphs, computes dominators and natural loops, and
reports per-function, per-instruction, and per-call-loop features.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeLang, "lang", "", "source language: c or cpl (required)")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "text", "report format: text or json")
	analyzeCmd.Flags().BoolVar(&analyzePrintIR, "ir", false, "print the lowered IR instead of the feature report")
	analyzeCmd.Flags().BoolVar(&analyzeDebugFlag, "debug", false, "enable debug-level logging")
	_ = analyzeCmd.MarkFlagRequired("lang")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	verbosity := output.VerbosityDefault
	switch {
	case analyzeDebugFlag:
		verbosity = output.VerbosityDebug
	case verboseFlag:
		verbosity = output.VerbosityVerbose
	}
	logger := output.NewLogger(verbosity)

	path := args[0]
	language, ok := lang.Parse(analyzeLang)
	if !ok {
		analytics.ReportEvent(analytics.AnalyzeFailed)
		return fmt.Errorf("analyze: unknown --lang %q: expected c or cpl", analyzeLang)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		analytics.ReportEvent(analytics.AnalyzeFailed)
		return fmt.Errorf("analyze: reading %s: %w", path, err)
	}

	analytics.ReportEventWithProperties(analytics.AnalyzeStarted, map[string]interface{}{
		"lang": language.String(),
	})

	done := logger.StartTiming("analyze")
	_ = logger.StartProgress(fmt.Sprintf("Analyzing %s (%s)", path, language))
	result, err := analysis.Analyze(context.Background(), source, language)
	_ = logger.FinishProgress()
	done()
	if err != nil {
		analytics.ReportEvent(analytics.AnalyzeFailed)
		return fmt.Errorf("analyze: %w", err)
	}

	logger.Statistic("Functions found: %d", len(result.Functions()))
	logger.PrintTimingSummary()
	analytics.ReportEventWithProperties(analytics.AnalyzeCompleted, map[string]interface{}{
		"lang":      language.String(),
		"functions": len(result.Functions()),
	})

	if analyzePrintIR {
		fmt.Println(result.PrintIR())
		return nil
	}

	return printReport(result, analyzeFormat)
}
