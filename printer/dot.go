package printer

import (
	"fmt"
	"strings"

	"github.com/jskeetcode/ircfg/cfg"
)

// DotOptions configures CFGToDot's output.
type DotOptions struct {
	GraphName   string
	ShowInstrs  bool
	MaxInstrs   int
}

// DefaultDotOptions matches the original exporter's defaults.
var DefaultDotOptions = DotOptions{GraphName: "CFG", ShowInstrs: true, MaxInstrs: 25}

// CFGToDot renders f's blocks and jmp/lin edges as Graphviz DOT.
func CFGToDot(f *cfg.Function, opts DotOptions) string {
	if opts.GraphName == "" {
		opts.GraphName = "CFG"
	}
	if opts.MaxInstrs == 0 {
		opts.MaxInstrs = 25
	}

	var lines []string
	lines = append(lines,
		fmt.Sprintf("digraph %s {", opts.GraphName),
		"  rankdir=TB;",
		`  node [shape=box, fontname="Consolas", fontsize=10];`,
		`  edge [fontname="Consolas", fontsize=9];`,
	)

	for _, b := range f.Blocks {
		header := fmt.Sprintf("B%d", b.ID)
		labelParts := []string{header, fmt.Sprintf("func: %s", f.Name)}

		if opts.ShowInstrs {
			shown := b.Instructions
			truncated := false
			if len(shown) > opts.MaxInstrs {
				shown = shown[:opts.MaxInstrs]
				truncated = true
			}
			var instrLines []string
			for _, inst := range shown {
				instrLines = append(instrLines, inst.String())
			}
			if truncated {
				instrLines = append(instrLines, fmt.Sprintf("... (+%d)", len(b.Instructions)-opts.MaxInstrs))
			}
			if len(instrLines) > 0 {
				labelParts = append(labelParts, "instrs:\\l"+strings.Join(instrLines, "\\l")+"\\l")
			}
		}

		label := escapeDot(strings.Join(labelParts, "\\l") + "\\l")
		lines = append(lines, fmt.Sprintf(`  "B%d" [label="%s"];`, b.ID, label))
	}

	for _, b := range f.Blocks {
		if b.Jmp != nil {
			lines = append(lines, edgeLine(b.ID, *b.Jmp, "jmp"))
		}
		if b.Lin != nil {
			lines = append(lines, edgeLine(b.ID, *b.Lin, "lin"))
		}
	}

	lines = append(lines, "}")
	return strings.Join(lines, "\n")
}

func edgeLine(src, dst int, label string) string {
	return fmt.Sprintf(`  "B%d" -> "B%d" [label="%s"];`, src, dst, escapeDot(label))
}

func escapeDot(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`{`, `\{`,
		`}`, `\}`,
		`|`, `\|`,
		`<`, `\<`,
		`>`, `\>`,
		`"`, `\"`,
	)
	return replacer.Replace(s)
}
