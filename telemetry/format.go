package telemetry

import (
	"fmt"
	"io"
	"time"

	"github.com/robinvdvleuten/bookkeeper/output"
)

// slowOperation is the duration from which a timing is highlighted.
const slowOperation = 100 * time.Millisecond

// formatTimingTree writes root and its children as a tree:
//
//	budget report: 12ms
//	├─ load budget: 8ms
//	│  └─ actuals: 5ms
//	└─ generate: 1ms
func formatTimingTree(w io.Writer, root *timerNode, styles *output.Styles) {
	name, timing := root.name, formatDuration(root.duration())
	if styles != nil {
		name = styles.Keyword(name)
	}
	_, _ = fmt.Fprintf(w, "%s: %s\n", name, timing)

	for i, child := range root.children {
		formatNode(w, child, "", i == len(root.children)-1, styles)
	}
}

func formatNode(w io.Writer, node *timerNode, prefix string, isLast bool, styles *output.Styles) {
	branch, extension := "├─ ", "│  "
	if isLast {
		branch, extension = "└─ ", "   "
	}

	tree, timing := prefix+branch, formatDuration(node.duration())
	if styles != nil {
		tree = styles.Dim(tree)
		timing = styles.Timing(timing, node.duration() >= slowOperation)
	}
	_, _ = fmt.Fprintf(w, "%s%s: %s\n", tree, node.name, timing)

	for i, child := range node.children {
		formatNode(w, child, prefix+extension, i == len(node.children)-1, styles)
	}
}

// formatDuration shows milliseconds below one second and seconds above.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
