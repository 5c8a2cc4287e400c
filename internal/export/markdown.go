package export

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fenilsonani/disklens/internal/model"
	"github.com/fenilsonani/disklens/pkg/humanize"
)

// markdownMaxDepth limits the tree table; deep listings make the report
// unreadable long before they make it useful.
const markdownMaxDepth = 3

// Markdown writes a summary plus a depth-limited, size-sorted tree table.
func Markdown(result *model.ScanResult, path string) error {
	var b strings.Builder

	b.WriteString("# DiskLens Report\n\n")
	fmt.Fprintf(&b, "- **Path:** %s\n", result.RootPath)
	fmt.Fprintf(&b, "- **Total Size:** %s\n", humanize.Bytes(result.TotalSize))
	fmt.Fprintf(&b, "- **Files:** %d\n", result.TotalFiles)
	fmt.Fprintf(&b, "- **Directories:** %d\n", result.TotalDirs)
	fmt.Fprintf(&b, "- **Scan Duration:** %.2fs\n\n", result.Duration.Seconds())

	b.WriteString("## Directory Tree\n\n")
	b.WriteString("| Name | Size | % |\n")
	b.WriteString("|------|------|---|\n")
	writeNodeMarkdown(&b, result.Root, result.TotalSize, 0)

	if len(result.Errors) > 0 {
		fmt.Fprintf(&b, "\n## Errors (%d total)\n\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Fprintf(&b, "- **%s**: %s\n", e.Kind, e.Path)
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func writeNodeMarkdown(b *strings.Builder, node *model.Node, total int64, depth int) {
	if depth > markdownMaxDepth {
		return
	}

	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(b, "| %s%s %s | %s | %.1f%% |\n",
		indent, kindIcon(node.Kind), node.Name,
		humanize.Bytes(node.Size), node.Percentage(total))

	if node.Kind != model.KindDirectory || depth >= markdownMaxDepth {
		return
	}

	children := append([]*model.Node(nil), node.Children...)
	sort.Slice(children, func(i, j int) bool { return children[i].Size > children[j].Size })
	for _, child := range children {
		writeNodeMarkdown(b, child, total, depth+1)
	}
}

func kindIcon(k model.Kind) string {
	switch k {
	case model.KindDirectory:
		return "📁"
	case model.KindFile:
		return "📄"
	case model.KindSymlink:
		return "🔗"
	default:
		return "❓"
	}
}
