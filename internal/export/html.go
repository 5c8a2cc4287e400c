package export

import (
	"fmt"
	"html"
	"os"
	"sort"
	"strings"

	"github.com/fenilsonani/disklens/internal/model"
	"github.com/fenilsonani/disklens/pkg/humanize"
)

const htmlMaxDepth = 4

const htmlHeader = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>DiskLens Report</title>
<style>
  body { font-family: -apple-system, system-ui, sans-serif; margin: 20px; background: #1a1a2e; color: #e0e0e0; }
  h1 { color: #00d4ff; }
  h2 { color: #5dade2; margin-top: 30px; }
  .summary { background: #16213e; padding: 15px; border-radius: 8px; margin-bottom: 20px; }
  .summary p { margin: 6px 0; }
  .summary strong { color: #00d4ff; }
  .node { display: flex; align-items: center; padding: 4px 0; }
  .name { min-width: 300px; }
  .size { min-width: 100px; text-align: right; color: #aaa; margin-right: 10px; }
  .pct { min-width: 50px; text-align: right; color: #888; margin-right: 10px; }
  .bar { width: 200px; height: 16px; background: #0f3460; border-radius: 3px; overflow: hidden; }
  .bar-fill { height: 100%; border-radius: 3px; background: linear-gradient(90deg, #00d4ff, #0f3460); }
  .dir { color: #5dade2; }
  .file { color: #aaa; }
  .error-list { background: #2c1a1a; padding: 15px; border-radius: 8px; border-left: 3px solid #e74c3c; }
  details { margin-left: 20px; }
  summary { cursor: pointer; padding: 4px; }
  summary:hover { background: #16213e; border-radius: 4px; }
</style>
</head>
<body>
`

// HTML writes a self-contained dark-theme report with collapsible
// directories and percentage bars.
func HTML(result *model.ScanResult, path string) error {
	var b strings.Builder

	b.WriteString(htmlHeader)
	b.WriteString("<h1>DiskLens Report</h1>\n<div class=\"summary\">\n")
	fmt.Fprintf(&b, "<p><strong>Path:</strong> %s</p>\n", html.EscapeString(result.RootPath))
	fmt.Fprintf(&b, "<p><strong>Total Size:</strong> %s</p>\n", humanize.Bytes(result.TotalSize))
	fmt.Fprintf(&b, "<p><strong>Files:</strong> %d</p>\n", result.TotalFiles)
	fmt.Fprintf(&b, "<p><strong>Directories:</strong> %d</p>\n", result.TotalDirs)
	fmt.Fprintf(&b, "<p><strong>Scan Duration:</strong> %.2fs</p>\n", result.Duration.Seconds())
	b.WriteString("</div>\n<h2>Directory Tree</h2>\n")

	writeNodeHTML(&b, result.Root, result.TotalSize, 0)

	if len(result.Errors) > 0 {
		fmt.Fprintf(&b, "<h2>Errors (%d total)</h2>\n<div class=\"error-list\">\n<ul>\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Fprintf(&b, "<li><strong>%s</strong>: %s</li>\n", e.Kind, html.EscapeString(e.Path))
		}
		b.WriteString("</ul>\n</div>\n")
	}

	b.WriteString("</body>\n</html>\n")

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func writeNodeHTML(b *strings.Builder, node *model.Node, total int64, depth int) {
	if depth > htmlMaxDepth {
		return
	}

	pct := node.Percentage(total)
	row := fmt.Sprintf(
		`<div class="node"><span class="name %s">%s</span><span class="size">%s</span><span class="pct">%.1f%%</span><div class="bar"><div class="bar-fill" style="width:%.1f%%"></div></div></div>`,
		nodeClass(node.Kind), html.EscapeString(node.Name), humanize.Bytes(node.Size), pct, pct)

	if node.Kind == model.KindDirectory && len(node.Children) > 0 && depth < htmlMaxDepth {
		fmt.Fprintf(b, "<details><summary>%s</summary>\n", row)
		children := append([]*model.Node(nil), node.Children...)
		sort.Slice(children, func(i, j int) bool { return children[i].Size > children[j].Size })
		for _, child := range children {
			writeNodeHTML(b, child, total, depth+1)
		}
		b.WriteString("</details>\n")
		return
	}

	b.WriteString(row + "\n")
}

func nodeClass(k model.Kind) string {
	if k == model.KindDirectory {
		return "dir"
	}
	return "file"
}
