// Package hexview renders a hex dump with removed byte ranges highlighted.
package hexview

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jdeng/gopurify/pkg/purify"
)

const defaultBytesPerRow = 16

var (
	offsetStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	keptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("224")).Background(lipgloss.Color("52"))
)

// Options controls the layout of a dump.
type Options struct {
	// BytesPerRow defaults to 16.
	BytesPerRow int
	// Limit caps the number of bytes rendered; zero renders everything.
	Limit int
}

// Render returns data as rows of "<offset>  <cells>", one cell per byte.
// Cells whose offset falls inside a removed range use the removed style.
func Render(data []byte, removed []purify.Range, opts Options) string {
	perRow := opts.BytesPerRow
	if perRow <= 0 {
		perRow = defaultBytesPerRow
	}
	n := len(data)
	if opts.Limit > 0 && opts.Limit < n {
		n = opts.Limit
	}

	ranges := append([]purify.Range(nil), removed...)
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start < ranges[j].Start })

	var b strings.Builder
	ri := 0
	for row := 0; row < n; row += perRow {
		b.WriteString(offsetStyle.Render(fmt.Sprintf("%08x", row)))
		b.WriteString("  ")
		end := row + perRow
		if end > n {
			end = n
		}
		for i := row; i < end; i++ {
			for ri < len(ranges) && ranges[ri].End <= i {
				ri++
			}
			cell := fmt.Sprintf("%02X", data[i])
			if ri < len(ranges) && ranges[ri].Start <= i {
				cell = removedStyle.Render(cell)
			} else {
				cell = keptStyle.Render(cell)
			}
			if i > row {
				b.WriteByte(' ')
			}
			b.WriteString(cell)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
