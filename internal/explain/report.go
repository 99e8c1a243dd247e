package explain

import (
	"strings"
)

// NoTagsFound is reported when no trailing tag was recognised.
const NoTagsFound = "*No tone tags were found*"

// Line is one explained tag.
type Line struct {
	StandardID  string
	Tag         string
	Explanation string
}

// String formats the line as "**<standard>**: <explanation>".
func (l Line) String() string {
	return "**" + l.StandardID + "**: " + l.Explanation
}

// Report lists explained tags in scan order.
type Report struct {
	Lines []Line
}

// Empty reports whether no tag was explained.
func (r Report) Empty() bool {
	return len(r.Lines) == 0
}

// String renders one line per tag, or NoTagsFound.
func (r Report) String() string {
	if r.Empty() {
		return NoTagsFound
	}
	var b strings.Builder
	for i, line := range r.Lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line.String())
	}
	return b.String()
}
