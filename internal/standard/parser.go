package standard

import (
	"strings"
)

type blockKind int

const (
	blockNone blockKind = iota
	blockTitle
	blockTags
)

// block is the single heading whose body is currently accumulating.
type block struct {
	kind  blockKind
	title string
	tags  []string
	line  int
	body  strings.Builder
}

type parser struct {
	open        block
	title       string
	description string
	hasTitle    bool
	tags        map[string]string
}

// Parse converts one standard document into a Standard.
//
// Rules, applied line by line:
//   - "###" or deeper is an error.
//   - "##" opens a tag block; the rest of the line is a space separated list of tags.
//   - "#" opens the title block; the rest of the line is the title.
//   - any other line is body text, trimmed and newline terminated, appended to the open block.
//
// Opening a heading flushes the previous block. Only one title block is allowed and a
// title is required. On error no Standard is returned.
func Parse(text string) (*Standard, error) {
	p := &parser{tags: make(map[string]string)}

	for i, line := range splitLines(text) {
		lineNo := i + 1
		switch {
		case strings.HasPrefix(line, "###"):
			return nil, &FormatError{Line: lineNo, Err: ErrUnknownHeading}
		case strings.HasPrefix(line, "##"):
			if err := p.flush(); err != nil {
				return nil, err
			}
			p.open = block{kind: blockTags, tags: tagList(line[2:]), line: lineNo}
		case strings.HasPrefix(line, "#"):
			if err := p.flush(); err != nil {
				return nil, err
			}
			p.open = block{kind: blockTitle, title: strings.TrimSpace(line[1:]), line: lineNo}
		default:
			if p.open.kind == blockNone {
				return nil, &FormatError{Line: lineNo, Err: ErrOrphanContent}
			}
			p.open.body.WriteString(strings.TrimSpace(line))
			p.open.body.WriteByte('\n')
		}
	}

	if err := p.flush(); err != nil {
		return nil, err
	}
	if !p.hasTitle {
		return nil, &FormatError{Err: ErrNoTitle}
	}

	return &Standard{
		Title:       p.title,
		Description: p.description,
		Tags:        p.tags,
	}, nil
}

func (p *parser) flush() error {
	switch p.open.kind {
	case blockTitle:
		if p.hasTitle {
			return &FormatError{Line: p.open.line, Err: ErrDuplicateTitle}
		}
		p.hasTitle = true
		p.title = p.open.title
		p.description = p.open.body.String()
	case blockTags:
		body := p.open.body.String()
		for _, tag := range p.open.tags {
			p.tags[tag] = body
		}
	}
	p.open = block{}
	return nil
}

// tagList splits a tag heading on single spaces, dropping empty tokens.
func tagList(rest string) []string {
	parts := strings.Split(rest, " ")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tags = append(tags, part)
	}
	return tags
}

// splitLines splits on "\n", strips a trailing "\r" and ignores the empty
// segment after a final newline.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
