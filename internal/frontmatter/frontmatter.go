package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// Style captures the newline convention of a document.
type Style struct {
	Newline string
}

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// ErrNoFrontmatter indicates the document does not start with a `---` line.
var ErrNoFrontmatter = errors.New("document has no yaml frontmatter")

// Split separates YAML frontmatter (`---` delimited) from the Markdown body.
//
// If the document does not start with a YAML frontmatter delimiter, had is false
// and body is the full input.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, style Style, err error) {
	style = detectStyle(content)

	nl := style.Newline
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, style, nil
	}

	frontmatterStart := len(open)
	closeLine := []byte("---" + nl)
	if bytes.HasPrefix(content[frontmatterStart:], closeLine) {
		bodyStart := frontmatterStart + len(closeLine)
		return []byte{}, content[bodyStart:], true, style, nil
	}

	closeSeq := []byte(nl + "---")
	for offset := frontmatterStart; ; {
		idx := bytes.Index(content[offset:], closeSeq)
		if idx < 0 {
			return nil, nil, false, style, ErrMissingClosingDelimiter
		}
		delim := offset + idx
		rest := content[delim+len(closeSeq):]
		switch {
		case bytes.HasPrefix(rest, []byte(nl)):
			return content[frontmatterStart : delim+len(nl)], rest[len(nl):], true, style, nil
		case len(rest) == 0:
			return content[frontmatterStart : delim+len(nl)], rest, true, style, nil
		}
		// `---` followed by other text on the same line is not a delimiter.
		offset = delim + len(closeSeq)
	}
}

// Decode splits content and decodes the frontmatter into out.
//
// A document without frontmatter yields ErrNoFrontmatter.
func Decode(content []byte, out any) (body []byte, err error) {
	raw, body, had, _, err := Split(content)
	if err != nil {
		return nil, err
	}
	if !had {
		return nil, ErrNoFrontmatter
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return body, nil
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return nil, err
	}
	return body, nil
}

func detectStyle(content []byte) Style {
	newline := "\n"
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			newline = "\r\n"
			break
		}
		if content[i] == '\n' {
			break
		}
	}
	return Style{Newline: newline}
}
