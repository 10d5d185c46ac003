package gcode

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Parser yields a lazy, finite, non-restartable sequence of Lines from a
// text source. Whitespace and line endings are only separators; a line with
// only comments becomes a non-Empty Line with no Commands, and a fully
// blank line becomes Empty.
type Parser struct {
	scanner *bufio.Scanner
	done    bool
}

// NewParser wraps r for line-by-line g-code parsing.
func NewParser(r io.Reader) *Parser {
	return &Parser{scanner: bufio.NewScanner(r)}
}

// Next returns the next Line, or ok=false once the source is exhausted.
func (p *Parser) Next() (Line, bool) {
	if p.done {
		return Line{}, false
	}
	if !p.scanner.Scan() {
		p.done = true
		return Line{}, false
	}
	return parseLine(p.scanner.Text()), true
}

// parseLine parses one raw text line into a Line value.
func parseLine(raw string) Line {
	text := strings.TrimRight(raw, "\r\n")
	if strings.TrimSpace(text) == "" {
		return Line{Empty: true}
	}

	var comments []string
	codePart := text
	if idx := strings.IndexByte(text, ';'); idx >= 0 {
		if c := strings.TrimSpace(text[idx+1:]); c != "" {
			comments = append(comments, c)
		}
		codePart = text[:idx]
	}

	fields := strings.Fields(codePart)
	if len(fields) == 0 {
		if len(comments) == 0 {
			return Line{Empty: true}
		}
		return Line{Comments: comments}
	}

	var commands []Code
	var current *Code
	for _, f := range fields {
		letter := f[0]
		if isMnemonicLetter(letter) && len(f) > 1 && isNumericStart(f[1]) {
			major, minor := parseMajorMinor(f[1:])
			commands = append(commands, Code{
				Mnemonic: Mnemonic(upper(letter)),
				Major:    major,
				Minor:    minor,
			})
			current = &commands[len(commands)-1]
			continue
		}

		if letter >= 'A' && letter <= 'Z' || letter >= 'a' && letter <= 'z' {
			v, err := strconv.ParseFloat(f[1:], 32)
			if err != nil {
				continue
			}
			if current == nil {
				// Argument with no preceding command on this line: ignore,
				// matching the external-collaborator parser contract in
				// spec.md §9 (mnemonic + major + minor + arguments only).
				continue
			}
			current.Arguments = append(current.Arguments, Arg{
				Letter: byte(upper(letter)),
				Value:  float32(v),
			})
		}
	}

	if len(commands) == 0 && len(comments) == 0 {
		return Line{Empty: true}
	}
	return Line{Commands: commands, Comments: comments}
}

func isMnemonicLetter(b byte) bool {
	switch upper(b) {
	case 'G', 'M', 'T', 'O':
		return true
	}
	return false
}

func isNumericStart(b byte) bool {
	return (b >= '0' && b <= '9') || b == '.' || b == '-'
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

// parseMajorMinor splits "1.2" into major=1, minor=2. A bare "1" yields
// minor=0.
func parseMajorMinor(s string) (major, minor uint32) {
	parts := strings.SplitN(s, ".", 2)
	if n, err := strconv.ParseUint(parts[0], 10, 32); err == nil {
		major = uint32(n)
	}
	if len(parts) == 2 {
		if n, err := strconv.ParseUint(parts[1], 10, 32); err == nil {
			minor = uint32(n)
		}
	}
	return major, minor
}
