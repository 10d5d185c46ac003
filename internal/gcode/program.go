package gcode

import "io"

// Selection is the program's cursor: a half-open range [Start, End) into
// the flattened command Stack. End acts as the cursor position.
type Selection struct {
	Start, End int
}

// Program is a fully materialized g-code program: the flat command
// sequence used to drive execution, the per-text-line view, the
// argument-range index, and a cursor over the flat sequence.
type Program struct {
	Stack     []Code
	Lines     []Line
	ArgGroups *ArgGroups
	Selection Selection

	// lineOf maps a stack index back to its originating line index, needed
	// because one line may carry zero or more commands.
	lineOf []int
}

// ParseProgram consumes r to completion and builds a Program. Parsing
// itself is a single lazy pass (Parser); materializing a Program requires
// draining that sequence since the stack, line view, and arg-group index
// all need the full command list.
func ParseProgram(r io.Reader) (*Program, error) {
	p := NewParser(r)
	prog := &Program{}

	for {
		line, ok := p.Next()
		if !ok {
			break
		}
		lineIdx := len(prog.Lines)
		prog.Lines = append(prog.Lines, line)
		for _, c := range line.Commands {
			prog.Stack = append(prog.Stack, c)
			prog.lineOf = append(prog.lineOf, lineIdx)
		}
	}

	prog.ArgGroups = BuildArgGroups(prog.Lines)
	prog.Selection = Selection{Start: 0, End: len(prog.Stack)}
	return prog, nil
}

// LineOf returns the originating source-line index for a stack index.
func (p *Program) LineOf(stackIdx int) int {
	return p.lineOf[stackIdx]
}

// Cursor returns the current cursor position (Selection.End).
func (p *Program) Cursor() int {
	return p.Selection.End
}

// Advance moves the cursor forward by one, clamped to len(Stack). Returns
// the new position and whether it actually moved.
func (p *Program) Advance() (int, bool) {
	if p.Selection.End >= len(p.Stack) {
		return p.Selection.End, false
	}
	p.Selection.End++
	return p.Selection.End, true
}

// Rewind moves the cursor backward by one, clamped to Selection.Start.
// Returns the new position and whether it actually moved.
func (p *Program) Rewind() (int, bool) {
	if p.Selection.End <= p.Selection.Start {
		return p.Selection.End, false
	}
	p.Selection.End--
	return p.Selection.End, true
}
