package worker

import (
	"strconv"
	"strings"
)

// applyFirmwareLine updates state from one trimmed firmware line, per
// spec.md §4.7. Recognition order matters: the first matching rule among
// error/ready wins and returns early; the report rules (3-5) are
// non-exclusive and all run.
func applyFirmwareLine(state *PrinterState, line string) {
	if isErrorLine(line) {
		raw := line
		state.LastError = &raw
		return
	}
	if strings.HasPrefix(line, "ok") {
		state.Ready = true
		return
	}

	if isTemperatureReport(line) {
		applyTemperatureReport(state, line)
	}
	if isPositionReport(line) {
		applyPositionReport(state, line)
	}
	if isFanReport(line) {
		applyFanReport(state, line)
	}
}

// isErrorLine matches "Error" at a word start followed by ':' or ' ',
// case-sensitive, per spec.md §4.7 rule 1.
func isErrorLine(line string) bool {
	idx := strings.Index(line, "Error")
	for idx >= 0 {
		if idx == 0 || !isWordChar(line[idx-1]) {
			after := idx + len("Error")
			if after < len(line) && (line[after] == ':' || line[after] == ' ') {
				return true
			}
		}
		next := strings.Index(line[idx+1:], "Error")
		if next < 0 {
			break
		}
		idx = idx + 1 + next
	}
	return false
}

func isWordChar(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isTemperatureReport(line string) bool {
	if strings.Contains(line, "T:") || strings.Contains(line, "B:") {
		return true
	}
	for _, tok := range strings.Fields(line) {
		if len(tok) >= 2 && tok[0] == 'T' && tok[1] >= '0' && tok[1] <= '9' {
			return true
		}
	}
	return false
}

func isPositionReport(line string) bool {
	return strings.Contains(line, "X:") && strings.Contains(line, "Y:") && strings.Contains(line, "Z:")
}

func isFanReport(line string) bool {
	return strings.Contains(line, "FAN") && strings.Contains(line, "speed:")
}

// applyTemperatureReport tokenizes by whitespace and upserts T<idx>/T/B
// current/target pairs. Marlin emits the target either joined to the
// current reading in one token ("T:200.0/210.0") or as a separate token
// right after it ("T:200.0 /210.0"); both forms are handled. Malformed
// pairs leave the slot unchanged.
func applyTemperatureReport(state *PrinterState, line string) {
	fields := strings.Fields(line)
	for i := 0; i < len(fields); i++ {
		tok := fields[i]
		idx := strings.IndexByte(tok, ':')
		if idx < 0 {
			continue
		}
		key := tok[:idx]
		rest := tok[idx+1:]
		cur, target, ok := parseCurrentTarget(rest)
		if !ok {
			continue
		}
		if !strings.Contains(rest, "/") && i+1 < len(fields) && strings.HasPrefix(fields[i+1], "/") {
			if t, err := strconv.ParseFloat(fields[i+1][1:], 64); err == nil {
				target = t
				i++
			}
		}

		switch {
		case key == "T":
			upsertToolTemp(state, 0, cur, target)
		case key == "B":
			state.Bed.Temp = cur
			state.Bed.Target = target
		case len(key) >= 2 && key[0] == 'T' && isDigits(key[1:]):
			n, _ := strconv.Atoi(key[1:])
			upsertToolTemp(state, n, cur, target)
		}
	}
}

func upsertToolTemp(state *PrinterState, idx int, cur, target float64) {
	axis := state.Tools[idx]
	axis.Temp = cur
	axis.Target = target
	state.Tools[idx] = axis
}

// parseCurrentTarget parses a "cur" or "cur/target" value, the form
// firmware emits within a single whitespace-delimited token (e.g.
// "T:200.0/210.0").
func parseCurrentTarget(s string) (cur, target float64, ok bool) {
	parts := strings.SplitN(s, "/", 2)
	c, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, 0, false
	}
	if len(parts) == 1 {
		return c, 0, true
	}
	t, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, 0, false
	}
	return c, t, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// applyPositionReport strips X:/Y:/Z:/E: prefixes and assigns tools[0]'s
// axes. Unparsable tokens keep the previous value (spec.md §4.7 rule 4).
func applyPositionReport(state *PrinterState, line string) {
	axis := state.Tools[0]
	for _, tok := range strings.Fields(line) {
		if len(tok) < 2 {
			continue
		}
		letter := tok[0]
		idx := strings.IndexByte(tok, ':')
		if idx != 1 {
			continue
		}
		v, err := strconv.ParseFloat(tok[idx+1:], 64)
		if err != nil {
			continue
		}
		switch letter {
		case 'X':
			axis.X = v
		case 'Y':
			axis.Y = v
		case 'Z':
			axis.Z = v
		case 'E':
			axis.E = v
		}
	}
	state.Tools[0] = axis
}

// applyFanReport parses the integer following "speed:", clamped to
// [0,255].
func applyFanReport(state *PrinterState, line string) {
	idx := strings.Index(line, "speed:")
	if idx < 0 {
		return
	}
	rest := strings.TrimSpace(line[idx+len("speed:"):])
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end == 0 {
		return
	}
	v, err := strconv.Atoi(rest[:end])
	if err != nil {
		return
	}
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	state.FanSpeed = uint8(v)
}
