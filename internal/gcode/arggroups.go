package gcode

import "sort"

// Word is a letter=value pair as it appeared in the source.
type Word struct {
	Letter byte
	Value  float32
}

// Range is a half-open span of line indices [Start, End).
type Range struct {
	Start, End int
}

func (r Range) Contains(line int) bool {
	return line >= r.Start && line < r.End
}

// Entry is one maximal consecutive-line span over which a letter's
// argument value held steady.
type Entry struct {
	Range Range
	Word  Word
}

// ArgGroups holds, for each letter A-Z, the sorted list of value-stable
// line spans across the program. Entries within a bucket are pushed in
// strictly increasing Range.Start order and never overlap.
type ArgGroups struct {
	buckets [26][]Entry
}

type activeEntry struct {
	start int
	word  Word
}

// BuildArgGroups makes a single pass over lines, producing the 26
// letter buckets described in spec.md §4.1.
func BuildArgGroups(lines []Line) *ArgGroups {
	g := &ArgGroups{}
	active := make(map[byte]activeEntry)

	for i, line := range lines {
		for _, code := range line.Commands {
			for _, arg := range code.Arguments {
				letter := upper(arg.Letter)
				word := Word{Letter: letter, Value: arg.Value}

				cur, ok := active[letter]
				switch {
				case !ok:
					active[letter] = activeEntry{start: i, word: word}
				case cur.word == word:
					// unchanged, stays active
				default:
					g.push(letter, Entry{Range: Range{Start: cur.start, End: i}, Word: cur.word})
					active[letter] = activeEntry{start: i, word: word}
				}
			}
		}
	}

	n := len(lines)
	// Flush in stable letter order for deterministic bucket contents.
	for letter := byte('A'); letter <= 'Z'; letter++ {
		if cur, ok := active[letter]; ok {
			g.push(letter, Entry{Range: Range{Start: cur.start, End: n}, Word: cur.word})
		}
	}

	return g
}

func (g *ArgGroups) push(letter byte, e Entry) {
	idx := letter - 'A'
	g.buckets[idx] = append(g.buckets[idx], e)
}

// Bucket returns the sorted entries for one letter, read-only.
func (g *ArgGroups) Bucket(letter byte) []Entry {
	return g.buckets[upper(letter)-'A']
}

// Get returns the set of letters with a stable argument value at line,
// one Word per letter whose most recent command provided that argument
// and whose value has not changed since.
func (g *ArgGroups) Get(line int) []Word {
	var words []Word
	for i := 0; i < 26; i++ {
		bucket := g.buckets[i]
		if len(bucket) == 0 {
			continue
		}
		// Largest entry with Range.Start <= line, via binary search.
		j := sort.Search(len(bucket), func(k int) bool {
			return bucket[k].Range.Start > line
		})
		if j == 0 {
			continue
		}
		entry := bucket[j-1]
		if entry.Range.Contains(line) {
			words = append(words, entry.Word)
		}
	}
	return words
}
