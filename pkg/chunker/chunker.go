package chunker

import (
	"strings"
	"unicode/utf8"
)

// Chunk is a piece of the source text. Sep is the separator that followed
// the piece in the source, so joining Content+Sep over all chunks restores
// the original text exactly.
type Chunk struct {
	Content string
	Sep     string
	Index   int
}

var separators = []string{"\n\n", "\n", ". ", " "}

// Split breaks text into chunks of at most size runes, preferring paragraph,
// line, sentence and word boundaries in that order before falling back to a
// hard rune split. A size <= 0 returns the whole text as one chunk.
func Split(text string, size int) []Chunk {
	if text == "" {
		return nil
	}
	if size <= 0 {
		return []Chunk{{Content: text}}
	}

	chunks := splitRecursive(text, separators, size)
	for i := range chunks {
		chunks[i].Index = i
	}
	return chunks
}

// Join reassembles chunks, substituting each chunk's content with
// contents[i] while keeping the original separators.
func Join(chunks []Chunk, contents []string) string {
	var b strings.Builder
	for i, c := range chunks {
		if i < len(contents) {
			b.WriteString(contents[i])
		} else {
			b.WriteString(c.Content)
		}
		b.WriteString(c.Sep)
	}
	return b.String()
}

func splitRecursive(text string, seps []string, size int) []Chunk {
	if utf8.RuneCountInString(text) <= size {
		return []Chunk{{Content: text}}
	}

	if len(seps) == 0 {
		var result []Chunk
		runes := []rune(text)
		for i := 0; i < len(runes); i += size {
			end := min(i+size, len(runes))
			result = append(result, Chunk{Content: string(runes[i:end])})
		}
		return result
	}

	sep := seps[0]
	parts := strings.Split(text, sep)
	var result []Chunk
	var current strings.Builder
	started := false

	flush := func(trailing string) {
		group := splitRecursive(current.String(), seps[1:], size)
		group[len(group)-1].Sep = trailing
		result = append(result, group...)
		current.Reset()
		started = false
	}

	for _, part := range parts {
		if started && utf8.RuneCountInString(current.String())+utf8.RuneCountInString(sep+part) > size {
			flush(sep)
		}
		if started {
			current.WriteString(sep)
		}
		current.WriteString(part)
		started = true
	}
	if started {
		flush("")
	}

	return result
}
