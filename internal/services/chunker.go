package services

import (
	"strings"
	"unicode/utf8"
)

type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText packs whole lines into chunks of at most maxChunkSize runes.
// Lines longer than a chunk are split on word boundaries. Each chunk after the
// first starts with the last overlap runes of its predecessor.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	var chunks []string
	var current strings.Builder
	size := 0
	fresh := false

	flush := func() {
		chunk := current.String()
		chunks = append(chunks, chunk)
		current.Reset()
		size = 0
		fresh = false
		if tail := lastRunes(chunk, overlap); tail != "" {
			current.WriteString(tail)
			size = utf8.RuneCountInString(tail)
		}
	}

	add := func(piece, sep string) {
		n := utf8.RuneCountInString(piece)
		if size+len(sep)+n > maxChunkSize {
			if fresh {
				flush()
			}
			// the carried overlap is dropped when the piece cannot fit beside it
			if size+len(sep)+n > maxChunkSize {
				current.Reset()
				size = 0
			}
		}
		if size > 0 {
			current.WriteString(sep)
			size += len(sep)
		}
		current.WriteString(piece)
		size += n
		fresh = true
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if utf8.RuneCountInString(line) <= maxChunkSize {
			add(line, "\n")
			continue
		}

		for _, word := range strings.Fields(line) {
			add(word, " ")
		}
	}

	if fresh {
		chunks = append(chunks, current.String())
	}

	return chunks
}

func lastRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[len(runes)-n:])
}
