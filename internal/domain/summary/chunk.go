package summary

import (
	"strings"
	"unicode"
)

// chunk is a contiguous slice of the normalized input. sep records the
// separator that preceded it in the source so the original text can be
// reconstructed by concatenating sep+text over all chunks in order.
type chunk struct {
	text string
	sep  string
}

const paragraphSep = "\n\n"

// normalizeText canonicalizes line endings, strips control characters and
// collapses runs of blank lines so paragraphs are delimited by exactly one
// blank line.
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, text)

	var paragraphs []string
	var current []string
	flush := func() {
		if len(current) == 0 {
			return
		}
		paragraphs = append(paragraphs, strings.Join(current, "\n"))
		current = nil
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return strings.TrimSpace(strings.Join(paragraphs, paragraphSep))
}

// chunkText splits normalized text into chunks no longer than max bytes.
// Paragraphs are accumulated greedily; a paragraph that alone exceeds max is
// force-split at a sentence or whitespace boundary, never mid-word.
func chunkText(text string, max int) []chunk {
	if len(text) <= max {
		return []chunk{{text: text}}
	}

	var (
		chunks  []chunk
		builder strings.Builder
	)
	sepFor := func() string {
		if len(chunks) == 0 {
			return ""
		}
		return paragraphSep
	}
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		sep := sepFor()
		chunks = append(chunks, chunk{text: builder.String(), sep: sep})
		builder.Reset()
	}

	for _, para := range strings.Split(text, paragraphSep) {
		if len(para) > max {
			flush()
			for i, piece := range splitOversize(para, max) {
				sep := ""
				if i == 0 {
					sep = sepFor()
				}
				chunks = append(chunks, chunk{text: piece, sep: sep})
			}
			continue
		}
		if builder.Len() > 0 && builder.Len()+len(paragraphSep)+len(para) > max {
			flush()
		}
		if builder.Len() > 0 {
			builder.WriteString(paragraphSep)
		}
		builder.WriteString(para)
	}
	flush()

	return chunks
}

// splitOversize cuts a single oversized paragraph into pieces of at most max
// bytes, preferring sentence ends, then whitespace. Only a single word longer
// than max forces a hard cut.
func splitOversize(para string, max int) []string {
	var pieces []string
	rest := para
	for len(rest) > max {
		cut := sentenceCut(rest, max)
		if cut <= 0 {
			cut = whitespaceCut(rest, max)
		}
		if cut <= 0 {
			cut = max
		}
		pieces = append(pieces, rest[:cut])
		rest = rest[cut:]
	}
	if rest != "" {
		pieces = append(pieces, rest)
	}
	return pieces
}

// sentenceCut returns the byte offset just after the last sentence terminator
// within limit, or -1 when none qualifies.
func sentenceCut(text string, limit int) int {
	best := -1
	for i := 0; i < limit && i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			if i+1 == len(text) || text[i+1] == ' ' || text[i+1] == '\n' || text[i+1] == '\t' {
				best = i + 1
			}
		}
	}
	return best
}

// whitespaceCut returns the byte offset just after the last whitespace within
// limit, or -1 when the prefix is a single unbroken word.
func whitespaceCut(text string, limit int) int {
	if limit > len(text) {
		limit = len(text)
	}
	idx := strings.LastIndexAny(text[:limit], " \t\n")
	if idx < 0 {
		return -1
	}
	return idx + 1
}
