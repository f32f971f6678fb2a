package summary

import "strings"

// fallbackSummary produces a deterministic local summary used when the remote
// capability is unavailable or keeps echoing its input. The word budget is a
// sixth of the input, clamped between 10 words and the style's length bound,
// so the result compresses rather than reproduces. Never empty.
func fallbackSummary(text string, style Style) string {
	spec := styleTable[resolveStyle(string(style))]
	total := len(strings.Fields(text))
	budget := total / 6
	if budget < 10 {
		budget = 10
	}
	if budget > spec.maxLength {
		budget = spec.maxLength
	}
	// Cap below the input length: a fallback as long as the input would
	// reproduce the echo it replaces.
	if budget >= total && total > 1 {
		budget = total - 1
	}

	var (
		kept  []string
		words int
	)
	for _, sentence := range splitSentences(text) {
		count := len(strings.Fields(sentence))
		if len(kept) > 0 && words+count > budget {
			break
		}
		kept = append(kept, sentence)
		words += count
		if words >= budget {
			break
		}
	}
	if len(kept) == 0 {
		kept = []string{truncateWords(text, budget)}
	} else if words > budget && len(kept) == 1 {
		kept[0] = truncateWords(kept[0], budget)
	}
	if total == 1 && len(kept) == 1 {
		kept[0] = shortenToken(kept[0])
	}

	if style == StyleBullets {
		return formatBullets(kept, spec.prefix)
	}
	return strings.TrimSpace(strings.Join(kept, " "))
}

// splitSentences breaks text into trimmed sentences on terminal punctuation.
// Paragraph breaks also terminate a sentence so headings survive as items.
func splitSentences(text string) []string {
	var (
		sentences []string
		start     int
	)
	emit := func(end int) {
		s := strings.TrimSpace(text[start:end])
		if s != "" {
			sentences = append(sentences, s)
		}
		start = end
	}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			if i+1 == len(text) || text[i+1] == ' ' || text[i+1] == '\n' {
				emit(i + 1)
			}
		case '\n':
			emit(i)
			start = i + 1
		}
	}
	emit(len(text))
	return sentences
}

// shortenToken cuts an unbroken token that word truncation cannot shorten.
func shortenToken(token string) string {
	runes := []rune(token)
	if len(runes) < 2 {
		return token
	}
	return string(runes[:(len(runes)+1)/2]) + "..."
}

func truncateWords(text string, limit int) string {
	words := strings.Fields(text)
	if limit <= 0 || len(words) <= limit {
		return strings.TrimSpace(text)
	}
	return strings.Join(words[:limit], " ") + "..."
}

// formatBullets renders items as a hyphenated list, one per line.
func formatBullets(items []string, prefix string) string {
	var b strings.Builder
	for _, item := range items {
		item = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(item), "-"))
		if item == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(prefix)
		b.WriteString(item)
	}
	return b.String()
}
