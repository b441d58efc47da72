package service

import "strings"

// DefaultChunkTokens approximates the generation window left for a single
// document excerpt. For Spanish prose one token averages about 0.75 words.
const DefaultChunkTokens = 12000

// SplitIntoChunks splits text into ordered chunks of at most
// tokenBudget×0.75 words, preserving word order. Pure and deterministic;
// empty input yields no chunks.
func SplitIntoChunks(text string, tokenBudget int) []string {
	if tokenBudget <= 0 {
		tokenBudget = DefaultChunkTokens
	}

	maxWords := int(float64(tokenBudget) * 0.75)
	if maxWords < 1 {
		maxWords = 1
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	chunks := make([]string, 0, (len(words)+maxWords-1)/maxWords)
	for start := 0; start < len(words); start += maxWords {
		end := start + maxWords
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}

	return chunks
}
