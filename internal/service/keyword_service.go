package service

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Spanish stopwords. Tokens of three characters or fewer are dropped before
// this list applies, so only longer function words need to appear here.
var stopwords = map[string]struct{}{
	"para": {}, "como": {}, "pero": {}, "este": {}, "esta": {}, "esto": {},
	"estos": {}, "estas": {}, "cual": {}, "cuales": {}, "cuál": {}, "cuáles": {},
	"donde": {}, "dónde": {}, "cuando": {}, "cuándo": {}, "sobre": {}, "entre": {},
	"desde": {}, "hasta": {}, "hacia": {}, "según": {}, "segun": {}, "porque": {},
	"aunque": {}, "también": {}, "tambien": {}, "además": {}, "ademas": {},
	"tiene": {}, "tienen": {}, "hacer": {}, "puede": {}, "pueden": {}, "debe": {},
	"deben": {}, "dice": {}, "dicen": {}, "cada": {}, "otro": {}, "otra": {},
	"otros": {}, "otras": {}, "todo": {}, "toda": {}, "todos": {}, "todas": {},
	"algo": {}, "sino": {}, "esos": {}, "esas": {}, "aquel": {}, "ellos": {},
	"ellas": {}, "nosotros": {}, "ustedes": {}, "siendo": {}, "sido": {},
	"están": {}, "estan": {}, "estar": {}, "sería": {}, "seria": {}, "fueron": {},
	"mismo": {}, "misma": {}, "mucho": {}, "muchos": {}, "menos": {}, "favor": {},
	"quiero": {}, "saber": {}, "decir": {}, "acerca": {}, "respecto": {},
}

// Normative citation patterns scanned over the raw query text. Matches are
// unioned into the keyword set even when their tokens would be filtered.
var normativePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)decreto\s+\d+`),
	regexp.MustCompile(`(?i)resoluci[oó]n\s+\d+`),
	regexp.MustCompile(`(?i)ley\s+\d+`),
	regexp.MustCompile(`(?i)acuerdo\s+\d+`),
	regexp.MustCompile(`(?i)art[ií]culo\s+\d+`),
	regexp.MustCompile(`(?i)factor\s+\d+`),
	regexp.MustCompile(`(?i)caracter[ií]stica\s+\d+`),
}

var punctuation = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
var whitespace = regexp.MustCompile(`\s+`)

type KeywordService struct{}

func NewKeywordService() *KeywordService {
	return &KeywordService{}
}

// Extract turns a free-text query into a deduplicated lowercase keyword set:
// stopword-filtered tokens plus normative citation matches. Pure; an empty
// query yields an empty set.
func (s *KeywordService) Extract(query string) []string {
	var keywords []string
	seen := make(map[string]struct{})

	add := func(keyword string) {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			return
		}
		if _, ok := seen[keyword]; ok {
			return
		}
		seen[keyword] = struct{}{}
		keywords = append(keywords, keyword)
	}

	cleaned := punctuation.ReplaceAllString(strings.ToLower(query), " ")
	for _, token := range strings.Fields(cleaned) {
		if utf8.RuneCountInString(token) <= 3 {
			continue
		}
		if _, isStopword := stopwords[token]; isStopword {
			continue
		}
		add(token)
	}

	for _, pattern := range normativePatterns {
		for _, match := range pattern.FindAllString(query, -1) {
			add(whitespace.ReplaceAllString(strings.ToLower(match), " "))
		}
	}

	return keywords
}
