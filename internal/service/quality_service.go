package service

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Quality bands in descending order.
const (
	BandExcellent = "Excelente"
	BandGood      = "Bueno"
	BandFair      = "Aceptable"
	BandPoor      = "Necesita mejoras"
)

type QualityEvaluation struct {
	Score           int
	Band            string
	Recommendations []string
}

var (
	datePattern = regexp.MustCompile(`(?i)\d{1,2}\s+de\s+[a-záéíóú]+\s+de\s+\d{4}|\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}/\d{4}`)
	normPattern = regexp.MustCompile(`(?i)\b(decreto|resoluci[oó]n|ley|acuerdo)\b`)
	factorTerm  = regexp.MustCompile(`(?i)\bfactor(es)?\b`)
	caracTerm   = regexp.MustCompile(`(?i)\bcaracter[ií]stica(s)?\b`)
	citePattern = regexp.MustCompile(`(?i)\[\d+\]|\(\d{4}\)|et\s+al\.?|ib[ií]d|cf\.`)
)

// QualityService scores a document body against a fixed completeness rubric.
// Deterministic, no external calls.
type QualityService struct{}

func NewQualityService() *QualityService {
	return &QualityService{}
}

// Evaluate applies the additive rubric (capped at 100) and derives the band
// plus improvement recommendations from the same predicates in reverse.
func (s *QualityService) Evaluate(text string) QualityEvaluation {
	score := 0
	var recommendations []string

	longEnough := utf8.RuneCountInString(text) > 1000
	if longEnough {
		score += 20
	} else {
		recommendations = append(recommendations, "Ampliar el contenido del documento; el texto es demasiado corto para un soporte normativo")
	}

	if len(strings.Fields(text)) >= 500 {
		score += 15
	}

	if datePattern.MatchString(text) {
		score += 10
	} else {
		recommendations = append(recommendations, "Agregar fechas de expedición y vigencia del documento")
	}

	if normPattern.MatchString(text) {
		score += 20
	} else {
		recommendations = append(recommendations, "Incluir referencias normativas (decretos, resoluciones, leyes o acuerdos)")
	}

	if factorTerm.MatchString(text) {
		score += 15
	} else {
		recommendations = append(recommendations, "Relacionar el contenido con los factores de acreditación del CNA")
	}

	if caracTerm.MatchString(text) {
		score += 10
	} else {
		recommendations = append(recommendations, "Indicar las características de calidad que el documento soporta")
	}

	if citePattern.MatchString(text) {
		score += 10
	} else {
		recommendations = append(recommendations, "Agregar referencias bibliográficas o citas de los documentos fuente")
	}

	if score > 100 {
		score = 100
	}

	return QualityEvaluation{
		Score:           score,
		Band:            bandFor(score),
		Recommendations: recommendations,
	}
}

func bandFor(score int) string {
	switch {
	case score >= 80:
		return BandExcellent
	case score >= 60:
		return BandGood
	case score >= 40:
		return BandFair
	default:
		return BandPoor
	}
}
