package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQualityEvaluate(t *testing.T) {
	svc := NewQualityService()

	t.Run("complete document scores excellent", func(t *testing.T) {
		text := strings.Repeat("palabra ", 600) +
			"Decreto 1330 de 2019, expedido el 25 de julio de 2019. " +
			"Factor 4, Característica 12. Referencias: [1]"

		evaluation := svc.Evaluate(text)

		assert.Equal(t, 100, evaluation.Score)
		assert.Equal(t, BandExcellent, evaluation.Band)
		assert.Empty(t, evaluation.Recommendations)
	})

	t.Run("thin document needs improvement", func(t *testing.T) {
		evaluation := svc.Evaluate("Informe breve sin contenido relevante.")

		assert.Equal(t, 0, evaluation.Score)
		assert.Equal(t, BandPoor, evaluation.Band)
		assert.Len(t, evaluation.Recommendations, 6)
	})

	t.Run("recommendations mirror the missing criteria", func(t *testing.T) {
		evaluation := svc.Evaluate("Texto corto.")

		joined := strings.Join(evaluation.Recommendations, " ")
		assert.Contains(t, joined, "demasiado corto")
		assert.Contains(t, joined, "fechas")
		assert.Contains(t, joined, "referencias normativas")
		assert.Contains(t, joined, "factores")
		assert.Contains(t, joined, "características")
	})

	t.Run("normative mention without context is fair", func(t *testing.T) {
		text := strings.Repeat("texto ", 300) + "conforme al decreto vigente"

		evaluation := svc.Evaluate(text)

		assert.Equal(t, 40, evaluation.Score)
		assert.Equal(t, BandFair, evaluation.Band)
	})

	t.Run("length predicate counts runes, not bytes", func(t *testing.T) {
		// 1000 accented runes occupy 2000 bytes; the length bonus must
		// still be withheld.
		evaluation := svc.Evaluate(strings.Repeat("á", 1000))

		assert.Equal(t, 0, evaluation.Score)
		joined := strings.Join(evaluation.Recommendations, " ")
		assert.Contains(t, joined, "demasiado corto")

		evaluation = svc.Evaluate(strings.Repeat("á", 1001))
		assert.Equal(t, 20, evaluation.Score)
	})

	t.Run("band thresholds", func(t *testing.T) {
		assert.Equal(t, BandExcellent, bandFor(80))
		assert.Equal(t, BandGood, bandFor(60))
		assert.Equal(t, BandFair, bandFor(40))
		assert.Equal(t, BandPoor, bandFor(39))
	})
}
