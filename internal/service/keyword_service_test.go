package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordExtract(t *testing.T) {
	svc := NewKeywordService()

	t.Run("filters stopwords and short tokens", func(t *testing.T) {
		keywords := svc.Extract("¿Qué dice el Decreto 1330 sobre los resultados de aprendizaje?")

		assert.Contains(t, keywords, "decreto")
		assert.Contains(t, keywords, "1330")
		assert.Contains(t, keywords, "resultados")
		assert.Contains(t, keywords, "aprendizaje")
		assert.NotContains(t, keywords, "dice")
		assert.NotContains(t, keywords, "sobre")
		assert.NotContains(t, keywords, "qué")
		assert.NotContains(t, keywords, "los")
	})

	t.Run("unions normative citation matches", func(t *testing.T) {
		keywords := svc.Extract("¿Qué dice el Decreto 1330 sobre el Artículo 5?")

		assert.Contains(t, keywords, "decreto 1330")
		assert.Contains(t, keywords, "artículo 5")
	})

	t.Run("lowercases and deduplicates", func(t *testing.T) {
		keywords := svc.Extract("Acreditación ACREDITACIÓN acreditación")

		count := 0
		for _, keyword := range keywords {
			if keyword == "acreditación" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("strips punctuation", func(t *testing.T) {
		keywords := svc.Extract("¡registro-calificado!")

		assert.Contains(t, keywords, "registro")
		assert.Contains(t, keywords, "calificado")
	})

	t.Run("empty query yields empty set", func(t *testing.T) {
		assert.Empty(t, svc.Extract(""))
		assert.Empty(t, svc.Extract("   "))
	})

	t.Run("all stopwords yields empty set", func(t *testing.T) {
		assert.Empty(t, svc.Extract("qué dice sobre esto"))
	})
}
