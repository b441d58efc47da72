package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"asistente-normativo/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
)

func TestShouldSearch(t *testing.T) {
	svc := NewSearchService(&config.SearchConfig{Timeout: time.Second}, zap.NewNop())

	cases := []struct {
		query string
		want  bool
	}{
		{"¿Qué dice el Decreto 1330 sobre créditos?", true},
		{"según el reglamento estudiantil", true},
		{"condiciones de calidad de los programas", true},
		{"requisitos de acreditación", true},
		{"factor 4", true},
		{"¿Qué establece la norma para el registro calificado?", true},
		{"hola, ¿cómo estás?", false},
		{"ayúdame a redactar un correo", false},
	}

	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			assert.Equal(t, tc.want, svc.ShouldSearch(tc.query))
		})
	}
}

func TestSearchLookup(t *testing.T) {
	ctx := context.Background()

	t.Run("returns answer and citations", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/search", r.URL.Path)
			require.Equal(t, http.MethodPost, r.Method)

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "decreto 1330 resultados de aprendizaje", body["query"])
			assert.NotEmpty(t, body["include_domains"])

			json.NewEncoder(w).Encode(map[string]interface{}{
				"answer": "El Decreto 1330 define los resultados de aprendizaje.",
				"results": []map[string]string{
					{"title": "Decreto 1330", "url": "https://www.mineducacion.gov.co/1330"},
					{"title": "CNA", "url": "https://www.cna.gov.co/lineamientos"},
				},
			})
		}))
		defer server.Close()

		svc := NewSearchService(&config.SearchConfig{
			APIKey:  "test-key",
			BaseURL: server.URL,
			Timeout: time.Second,
		}, zap.NewNop())

		result := svc.Lookup(ctx, "decreto 1330 resultados de aprendizaje")

		assert.Equal(t, "El Decreto 1330 define los resultados de aprendizaje.", result.Answer)
		assert.Equal(t, []string{"https://www.mineducacion.gov.co/1330", "https://www.cna.gov.co/lineamientos"}, result.Citations)
	})

	t.Run("missing credentials yield an empty result", func(t *testing.T) {
		svc := NewSearchService(&config.SearchConfig{Timeout: time.Second}, zap.NewNop())

		result := svc.Lookup(ctx, "decreto 1330")

		assert.Empty(t, result.Answer)
		assert.Empty(t, result.Citations)
	})

	t.Run("backend failure yields an empty result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		svc := NewSearchService(&config.SearchConfig{
			APIKey:  "test-key",
			BaseURL: server.URL,
			Timeout: time.Second,
		}, zap.NewNop())

		result := svc.Lookup(ctx, "decreto 1330")

		assert.Empty(t, result.Answer)
		assert.Empty(t, result.Citations)
	})

	t.Run("unreachable backend yields an empty result", func(t *testing.T) {
		svc := NewSearchService(&config.SearchConfig{
			APIKey:  "test-key",
			BaseURL: "http://127.0.0.1:1",
			Timeout: 200 * time.Millisecond,
		}, zap.NewNop())

		result := svc.Lookup(ctx, "decreto 1330")

		assert.Empty(t, result.Answer)
	})
}
