package service

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
)

func writeDOCX(t *testing.T, path string, paragraphs []string) {
	t.Helper()

	var document strings.Builder
	document.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	document.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, paragraph := range paragraphs {
		document.WriteString(`<w:p><w:r><w:t>` + paragraph + `</w:t></w:r></w:p>`)
	}
	document.WriteString(`</w:body></w:document>`)

	var buffer bytes.Buffer
	writer := zip.NewWriter(&buffer)
	part, err := writer.Create("word/document.xml")
	require.NoError(t, err)
	_, err = part.Write([]byte(document.String()))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	require.NoError(t, os.WriteFile(path, buffer.Bytes(), 0644))
}

func TestExtract(t *testing.T) {
	ctx := context.Background()
	svc := NewExtractionService(zap.NewNop())
	dir := t.TempDir()

	t.Run("plain text passes through", func(t *testing.T) {
		path := filepath.Join(dir, "norma.txt")
		require.NoError(t, os.WriteFile(path, []byte("Artículo 1. Objeto del decreto.\n"), 0644))

		result := svc.Extract(ctx, path)

		assert.Equal(t, "plaintext", result.Method)
		assert.Equal(t, "Artículo 1. Objeto del decreto.", result.Text)
		assert.Equal(t, 1, result.PageCount)
	})

	t.Run("docx extracts paragraph runs", func(t *testing.T) {
		path := filepath.Join(dir, "guia.docx")
		writeDOCX(t, path, []string{"Factor 4. Procesos académicos.", "Característica 12. Evaluación."})

		result := svc.Extract(ctx, path)

		assert.Equal(t, "docx-xml", result.Method)
		assert.Equal(t, "Factor 4. Procesos académicos.\nCaracterística 12. Evaluación.", result.Text)
	})

	t.Run("corrupt docx degrades to a placeholder", func(t *testing.T) {
		path := filepath.Join(dir, "roto.docx")
		require.NoError(t, os.WriteFile(path, []byte("esto no es un archivo zip"), 0644))

		result := svc.Extract(ctx, path)

		assert.Contains(t, result.Text, "[No fue posible extraer el texto del documento roto.docx")
	})

	t.Run("unsupported format degrades to a placeholder", func(t *testing.T) {
		path := filepath.Join(dir, "datos.xlsx")
		require.NoError(t, os.WriteFile(path, []byte("datos"), 0644))

		result := svc.Extract(ctx, path)

		assert.Equal(t, "none", result.Method)
		assert.Contains(t, result.Text, "[No fue posible extraer el texto del documento datos.xlsx")
	})

	t.Run("empty file degrades to a placeholder", func(t *testing.T) {
		path := filepath.Join(dir, "vacio.txt")
		require.NoError(t, os.WriteFile(path, nil, 0644))

		result := svc.Extract(ctx, path)

		assert.Contains(t, result.Text, "[No fue posible extraer el texto del documento vacio.txt")
	})
}

func TestExtractFromReader(t *testing.T) {
	ctx := context.Background()
	svc := NewExtractionService(zap.NewNop())

	result := svc.ExtractFromReader(ctx, strings.NewReader("Acta de comité curricular."), "acta.txt")

	assert.Equal(t, "plaintext", result.Method)
	assert.Equal(t, "Acta de comité curricular.", result.Text)
}
