package service

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"
)

// ExtractionResult carries the extracted text plus its provenance. Text is
// never empty: a total failure substitutes a sentinel placeholder so
// downstream analysis always has input.
type ExtractionResult struct {
	Text      string
	PageCount int
	Method    string
}

// ExtractionService converts uploaded binaries to text. PDF goes through
// go-fitz, images through Tesseract OCR, DOCX through the OOXML document
// part, and plain text passes through. It never returns an error.
type ExtractionService struct {
	logger *zap.Logger
}

func NewExtractionService(logger *zap.Logger) *ExtractionService {
	return &ExtractionService{
		logger: logger,
	}
}

// Extract reads the file at path and extracts its text according to the
// extension. On failure the result carries a placeholder body describing
// the problem instead of an error.
func (s *ExtractionService) Extract(ctx context.Context, path string) ExtractionResult {
	ext := strings.ToLower(filepath.Ext(path))

	var (
		result ExtractionResult
		err    error
	)

	switch ext {
	case ".pdf":
		result, err = s.extractPDF(path)
	case ".jpg", ".jpeg", ".png":
		result, err = s.extractImage(path)
	case ".docx":
		result, err = s.extractDOCX(path)
	case ".txt", ".md":
		result, err = s.extractPlainText(path)
	default:
		err = fmt.Errorf("unsupported file format %q", ext)
		result.Method = "none"
	}

	if err == nil && strings.TrimSpace(result.Text) == "" {
		err = fmt.Errorf("no text found in file")
	}

	if err != nil {
		s.logger.Warn("Text extraction failed, substituting placeholder",
			zap.String("file", path),
			zap.String("method", result.Method),
			zap.Error(err),
		)
		return ExtractionResult{
			Text:   fmt.Sprintf("[No fue posible extraer el texto del documento %s: %v]", filepath.Base(path), err),
			Method: result.Method,
		}
	}

	s.logger.Info("Text extraction completed",
		zap.String("file", path),
		zap.String("method", result.Method),
		zap.Int("pages", result.PageCount),
		zap.Int("text_length", len(result.Text)),
	)

	result.Text = sanitizeUTF8(strings.TrimSpace(result.Text))
	return result
}

// ExtractFromReader writes the blob to a temp file and extracts from there.
func (s *ExtractionService) ExtractFromReader(ctx context.Context, reader io.Reader, fileName string) ExtractionResult {
	ext := strings.ToLower(filepath.Ext(fileName))
	tmpFile, err := os.CreateTemp("", "extract-*"+ext)
	if err != nil {
		s.logger.Warn("Failed to create temp file for extraction", zap.Error(err))
		return ExtractionResult{
			Text:   fmt.Sprintf("[No fue posible extraer el texto del documento %s: %v]", fileName, err),
			Method: "none",
		}
	}
	defer os.Remove(tmpFile.Name())

	_, err = io.Copy(tmpFile, reader)
	tmpFile.Close()
	if err != nil {
		s.logger.Warn("Failed to buffer upload for extraction", zap.Error(err))
		return ExtractionResult{
			Text:   fmt.Sprintf("[No fue posible extraer el texto del documento %s: %v]", fileName, err),
			Method: "none",
		}
	}

	return s.Extract(ctx, tmpFile.Name())
}

func (s *ExtractionService) extractPDF(path string) (ExtractionResult, error) {
	result := ExtractionResult{Method: "go-fitz"}

	doc, err := fitz.New(path)
	if err != nil {
		return result, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var textBuilder strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		pageText, err := doc.Text(i)
		if err != nil {
			s.logger.Warn("Failed to extract text from page",
				zap.Int("page", i+1),
				zap.String("file", path),
				zap.Error(err),
			)
			continue
		}
		if pageText != "" {
			textBuilder.WriteString(pageText)
			textBuilder.WriteString("\n")
		}
	}

	result.Text = textBuilder.String()
	result.PageCount = doc.NumPage()
	return result, nil
}

func (s *ExtractionService) extractImage(path string) (ExtractionResult, error) {
	result := ExtractionResult{Method: "tesseract", PageCount: 1}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage("spa", "eng"); err != nil {
		return result, fmt.Errorf("failed to configure OCR languages: %w", err)
	}
	if err := client.SetImage(path); err != nil {
		return result, fmt.Errorf("failed to load image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return result, fmt.Errorf("OCR failed: %w", err)
	}

	result.Text = text
	return result, nil
}

// docx text lives in word/document.xml: runs of <w:t> inside <w:p>.
type docxDocument struct {
	Body struct {
		Paragraphs []struct {
			Runs []struct {
				Text []struct {
					Content string `xml:",chardata"`
				} `xml:"t"`
			} `xml:"r"`
		} `xml:"p"`
	} `xml:"body"`
}

func (s *ExtractionService) extractDOCX(path string) (ExtractionResult, error) {
	result := ExtractionResult{Method: "docx-xml", PageCount: 1}

	data, err := os.ReadFile(path)
	if err != nil {
		return result, fmt.Errorf("failed to read file: %w", err)
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return result, fmt.Errorf("not a valid DOCX archive: %w", err)
	}

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return result, fmt.Errorf("failed to open document part: %w", err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return result, fmt.Errorf("failed to read document part: %w", err)
		}

		var doc docxDocument
		if err := xml.Unmarshal(content, &doc); err != nil {
			return result, fmt.Errorf("failed to parse document part: %w", err)
		}

		var textBuilder strings.Builder
		for i, paragraph := range doc.Body.Paragraphs {
			if i > 0 {
				textBuilder.WriteString("\n")
			}
			for _, run := range paragraph.Runs {
				for _, text := range run.Text {
					textBuilder.WriteString(text.Content)
				}
			}
		}

		result.Text = textBuilder.String()
		return result, nil
	}

	return result, fmt.Errorf("archive carries no word/document.xml")
}

func (s *ExtractionService) extractPlainText(path string) (ExtractionResult, error) {
	result := ExtractionResult{Method: "plaintext", PageCount: 1}

	data, err := os.ReadFile(path)
	if err != nil {
		return result, fmt.Errorf("failed to read file: %w", err)
	}

	result.Text = string(data)
	return result, nil
}
