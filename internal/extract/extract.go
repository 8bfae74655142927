package extract

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// ErrExtractionFailed wraps parse failures from the PDF and DOCX strategies.
var ErrExtractionFailed = errors.New("extraction failed")

const (
	ExtractorPDF  = "pdf"
	ExtractorDOCX = "docx"
	ExtractorText = "text"
)

// DefaultMaxParsers bounds concurrent PDF and DOCX parses until SetMaxParsers is called.
const DefaultMaxParsers = 8

var (
	slotsMu sync.RWMutex
	slots   = make(chan struct{}, DefaultMaxParsers)

	parsePDF  = extractPDF
	parseDOCX = extractDOCX
)

// SetMaxParsers resizes the parser slot pool. Parses already running keep the slot they hold
// in the previous pool. Values below 1 are treated as 1.
func SetMaxParsers(n int) {
	if n < 1 {
		n = 1
	}
	slotsMu.Lock()
	slots = make(chan struct{}, n)
	slotsMu.Unlock()
}

func parserSlots() chan struct{} {
	slotsMu.RLock()
	defer slotsMu.RUnlock()
	return slots
}

// Strategy returns the extractor name used for fileName. Matching is case-insensitive.
func Strategy(fileName string) string {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(fileName))) {
	case ".pdf":
		return ExtractorPDF
	case ".docx", ".doc":
		return ExtractorDOCX
	default:
		return ExtractorText
	}
}

// Extract derives plain text from data, choosing a strategy from the file extension.
// Libraries used: github.com/ledongthuc/pdf (PDF) and github.com/nguyenthenguyen/docx (DOCX).
func Extract(ctx context.Context, data []byte, fileName string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	strategy := Strategy(fileName)
	if strategy == ExtractorText {
		return decodeText(data), nil
	}

	// A parse abandoned on deadline keeps its slot until the parser returns, so stuck
	// parsers cannot pile up beyond the pool size.
	pool := parserSlots()
	select {
	case pool <- struct{}{}:
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}

	type outcome struct {
		res Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() { <-pool }()
		defer func() {
			if rec := recover(); rec != nil {
				done <- outcome{err: fmt.Errorf("%w: %s: panic: %v", ErrExtractionFailed, strategy, rec)}
			}
		}()
		var (
			res Result
			err error
		)
		switch strategy {
		case ExtractorPDF:
			res, err = parsePDF(data)
		default:
			res, err = parseDOCX(data)
		}
		if err != nil {
			err = fmt.Errorf("%w: %s: %v", ErrExtractionFailed, strategy, err)
		}
		done <- outcome{res: res, err: err}
	}()

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case out := <-done:
		return out.res, out.err
	}
}

func extractPDF(data []byte) (Result, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return Result{}, err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return Result{}, err
	}
	return Result{
		Text:  buf.String(),
		Extra: map[string]any{"extractor": ExtractorPDF, "pages": reader.NumPage()},
	}, nil
}

func extractDOCX(data []byte) (Result, error) {
	if len(data) == 0 {
		return Result{}, errors.New("empty docx data")
	}
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, err
	}
	defer doc.Close()

	paragraphs, err := docxParagraphs(doc.Editable().GetContent())
	if err != nil {
		return Result{}, err
	}
	return Result{
		Text:  strings.Join(paragraphs, "\n\n"),
		Extra: map[string]any{"extractor": ExtractorDOCX, "paragraphs": len(paragraphs)},
	}, nil
}

// docxParagraphs walks word/document.xml and returns the text of each non-empty w:p.
func docxParagraphs(raw string) ([]string, error) {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var (
		out    []string
		cur    strings.Builder
		inPara int
		inText bool
	)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				if inPara == 0 {
					cur.Reset()
				}
				inPara++
			case "t":
				inText = true
			case "tab":
				if inPara > 0 {
					cur.WriteString("\t")
				}
			case "br", "cr":
				if inPara > 0 {
					cur.WriteString("\n")
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if inPara > 0 {
					inPara--
				}
				if inPara == 0 && cur.Len() > 0 {
					out = append(out, cur.String())
				}
			}
		case xml.CharData:
			if inText && inPara > 0 {
				cur.Write(t)
			}
		}
	}
	return out, nil
}

// decodeText keeps the valid UTF-8 runes of data and drops the rest.
func decodeText(data []byte) Result {
	text := string(data)
	if !utf8.Valid(data) {
		text = strings.ToValidUTF8(text, "")
	}
	return Result{Text: text, Extra: map[string]any{"extractor": ExtractorText}}
}
