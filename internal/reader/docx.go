package reader

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const documentPart = "word/document.xml"

// readDOCX joins the text of the body paragraphs with newlines
func readDOCX(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open docx archive: %w", err)
	}
	defer archive.Close()

	for _, file := range archive.File {
		if file.Name != documentPart {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open %s: %w", documentPart, err)
		}
		defer rc.Close()

		paragraphs, err := parseParagraphs(rc)
		if err != nil {
			return "", fmt.Errorf("failed to parse %s: %w", documentPart, err)
		}
		return strings.Join(paragraphs, "\n"), nil
	}
	return "", errors.New("docx archive has no " + documentPart)
}

// parseParagraphs walks the WordprocessingML token stream and returns the
// text of each paragraph that is a direct child of <w:body>. Paragraphs nested
// in tables or text boxes are not part of the body flow and are skipped.
func parseParagraphs(body io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(body)

	var (
		paragraphs     []string
		current        strings.Builder
		stack          []string
		inParagraph    bool
		paragraphDepth int
		inText         bool
	)

	parent := func() string {
		if len(stack) == 0 {
			return ""
		}
		return stack[len(stack)-1]
	}

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return paragraphs, nil
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				if !inParagraph && parent() == "body" {
					inParagraph = true
					paragraphDepth = len(stack)
					current.Reset()
				}
			case "t":
				inText = inParagraph
			case "tab":
				// tab stops in paragraph properties are also <w:tab>
				if inParagraph && parent() == "r" {
					current.WriteByte('\t')
				}
			case "br", "cr":
				if inParagraph && parent() == "r" {
					current.WriteByte('\n')
				}
			}
			stack = append(stack, t.Name.Local)

		case xml.EndElement:
			stack = stack[:len(stack)-1]
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if inParagraph && len(stack) == paragraphDepth {
					paragraphs = append(paragraphs, current.String())
					inParagraph = false
				}
			}

		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
}
