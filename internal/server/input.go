package server

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// TextExtractor pulls plain text out of a binary document such as a PDF.
// Extraction is an external collaborator; without one, PDF uploads degrade
// to a metadata-only description and the model infers from context.
type TextExtractor interface {
	ExtractText(name string, data []byte) (string, error)
}

// Extensions treated as plain text and forwarded verbatim to the model.
var textExtensions = map[string]bool{
	"txt": true, "csv": true, "md": true, "json": true, "js": true, "ts": true,
	"py": true, "java": true, "c": true, "cpp": true, "cs": true, "html": true,
	"css": true, "xml": true, "yml": true, "yaml": true, "log": true, "ini": true,
	"cfg": true, "conf": true, "toml": true, "jsonl": true, "ipynb": true,
	"tex": true, "rst": true, "adoc": true, "asciidoc": true, "bat": true,
	"sh": true, "php": true, "rb": true, "go": true, "rs": true, "swift": true,
	"kt": true, "dart": true, "sql": true, "pl": true, "lua": true, "asm": true,
	"s": true, "f90": true, "f": true, "r": true, "sas": true, "jsp": true,
	"asp": true, "aspx": true, "vue": true, "jsx": true, "tsx": true,
	"lock": true, "env": true, "ps1": true, "vbs": true, "wsf": true,
}

var spreadsheetExtensions = map[string]bool{
	"xls": true, "xlsx": true, "xlsm": true, "xlsb": true, "ods": true,
	"ots": true, "sxc": true, "stc": true, "uos": true, "uof": true,
	"tsv": true,
}

const maxUploadBytes = 10 << 20

// resolveFileContent turns an uploaded file into prompt content. Text and
// spreadsheet files are read as UTF-8 with a filename preamble; PDFs go
// through the extractor when one is wired; everything else becomes a
// metadata-only description.
func resolveFileContent(header *multipart.FileHeader, extractor TextExtractor) (string, error) {
	name := header.Filename
	if name == "" {
		name = "uploaded file"
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	mimeType := header.Header.Get("Content-Type")

	readAll := func() ([]byte, error) {
		f, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload: %w", err)
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
		if err != nil {
			return nil, fmt.Errorf("read upload: %w", err)
		}
		return data, nil
	}

	switch {
	case ext == "pdf" || mimeType == "application/pdf":
		if extractor == nil {
			return fmt.Sprintf("The user uploaded a file named %s. Please infer tasks based on this context.", name), nil
		}
		data, err := readAll()
		if err != nil {
			return "", err
		}
		text, err := extractor.ExtractText(name, data)
		if err != nil {
			return "", fmt.Errorf("extract pdf text: %w", err)
		}
		return fmt.Sprintf("The following is the extracted text from the PDF file '%s':\n\n%s", name, text), nil

	case textExtensions[ext] || strings.HasPrefix(mimeType, "text/"):
		data, err := readAll()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("The following is the content of the file '%s':\n\n%s", name, string(data)), nil

	case spreadsheetExtensions[ext]:
		data, err := readAll()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("The following is the content of the spreadsheet file '%s':\n\n%s", name, string(data)), nil

	case strings.HasPrefix(mimeType, "image/"):
		return fmt.Sprintf("The user uploaded an image file named %s (%s). Please infer tasks based on this context.", name, mimeType), nil

	default:
		return fmt.Sprintf("The user uploaded a file named %s of type %s. Please infer tasks based on this context.", name, mimeType), nil
	}
}

func sheetContent(sheet string) string {
	return "The following Google Sheet describes the project: " + sheet
}
