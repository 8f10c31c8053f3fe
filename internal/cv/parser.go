package cv

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
)

type Parser struct {
	uploadsDir string
}

// ParsedResume is the raw text plus basic metadata extracted from one upload.
type ParsedResume struct {
	Filename string
	FilePath string
	FileType string
	FileSize int64
	FullText string
}

func NewParser(uploadsDir string) *Parser {
	return &Parser{uploadsDir: uploadsDir}
}

// ParseFile stores the uploaded resume under the uploads dir and extracts its
// text. PDF/DOCX and friends go through docconv, plain text is read directly.
func (p *Parser) ParseFile(filename string, reader io.Reader) (*ParsedResume, error) {
	if err := os.MkdirAll(p.uploadsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads dir: %w", err)
	}

	filePath := filepath.Join(p.uploadsDir, filepath.Base(filename))
	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	size, err := io.Copy(file, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	fileType := strings.ToLower(filepath.Ext(filename))
	var text string

	switch fileType {
	case ".pdf", ".docx", ".doc", ".rtf", ".odt":
		res, err := docconv.ConvertPath(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to parse document: %w", err)
		}
		text = res.Body
	case ".txt":
		content, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read text file: %w", err)
		}
		text = string(content)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", fileType)
	}

	return &ParsedResume{
		Filename: filepath.Base(filename),
		FilePath: filePath,
		FileType: fileType,
		FileSize: size,
		FullText: text,
	}, nil
}
