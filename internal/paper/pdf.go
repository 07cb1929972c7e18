package paper

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"
)

// ErrMalformedPDF indicates bytes that cannot be parsed as a PDF container.
var ErrMalformedPDF = eris.New("paper: malformed pdf")

// ExtractText parses raw PDF bytes and concatenates per-page text with a
// newline separator, preserving page order. A page that yields no extractable
// text (image-only, broken fonts) contributes an empty string rather than an
// error; only an unparsable container fails.
func ExtractText(data []byte) (text string, err error) {
	// ledongthuc/pdf panics on some truncated inputs.
	defer func() {
		if r := recover(); r != nil {
			err = eris.Wrapf(ErrMalformedPDF, "parse panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", eris.Wrapf(ErrMalformedPDF, "parse: %v", err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		p := reader.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		s, err := p.GetPlainText(nil)
		if err != nil {
			s = ""
		}
		pages = append(pages, s)
	}

	return strings.Join(pages, "\n"), nil
}
