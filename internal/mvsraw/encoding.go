package mvsraw

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

const (
	DefaultSrcEncoding      = "ibm-1047"
	DefaultResponseEncoding = "iso8859-1"
)

var codepages = map[string]encoding.Encoding{
	"ibm-1047":   charmap.CodePage1047,
	"ibm1047":    charmap.CodePage1047,
	"cp1047":     charmap.CodePage1047,
	"ibm-037":    charmap.CodePage037,
	"ibm037":     charmap.CodePage037,
	"cp037":      charmap.CodePage037,
	"ibm-1140":   charmap.CodePage1140,
	"cp1140":     charmap.CodePage1140,
	"iso8859-1":  charmap.ISO8859_1,
	"iso-8859-1": charmap.ISO8859_1,
	"latin1":     charmap.ISO8859_1,
	"iso8859-15": charmap.ISO8859_15,
	"utf-8":      unicode.UTF8,
	"utf8":       unicode.UTF8,
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	enc, ok := codepages[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}

// convert decodes raw bytes from the source code page and limits the text
// to what the response code page can represent. The result is UTF-8.
func convert(raw []byte, src, response string) (string, error) {
	if src == "" {
		src = DefaultSrcEncoding
	}
	if response == "" {
		response = DefaultResponseEncoding
	}

	srcEnc, err := lookupEncoding(src)
	if err != nil {
		return "", err
	}
	respEnc, err := lookupEncoding(response)
	if err != nil {
		return "", err
	}

	text, err := srcEnc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode content as %s: %w", src, err)
	}

	// Characters the response code page lacks are replaced rather than failing
	encoded, err := encoding.ReplaceUnsupported(respEnc.NewEncoder()).Bytes(text)
	if err != nil {
		return "", fmt.Errorf("failed to encode content as %s: %w", response, err)
	}
	out, err := respEnc.NewDecoder().Bytes(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to encode content as %s: %w", response, err)
	}
	if !utf8.Valid(out) {
		return "", fmt.Errorf("content is not valid text in %s", response)
	}
	return string(out), nil
}
