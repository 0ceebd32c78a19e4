package encoding

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	textencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/unicode/norm"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DecodeText turns an inbound message payload of unknown charset into a clean
// UTF-8 string. Messaging channels occasionally post latin-1 or UTF-16 bodies;
// the classifier downstream assumes valid UTF-8.
//
// Detection order:
//  1. Check for BOM (UTF-8 BOM is stripped; UTF-16 LE/BE is decoded)
//  2. Accept valid UTF-8 as-is
//  3. Heuristic detection via chardet
//  4. Fallback to Windows-1252
//
// The result is NFC-normalized with surrounding whitespace trimmed.
func DecodeText(raw []byte) (string, error) {
	decoded, err := decode(raw)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(norm.NFC.String(decoded)), nil
}

func decode(raw []byte) (string, error) {
	if bytes.HasPrefix(raw, bomUTF8) {
		return string(raw[len(bomUTF8):]), nil
	}

	if bytes.HasPrefix(raw, bomUTF16LE) {
		return decodeWith(raw, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM))
	}

	if bytes.HasPrefix(raw, bomUTF16BE) {
		return decodeWith(raw, unicode.UTF16(unicode.BigEndian, unicode.UseBOM))
	}

	if utf8.Valid(raw) {
		return string(raw), nil
	}

	detector := chardet.NewTextDetector()

	result, detectErr := detector.DetectBest(raw)
	if detectErr == nil {
		switch result.Charset {
		case "UTF-8":
			return string(raw), nil
		case "ISO-8859-1", "windows-1252":
			return decodeWith(raw, charmap.Windows1252)
		case "ISO-8859-9":
			return decodeWith(raw, charmap.ISO8859_9)
		}
	}

	return decodeWith(raw, charmap.Windows1252)
}

func decodeWith(raw []byte, enc textencoding.Encoding) (string, error) {
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decoding payload: %w", err)
	}

	return string(decoded), nil
}
