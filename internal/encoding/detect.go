package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// peekSize covers BOM sniffing and gives chardet enough sample text.
const peekSize = 4096

// NewUTF8Reader wraps an uploaded statement so it reads as UTF-8.
// Bank exports arrive in whatever encoding the bank's tooling produced:
// UTF-8 with or without a BOM, UTF-16 from Windows exports, or a
// legacy single-byte charset.
//
// Detection order:
//  1. BOM (UTF-8 BOM is stripped; UTF-16 LE/BE is decoded)
//  2. Content that validates as UTF-8 passes through untouched
//  3. chardet heuristics
//  4. Windows-1252 fallback
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	buf, err := br.Peek(peekSize)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek: %w", err)
	}

	if bytes.HasPrefix(buf, bomUTF8) {
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	}

	if bytes.HasPrefix(buf, bomUTF16LE) {
		return decodeUTF16(br, unicode.LittleEndian), nil
	}

	if bytes.HasPrefix(buf, bomUTF16BE) {
		return decodeUTF16(br, unicode.BigEndian), nil
	}

	if utf8.Valid(buf) {
		return br, nil
	}

	return decodeDetected(br, buf), nil
}

func decodeUTF16(r io.Reader, endianness unicode.Endianness) io.Reader {
	return transform.NewReader(r, unicode.UTF16(endianness, unicode.UseBOM).NewDecoder())
}

func decodeDetected(r io.Reader, sample []byte) io.Reader {
	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err == nil {
		switch result.Charset {
		case "UTF-8":
			// A multi-byte rune cut at the peek boundary fails
			// utf8.Valid even though the stream is fine.
			return r
		case "UTF-16LE":
			return decodeUTF16(r, unicode.LittleEndian)
		case "UTF-16BE":
			return decodeUTF16(r, unicode.BigEndian)
		}
	}

	// Windows-1252 decodes every byte value and is a superset of
	// ISO-8859-1, so it covers the detected and the undetectable
	// legacy cases alike.
	return transform.NewReader(r, charmap.Windows1252.NewDecoder())
}
