// Package encoding normalizes uploaded payout statements to UTF-8. Banks in
// the Dominican and Mexican markets export CSVs in a mix of UTF-8 (with and
// without BOM), UTF-16, and Windows-1252, so every upload goes through
// detection before parsing.
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

// peekSize is how many bytes detection looks at. Enough for a BOM plus a few
// header and data rows of any statement format we have seen.
const peekSize = 4096

// NormalizeUTF8 wraps r in a reader that yields UTF-8, whatever the source
// encoding was. A UTF-8 BOM is stripped; UTF-16 is detected by BOM; everything
// else goes through charset heuristics with Windows-1252 as the last resort.
func NormalizeUTF8(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(peekSize)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek: %w", err)
	}

	if rest, ok := stripBOM(br, head); ok {
		return rest, nil
	}

	if utf8.Valid(head) {
		return br, nil
	}

	return transform.NewReader(br, detectDecoder(head)), nil
}

// stripBOM handles the three BOM cases. Returns ok=false when no BOM is
// present.
func stripBOM(br *bufio.Reader, head []byte) (io.Reader, bool) {
	switch {
	case bytes.HasPrefix(head, []byte{0xEF, 0xBB, 0xBF}):
		_, _ = br.Discard(3)
		return br, true
	case bytes.HasPrefix(head, []byte{0xFF, 0xFE}):
		return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), true
	case bytes.HasPrefix(head, []byte{0xFE, 0xFF}):
		return transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()), true
	}

	return nil, false
}

// detectDecoder runs chardet over the sample and picks a decoder for the
// best guess. Unrecognized or Latin-flavored guesses all land on
// Windows-1252, which is what legacy bank exports here actually use.
func detectDecoder(sample []byte) transform.Transformer {
	detector := chardet.NewTextDetector()

	result, err := detector.DetectBest(sample)
	if err != nil {
		return charmap.Windows1252.NewDecoder()
	}

	switch result.Charset {
	case "ISO-8859-15":
		return charmap.ISO8859_15.NewDecoder()
	case "ISO-8859-1", "windows-1252":
		return charmap.Windows1252.NewDecoder()
	default:
		return charmap.Windows1252.NewDecoder()
	}
}
