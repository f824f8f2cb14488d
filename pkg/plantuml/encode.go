// Package plantuml implements the PlantUML text-to-URL encoding and the
// diagram-type heuristics used to pick a rendering format.
package plantuml

import (
	"bytes"
	"compress/zlib"
	"strings"

	apperrors "codoc-backend/pkg/errors"
)

// encodeAlphabet is the PlantUML 6-bit alphabet. It is NOT base64: digits
// come first and the 62/63 symbols are '-' and '_'.
const encodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-_"

// Encode converts PlantUML source text into the URL-safe token the public
// PlantUML server decodes. The text is deflated at maximum compression, the
// zlib container is stripped (2-byte header, 4-byte Adler-32 trailer) and the
// raw DEFLATE stream is regrouped into 6-bit values mapped through
// encodeAlphabet. An empty input yields an empty token.
func Encode(text string) (string, error) {
	if text == "" {
		return "", nil
	}

	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return "", apperrors.NewEncoding("failed to initialize compressor", err)
	}
	if _, err := zw.Write([]byte(text)); err != nil {
		zw.Close()
		return "", apperrors.NewEncoding("failed to compress diagram source", err)
	}
	if err := zw.Close(); err != nil {
		return "", apperrors.NewEncoding("failed to flush compressor", err)
	}

	// The remote decoder expects the bare DEFLATE stream, not the zlib
	// container around it.
	raw := buf.Bytes()
	raw = raw[2 : len(raw)-4]

	var sb strings.Builder
	sb.Grow((len(raw) + 2) / 3 * 4)
	for i := 0; i < len(raw); i += 3 {
		var b2, b3 byte
		if i+1 < len(raw) {
			b2 = raw[i+1]
		}
		if i+2 < len(raw) {
			b3 = raw[i+2]
		}
		append3Bytes(&sb, raw[i], b2, b3)
	}
	return sb.String(), nil
}

// append3Bytes splits a 3-byte group into four 6-bit values. A partial final
// group is zero-padded but still emits all four characters.
func append3Bytes(sb *strings.Builder, b1, b2, b3 byte) {
	c1 := b1 >> 2
	c2 := (b1&3)<<4 | b2>>4
	c3 := (b2&15)<<2 | b3>>6
	c4 := b3 & 63
	sb.WriteByte(encodeAlphabet[c1])
	sb.WriteByte(encodeAlphabet[c2])
	sb.WriteByte(encodeAlphabet[c3])
	sb.WriteByte(encodeAlphabet[c4])
}

// RenderURL composes the rendering service URL for the given source text.
// The format segment is caller-supplied and not validated here.
func RenderURL(text, format, baseURL string) (string, error) {
	token, err := Encode(text)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(baseURL, "/") + "/" + format + "/" + token, nil
}

// PreferredFormat picks the rendering format for the given source. Ditaa
// diagrams only render as PNG on the public server.
func PreferredFormat(text string) string {
	if strings.Contains(strings.ToLower(text), "@startditaa") {
		return "png"
	}
	return "svg"
}
