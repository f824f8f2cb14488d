package plantuml

import (
	"bytes"
	"compress/flate"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeToken is a reference implementation of the server-side decoder: it
// reverses the 6-bit alphabet mapping and inflates the raw DEFLATE stream.
func decodeToken(t *testing.T, token string) string {
	t.Helper()

	if token == "" {
		return ""
	}
	require.Equal(t, 0, len(token)%4, "token length must be a multiple of 4")

	raw := make([]byte, 0, len(token)/4*3)
	for i := 0; i < len(token); i += 4 {
		var v [4]byte
		for j := 0; j < 4; j++ {
			idx := strings.IndexByte(encodeAlphabet, token[i+j])
			require.NotEqual(t, -1, idx, "token character outside alphabet: %q", token[i+j])
			v[j] = byte(idx)
		}
		raw = append(raw,
			v[0]<<2|v[1]>>4,
			v[1]<<4|v[2]>>2,
			v[2]<<6|v[3],
		)
	}

	// Trailing zero padding past the final DEFLATE block is ignored by the
	// inflater, matching the remote decoder.
	zr := flate.NewReader(bytes.NewReader(raw))
	defer zr.Close()
	out, err := io.ReadAll(zr)
	require.NoError(t, err)
	return string(out)
}

func TestEncode_Empty(t *testing.T) {
	token, err := Encode("")
	require.NoError(t, err)
	assert.Equal(t, "", token)
}

func TestEncode_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{
			name: "simple sequence",
			text: "@startuml\nAlice -> Bob: Hello\n@enduml",
		},
		{
			name: "single character",
			text: "a",
		},
		{
			name: "two characters",
			text: "ab",
		},
		{
			name: "unicode",
			text: "@startuml\nparticipant \"Zoë\" as Z\nZ -> Z: héllo ✓\n@enduml",
		},
		{
			name: "multiline class diagram",
			text: "@startuml\nclass Car {\n  - engine: Engine\n  + start(): void\n}\nCar *-- Engine\n@enduml",
		},
		{
			name: "highly repetitive",
			text: strings.Repeat("A -> B: ping\nB --> A: pong\n", 200),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := Encode(tt.text)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			assert.Equal(t, tt.text, decodeToken(t, token))
		})
	}
}

func TestEncode_Deterministic(t *testing.T) {
	const text = "@startuml\nactor User\nUser -> System: Request\n@enduml"

	first, err := Encode(text)
	require.NoError(t, err)

	// Encoding is pure: prior calls must not influence the result.
	_, err = Encode("something else entirely")
	require.NoError(t, err)

	second, err := Encode(text)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEncode_URLSafeAlphabet(t *testing.T) {
	token, err := Encode("@startuml\nAlice -> Bob\n@enduml")
	require.NoError(t, err)

	for i := 0; i < len(token); i++ {
		assert.NotEqual(t, -1, strings.IndexByte(encodeAlphabet, token[i]),
			"character %q at index %d is outside the PlantUML alphabet", token[i], i)
	}
	assert.NotContains(t, token, "+")
	assert.NotContains(t, token, "/")
	assert.NotContains(t, token, "=")
}

func TestRenderURL(t *testing.T) {
	url, err := RenderURL("@startuml\nA -> B\n@enduml", "svg", "https://www.plantuml.com/plantuml/")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "https://www.plantuml.com/plantuml/svg/"))
	// Trailing separators on the base URL must not double up.
	assert.NotContains(t, url, "//svg")

	token := strings.TrimPrefix(url, "https://www.plantuml.com/plantuml/svg/")
	assert.Equal(t, "@startuml\nA -> B\n@enduml", decodeToken(t, token))
}

func TestRenderURL_FormatSegment(t *testing.T) {
	url, err := RenderURL("x", "png", "http://localhost:8080/plantuml")
	require.NoError(t, err)
	assert.Contains(t, url, "/png/")
}

func TestPreferredFormat(t *testing.T) {
	assert.Equal(t, "svg", PreferredFormat("@startuml\nA -> B\n@enduml"))
	assert.Equal(t, "png", PreferredFormat("@startditaa\n+---+\n@endditaa"))
	assert.Equal(t, "png", PreferredFormat("@STARTDITAA"))
}
