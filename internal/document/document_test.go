package document

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/containerd/errdefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type level int

func (l level) MarshalText() ([]byte, error) {
	if l == 1 {
		return []byte("High"), nil
	}
	return []byte("Low"), nil
}

func (l *level) UnmarshalText(b []byte) error {
	if strings.EqualFold(string(b), "high") {
		*l = 1
	} else {
		*l = 0
	}
	return nil
}

type sample struct {
	Name    string   `json:"name" yaml:"name" toml:"name"`
	Enabled bool     `json:"enabled" yaml:"enabled" toml:"enabled"`
	Level   level    `json:"level" yaml:"level" toml:"level"`
	URIs    []string `json:"uris" yaml:"uris" toml:"uris"`
}

func TestDecodeFile_AllFormats(t *testing.T) {
	files := map[string]string{
		"s.json": `{"name":"c1","level":"high","uris":["https://a"]}`,
		"s.yaml": "name: c1\nlevel: high\nuris:\n  - https://a\n",
		"s.yml":  "name: c1\nlevel: high\nuris: [https://a]\n",
		"s.toml": "name = \"c1\"\nlevel = \"high\"\nuris = [\"https://a\"]\n",
	}
	dir := t.TempDir()
	for name, body := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

			// Defaults survive keys the document leaves out.
			got := sample{Enabled: true}
			require.NoError(t, DecodeFile(path, &got))
			assert.Equal(t, sample{Name: "c1", Enabled: true, Level: 1, URIs: []string{"https://a"}}, got)
		})
	}
}

func TestDecode_RejectsUnknownKeys(t *testing.T) {
	inputs := map[Format]string{
		JSON: `{"name":"c1","nmae":"typo"}`,
		YAML: "name: c1\nnmae: typo\n",
		TOML: "name = \"c1\"\nnmae = \"typo\"\n",
	}
	for format, body := range inputs {
		t.Run(string(format), func(t *testing.T) {
			var got sample
			err := Decode(strings.NewReader(body), format, &got)
			assert.ErrorIs(t, err, ErrInvalidDocument)
			assert.True(t, errdefs.IsInvalidArgument(err))
		})
	}
}

func TestDecode_Empty(t *testing.T) {
	var got sample
	err := Decode(strings.NewReader(""), JSON, &got)
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestFormatOf(t *testing.T) {
	f, err := FormatOf("/tmp/client.YAML")
	require.NoError(t, err)
	assert.Equal(t, YAML, f)

	_, err = FormatOf("client.xml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = FormatOf("client")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestEncode(t *testing.T) {
	in := sample{Name: "c1", Level: 1, URIs: []string{"https://a"}}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, YAML, in))
	assert.Contains(t, buf.String(), "level: High")

	buf.Reset()
	require.NoError(t, Encode(&buf, JSON, in))
	var back sample
	require.NoError(t, Decode(&buf, JSON, &back))
	assert.Equal(t, in, back)

	buf.Reset()
	err := Encode(&buf, TOML, in)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Zero(t, buf.Len())
}
