package config

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

func exportTestData() map[string]map[string]string {
	return map[string]map[string]string{
		"GUI":   {"Theme": "clam"},
		"Files": {"LastDirectory": "/home/user/Pictures"},
	}
}

func TestExport_INI(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, exportTestData(), "ini"))

	// Sections in name order
	assert.Equal(t,
		"[Files]\nLastDirectory = /home/user/Pictures\n\n[GUI]\nTheme = clam\n",
		buf.String())

	f, err := ini.Load(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "clam", f.Section("GUI").Key("Theme").String())
}

func TestExport_INIReadsBack(t *testing.T) {
	data := map[string]map[string]string{
		ini.DefaultSection: {"Version": "1"},
		"Alpha":            {"Padded": "  x  ", "Quoted": `"q"`},
		"GUI":              {"Theme": "clam"},
	}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, data, "ini"))

	// Keys without a section come before the first header
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("Version = 1\n")))

	f, err := ini.LoadSources(loadOptions, buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, data, snapshot(f))
}

func TestExport_DefaultFormatIsINI(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, Export(&a, exportTestData(), ""))
	require.NoError(t, Export(&b, exportTestData(), "ini"))
	assert.Equal(t, b.String(), a.String())
}

func TestExport_Structured(t *testing.T) {
	tests := []struct {
		format    string
		unmarshal func([]byte, any) error
	}{
		{"toml", toml.Unmarshal},
		{"yaml", yaml.Unmarshal},
		{"json", json.Unmarshal},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Export(&buf, exportTestData(), tt.format))

			var got map[string]map[string]string
			require.NoError(t, tt.unmarshal(buf.Bytes(), &got))
			assert.Equal(t, exportTestData(), got)
		})
	}
}

func TestExport_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, map[string]map[string]string{}, "ini"))
	assert.Empty(t, buf.String())
}

func TestExport_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Export(&buf, exportTestData(), "xml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}
