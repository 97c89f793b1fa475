package config

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// ExportFormats lists the formats accepted by Export.
var ExportFormats = []string{"ini", "toml", "yaml", "json"}

// Export writes data (as returned by Store.Data) to w in the given format.
// Sections are emitted in name order.
func Export(w io.Writer, data map[string]map[string]string, format string) error {
	switch format {
	case "", "ini":
		return exportINI(w, data)
	case "toml":
		return toml.NewEncoder(w).Encode(data)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	default:
		return fmt.Errorf("unknown export format %q (valid: %v)", format, ExportFormats)
	}
}

func exportINI(w io.Writer, data map[string]map[string]string) error {
	var sections []string
	for name := range data {
		if name != ini.DefaultSection {
			sections = append(sections, name)
		}
	}
	sort.Strings(sections)
	if _, ok := data[ini.DefaultSection]; ok {
		sections = append([]string{ini.DefaultSection}, sections...)
	}

	keys := make(map[string][]string, len(data))
	for _, name := range sections {
		for k := range data[name] {
			keys[name] = append(keys[name], k)
		}
		sort.Strings(keys[name])
	}

	_, err := io.WriteString(w, render(sections, keys, data))
	return err
}
