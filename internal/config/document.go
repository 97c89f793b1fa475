package config

import (
	"reflect"
	"slices"
	"strings"
	"unicode"

	"gopkg.in/ini.v1"
)

// block is one section of the raw file: its header line (if any) and every
// line up to the next header, each with its original line ending.
type block struct {
	name   string
	header bool
	lines  []string
}

// document is the raw text of the preference file split into blocks.
// Edits touch only the lines of the section being changed, so every other
// section keeps its exact bytes.
type document struct {
	blocks  []*block
	newline string
}

func parseDocument(data []byte) *document {
	text := string(data)
	d := &document{
		blocks:  []*block{{name: ini.DefaultSection}},
		newline: "\n",
	}
	if strings.Contains(text, "\r\n") {
		d.newline = "\r\n"
	}

	for i, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		head := line
		if i == 0 {
			head = strings.TrimPrefix(head, "\ufeff")
		}
		if name, ok := headerName(head); ok {
			d.blocks = append(d.blocks, &block{name: name, header: true, lines: []string{line}})
			continue
		}
		last := d.blocks[len(d.blocks)-1]
		last.lines = append(last.lines, line)
	}
	return d
}

// headerName reports whether line opens a section, and which.
func headerName(line string) (string, bool) {
	t := strings.TrimLeftFunc(line, unicode.IsSpace)
	if t == "" || t[0] != '[' {
		return "", false
	}
	closeIdx := strings.LastIndexByte(t, ']')
	if closeIdx < 1 {
		return "", false
	}
	return t[1:closeIdx], true
}

// keyName returns the key defined by line, or "" for blank lines, comments
// and headers.
func keyName(line string) string {
	t := strings.TrimLeftFunc(line, unicode.IsSpace)
	if t == "" || strings.ContainsRune("#;[", rune(t[0])) {
		return ""
	}
	idx := strings.IndexAny(t, "=:")
	if idx < 1 {
		return ""
	}
	return strings.TrimSpace(t[:idx])
}

func lineEnding(line string) string {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return "\r\n"
	case strings.HasSuffix(line, "\n"):
		return "\n"
	}
	return ""
}

// encodeValue returns value as it must appear after "key = " for the parser
// to give it back unchanged. Values with surrounding whitespace, or that open
// a quoted value, are wrapped in backquotes.
func encodeValue(value string) string {
	if value != strings.TrimSpace(value) ||
		strings.HasPrefix(value, "`") ||
		strings.HasPrefix(value, `"""`) {
		return "`" + value + "`"
	}
	return value
}

func (d *document) sectionBlocks(name string) []*block {
	var out []*block
	for _, b := range d.blocks {
		if b.name == name {
			out = append(out, b)
		}
	}
	return out
}

// set stores key = value in section. An existing definition is replaced in
// place; otherwise the key is added after the last entry of the section,
// and a missing section is appended to the end of the file.
func (d *document) set(section, key, value string) {
	entry := key + " = " + encodeValue(value)

	blocks := d.sectionBlocks(section)
	for bi := len(blocks) - 1; bi >= 0; bi-- {
		b := blocks[bi]
		for li := len(b.lines) - 1; li >= 0; li-- {
			line := b.lines[li]
			if keyName(line) != key {
				continue
			}
			indent := line[:len(line)-len(strings.TrimLeftFunc(line, unicode.IsSpace))]
			b.lines[li] = indent + entry + lineEnding(line)
			return
		}
	}

	if len(blocks) > 0 {
		b := blocks[len(blocks)-1]
		at := 0
		for li, line := range b.lines {
			if (li == 0 && b.header) || keyName(line) != "" {
				at = li + 1
			}
		}
		if at > 0 && lineEnding(b.lines[at-1]) == "" {
			b.lines[at-1] += d.newline
		}
		b.lines = append(b.lines[:at], append([]string{entry + d.newline}, b.lines[at:]...)...)
		return
	}

	if d.String() != "" {
		last := d.blocks[len(d.blocks)-1]
		end := len(last.lines) - 1
		if lineEnding(last.lines[end]) == "" {
			last.lines[end] += d.newline
		}
		if strings.TrimSpace(last.lines[end]) != "" {
			last.lines = append(last.lines, d.newline)
		}
	}
	d.blocks = append(d.blocks, &block{
		name:   section,
		header: true,
		lines:  []string{"[" + section + "]" + d.newline, entry + d.newline},
	})
}

// remove deletes every definition of key in section. With dropSection the
// section's blocks go as well.
func (d *document) remove(section, key string, dropSection bool) {
	lastDropped := false
	kept := d.blocks[:0]
	for i, b := range d.blocks {
		if b.name != section {
			kept = append(kept, b)
			continue
		}
		if dropSection && b.header {
			lastDropped = i == len(d.blocks)-1
			continue
		}
		lines := b.lines[:0]
		for _, line := range b.lines {
			if keyName(line) != key {
				lines = append(lines, line)
			}
		}
		b.lines = lines
		kept = append(kept, b)
	}
	d.blocks = kept

	if lastDropped {
		last := d.blocks[len(d.blocks)-1]
		for len(last.lines) > 0 && strings.TrimSpace(last.lines[len(last.lines)-1]) == "" {
			last.lines = last.lines[:len(last.lines)-1]
		}
	}
}

func (d *document) String() string {
	var b strings.Builder
	for _, blk := range d.blocks {
		for _, line := range blk.lines {
			b.WriteString(line)
		}
	}
	return b.String()
}

// render writes sections in the given order, one "key = value" line per key
// and a blank line between sections. Keys of the DEFAULT section come first
// without a header.
func render(order []string, keys map[string][]string, values map[string]map[string]string) string {
	var b strings.Builder
	for _, name := range order {
		if name == ini.DefaultSection {
			if len(keys[name]) == 0 {
				continue
			}
		} else {
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString("[" + name + "]\n")
		}
		for _, k := range keys[name] {
			b.WriteString(k + " = " + encodeValue(values[name][k]) + "\n")
		}
	}
	return b.String()
}

// renderFile lays f out from scratch. Comments are not carried over.
func renderFile(f *ini.File) string {
	var order []string
	keys := make(map[string][]string)
	for _, sec := range f.Sections() {
		order = append(order, sec.Name())
		keys[sec.Name()] = sec.KeyStrings()
	}
	return render(order, keys, snapshot(f))
}

// snapshot returns every section and its own keys. An empty DEFAULT section
// is left out.
func snapshot(f *ini.File) map[string]map[string]string {
	data := make(map[string]map[string]string)
	for _, sec := range f.Sections() {
		keys := sec.KeysHash()
		if sec.Name() == ini.DefaultSection && len(keys) == 0 {
			continue
		}
		data[sec.Name()] = keys
	}
	return data
}

// hasKey reports whether sec itself defines key. Section.HasKey would also
// look in parent sections of dotted names.
func hasKey(sec *ini.Section, key string) bool {
	return slices.Contains(sec.KeyStrings(), key)
}

// parsesTo reports whether text reads back as exactly want.
func parsesTo(text string, want map[string]map[string]string) bool {
	f, err := ini.LoadSources(loadOptions, []byte(text))
	if err != nil {
		return false
	}
	return reflect.DeepEqual(snapshot(f), want)
}
