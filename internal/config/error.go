package config

import (
	"fmt"
	"io"
	"strings"
)

// ConfigError aggregates configuration errors. Validation messages are "<section>.<key>: ..."
// and are reported grouped by TOML section.
type ConfigError struct {
	Path    string   // Config file path, empty for built-in defaults
	Missing []string // Unresolved environment variables
	Errors  []string // Validation errors
}

// SectionErrors holds the validation messages for one TOML table.
type SectionErrors struct {
	Section string
	Errors  []string // Messages with the section prefix removed
}

// Sections groups Errors by section in the order sections first appear.
// Messages without a section prefix are grouped under "".
func (e *ConfigError) Sections() []SectionErrors {
	var out []SectionErrors
	index := make(map[string]int)
	for _, msg := range e.Errors {
		section, rest := "", msg
		if key, _, ok := strings.Cut(msg, ":"); ok {
			if s, field, ok := strings.Cut(key, "."); ok {
				section, rest = s, field+msg[len(key):]
			}
		}
		i, ok := index[section]
		if !ok {
			i = len(out)
			index[section] = i
			out = append(out, SectionErrors{Section: section})
		}
		out[i].Errors = append(out[i].Errors, rest)
	}
	return out
}

func (e *ConfigError) Error() string {
	if !e.HasErrors() {
		return ""
	}

	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing environment variables: "+strings.Join(e.Missing, ", "))
	}
	for _, s := range e.Sections() {
		label := "[" + s.Section + "]"
		if s.Section == "" {
			label = "config"
		}
		parts = append(parts, label+" "+strings.Join(s.Errors, "; "))
	}

	msg := strings.Join(parts, "\n")
	if e.Path != "" {
		return e.Path + ": " + msg
	}
	return msg
}

// Report writes a human-readable listing of every problem to w.
func (e *ConfigError) Report(w io.Writer) {
	if len(e.Missing) > 0 {
		fmt.Fprintln(w, "Missing environment variables:")
		for _, m := range e.Missing {
			fmt.Fprintf(w, "  - %s\n", m)
		}
		fmt.Fprintln(w)
	}

	sections := e.Sections()
	if len(sections) == 0 {
		return
	}
	fmt.Fprintln(w, "Validation errors:")
	for _, s := range sections {
		if s.Section != "" {
			fmt.Fprintf(w, "  [%s]\n", s.Section)
		}
		for _, msg := range s.Errors {
			fmt.Fprintf(w, "    - %s\n", msg)
		}
	}
	fmt.Fprintln(w)
}

// HasErrors returns true if there are any errors.
func (e *ConfigError) HasErrors() bool {
	return len(e.Missing) > 0 || len(e.Errors) > 0
}
