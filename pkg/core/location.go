package core

import "fmt"

// Location attributes a diagnostic to the source that produced a tensor reference.
// The zero value means no location is known.
type Location struct {
	Module string `json:"module,omitempty" yaml:"module,omitempty"`
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
	Line   int    `json:"line,omitempty" yaml:"line,omitempty"` // 1-based
}

// IsValid returns true if the location names a file or module.
func (l Location) IsValid() bool {
	return l.File != "" || l.Module != ""
}

// String formats the location as module:file:line, omitting unknown parts.
func (l Location) String() string {
	if !l.IsValid() {
		return ""
	}
	s := l.File
	if l.Line > 0 {
		s = fmt.Sprintf("%s:%d", s, l.Line)
	}
	if l.Module != "" {
		if s == "" {
			return l.Module
		}
		return l.Module + " " + s
	}
	return s
}
