package main

import "fmt"

// Warning is one recoverable problem encountered while processing a
// schema: a skipped clause, a skipped file, or an unresolved reference.
type Warning struct {
	File  string
	Table string
	Msg   string
}

func (w Warning) String() string {
	switch {
	case w.Table != "" && w.File != "":
		return fmt.Sprintf("%s (%s): %s", w.Table, w.File, w.Msg)
	case w.Table != "":
		return fmt.Sprintf("%s: %s", w.Table, w.Msg)
	case w.File != "":
		return fmt.Sprintf("%s: %s", w.File, w.Msg)
	default:
		return w.Msg
	}
}

// Report accumulates everything a schema run wants to tell the caller
// beyond the emitted text. Every auto-correction and every skip lands
// here; nothing is silently dropped. The report is a plain value
// threaded through the pipeline, so tests read it directly instead of
// capturing log output.
type Report struct {
	Warnings     []Warning
	Fixes        []FixRecord
	FilesParsed  int
	FilesSkipped int
	TablesParsed int
}

func (r *Report) warnf(file, table, format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{File: file, Table: table, Msg: fmt.Sprintf(format, args...)})
}
