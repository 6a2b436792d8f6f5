// Package diag defines the diagnostic model shared by the lexer, the parser
// and the resolver.
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error (severity.go).
//   - Code: compact numeric identifier with a stable string form (codes.go).
//   - Message: short human oriented text.
//   - Primary: the source.Span the finding points at.
//   - Notes: optional secondary spans, e.g. "first declared here".
//
// Producers emit through a Reporter, usually via ReportError / ReportWarning
// and a chained WithNote before Emit. BagReporter collects into a Bag, which
// sorts and deduplicates. Rendering lives in internal/diagfmt.
//
// Diagnostics are file scoped: every pass that touches a file regenerates the
// file's list wholesale, so nothing here tracks identity across runs.
package diag
