// Package diag defines the core diagnostic model shared by every lint phase.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture
//     findings produced by the syntactic, type-based, CFG, and cross-module
//     phases.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//   - Model fix suggestions as structured edits that internal/fix or the CLI
//     can materialise and optionally apply.
//
// # Scope
//
// Package diag does not perform any formatting, IO, CLI integration, or
// suppression logic. Suppression lives in internal/suppress and
// internal/lintctx; rendering lives in internal/report; applying fixes lives
// in internal/fix.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Note, Warning, Error) defined in severity.go.
//   - LintName – the stable lint identifier that resolves through the
//     unified registry (internal/registry), or one of the reserved
//     pseudo-lint names in codes.go for boundary diagnostics.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing to the issue.
//   - Notes – optional secondary spans/messages for additional context.
//   - Fixes – optional Fix records describing how to address the problem.
//
// Notes should be used sparingly: each note must add new context rather than
// repeating the diagnostic message.
//
// # Fix suggestions
//
// Fix represents a possible automated correction. Each fix carries a Kind,
// an Applicability (AlwaysSafe, SafeWithHeuristics, ManualReview), concrete
// Edits, and an optional lazy Thunk. Fixes are data-only; internal/fix calls
// Resolve/MaterializeFixes to expand lazy thunks deterministically.
//
// # Emitting diagnostics
//
// Lints never construct a Reporter themselves. internal/lintctx.Context is
// the sole holder of a Reporter; it resolves suppression before forwarding
// to a Bag. See internal/lintctx for the rule-facing API.
package diag
