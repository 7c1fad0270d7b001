// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI walks through one duplicate check:
//  1. [CandidateListView] : Browse the candidates about to be checked
//  2. [CheckView] : Monitor real-time progress updates
//  3. [ResultView] : Browse decisions, filterable by action
//  4. [DetailView] : Inspect one decision
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the DuplicateChecker, providing non-blocking status reporting during checks.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
