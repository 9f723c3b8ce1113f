// Package notify prints operator-facing status lines.
//
// Every line is prefixed with a symbol that identifies its kind: ► activity,
// ✔ success, ⚠ warning, ✗ error, ℹ info. Titles start with an emoji and mark
// the beginning of a stage; wrap the command output in a
// [StageSeparatingWriter] to get a blank line between stages.
package notify
