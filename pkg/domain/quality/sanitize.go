package quality

import "strings"

// SanitizePromptInput cleans user-supplied free text before it is
// interpolated into an LLM prompt. Angle brackets are escaped so the
// text cannot smuggle markup into downstream renderers, backticks
// become single quotes so it cannot break out of fenced blocks, and
// newlines collapse to spaces so it cannot fake additional prompt
// instructions on fresh lines. This is a security control, not
// formatting.
func SanitizePromptInput(s string) string {
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "`", "'")
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.TrimSpace(s)
}
