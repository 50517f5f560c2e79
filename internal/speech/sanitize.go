// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package speech

import (
	"regexp"
	"strings"
)

// =============================================================================
// MARKDOWN SANITIZER
// =============================================================================

// Markdown constructs that read badly when spoken aloud. Replacements keep
// the human text and drop the syntax.
var (
	reImage        = regexp.MustCompile(`!\[(.*?)\]\(.*?\)`)
	reLink         = regexp.MustCompile(`\[(.*?)\]\(.*?\)`)
	reBoldStars    = regexp.MustCompile(`\*\*(.*?)\*\*`)
	reBoldUnder    = regexp.MustCompile(`__(.*?)__`)
	reItalicStar   = regexp.MustCompile(`\*(.*?)\*`)
	reItalicUnder  = regexp.MustCompile(`_(.*?)_`)
	reStrike       = regexp.MustCompile(`~~(.*?)~~`)
	reInlineCode   = regexp.MustCompile("`([^`]+)`")
	reFenceTick    = regexp.MustCompile("(?s)```.*?```")
	reFenceTilde   = regexp.MustCompile(`(?s)~~~.*?~~~`)
	reLangHint     = regexp.MustCompile(`^[\w-]+\n`)
	reHeading      = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	reHRule        = regexp.MustCompile(`(?m)^(---|\*\*\*|___)\s*$`)
	reBlockquote   = regexp.MustCompile(`(?m)^>\s+`)
	reBulletMarker = regexp.MustCompile(`(?m)^[-*+]\s+`)
	reNumberMarker = regexp.MustCompile(`(?m)^\d+\.\s+`)
	reNewlines     = regexp.MustCompile(`\n+`)
	reSpaces       = regexp.MustCompile(`\s+`)
)

// stripFence removes the fence markers and a leading language hint line,
// keeping the code content itself.
func stripFence(match, fence string) string {
	inner := strings.ReplaceAll(match, fence, "")
	inner = reLangHint.ReplaceAllString(inner, "")
	return strings.TrimSpace(inner)
}

// SanitizeMarkdown strips Markdown syntax from text so a speech engine
// reads only the prose: images and links collapse to their visible text,
// emphasis and code markers are dropped, fences lose their language hint
// line, structural markers (headings, rules, quotes, lists) are removed,
// and all whitespace collapses to single spaces.
func SanitizeMarkdown(markdown string) string {
	if markdown == "" {
		return ""
	}

	text := markdown
	text = reImage.ReplaceAllString(text, "$1")
	text = reLink.ReplaceAllString(text, "$1")
	text = reBoldStars.ReplaceAllString(text, "$1")
	text = reBoldUnder.ReplaceAllString(text, "$1")
	text = reItalicStar.ReplaceAllString(text, "$1")
	text = reItalicUnder.ReplaceAllString(text, "$1")
	text = reStrike.ReplaceAllString(text, "$1")
	// Fences before inline code, or the inline pattern eats fence markers.
	text = reFenceTick.ReplaceAllStringFunc(text, func(m string) string {
		return stripFence(m, "```")
	})
	text = reFenceTilde.ReplaceAllStringFunc(text, func(m string) string {
		return stripFence(m, "~~~")
	})
	text = reInlineCode.ReplaceAllString(text, "$1")
	text = reHeading.ReplaceAllString(text, "")
	text = reHRule.ReplaceAllString(text, "")
	text = reBlockquote.ReplaceAllString(text, "")
	text = reBulletMarker.ReplaceAllString(text, "")
	text = reNumberMarker.ReplaceAllString(text, "")

	// Newlines become single spaces to avoid long pauses.
	text = reNewlines.ReplaceAllString(text, " ")
	return strings.TrimSpace(reSpaces.ReplaceAllString(text, " "))
}
