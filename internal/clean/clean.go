// Package clean provides the pure text transforms applied to every
// extracted field: invisible-character stripping, whitespace
// collapsing, and boilerplate removal.
package clean

import (
	"regexp"
	"strings"
)

var (
	// Zero-width and invisible unicode characters. Replaced with a
	// space, never deleted: deletion would merge adjacent words.
	invisibleRe  = regexp.MustCompile("[\u200b\u200c\u200d\u2060\ufeff\u200e\u200f\u00ad]")
	whitespaceRe = regexp.MustCompile("[ \t\u00a0]+")
	blankLinesRe = regexp.MustCompile(`\n[ \t]*\n+`)
	undefinedRe  = regexp.MustCompile(`\bundefined\b`)
	// Bare "null" is a script artifact unless followed by a real-word
	// continuation. RE2 has no lookahead, so the continuation is
	// captured and the match kept intact when present.
	nullRe        = regexp.MustCompile(`\bnull\b(\s+(?:and|or|pointer|value|check|safety))?`)
	sentenceEndRe = regexp.MustCompile(`([.!?])\s+`)
)

// Normalize strips invisible characters, collapses whitespace and
// blank lines, and removes stray script artifacts.
func Normalize(text string) string {
	text = invisibleRe.ReplaceAllString(text, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = blankLinesRe.ReplaceAllString(text, "\n")
	text = undefinedRe.ReplaceAllString(text, "")
	text = nullRe.ReplaceAllStringFunc(text, func(m string) string {
		if m == "null" {
			return ""
		}
		return m
	})
	return strings.TrimSpace(text)
}

// boilerplatePhrases are calls-to-action, cookie-consent banners, and
// navigation chrome dropped at sentence/line level.
var boilerplatePhrases = []string{
	"get started", "learn more", "read more", "sign up", "start free trial",
	"book a demo", "request a demo", "schedule a demo", "try for free",
	"contact sales", "talk to sales", "watch demo", "see it in action",
	"start now", "join now", "subscribe now", "download now",
	"accept all cookies", "cookie policy", "we use cookies",
	"accept cookies", "manage cookies", "cookie settings",
	"skip to main content", "skip to footer", "skip to navigation",
	"skip to content", "toggle navigation", "close menu", "open menu",
	"register now", "sign in", "log in", "create account",
}

// Short standalone CTA phrases stripped inline with word boundaries.
var inlineCTARe = regexp.MustCompile(
	`(?i)\b(?:Get Started|Learn More|Read More|Sign Up|Book a Demo|Request a Demo|` +
		`Register Now|Start Free Trial|Try for Free|Contact Sales|Talk to Sales|` +
		`Watch Demo|See it in Action|Download Now|Subscribe Now|Start Now|` +
		`Join Now|Skip to main content|Skip to footer|Skip to navigation|` +
		`Skip to content)\b`)

// RemoveBoilerplate drops short CTA and banner fragments. It operates
// on Normalize output in two passes: whole units (lines split at
// sentence boundaries) under 80 characters that contain a known
// phrase are dropped, then standalone CTA phrases embedded in running
// text are excised.
func RemoveBoilerplate(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		var parts []string
		for _, s := range SplitSentences(line) {
			if isBoilerplate(strings.ToLower(s)) {
				continue
			}
			parts = append(parts, s)
		}
		if len(parts) > 0 {
			kept = append(kept, strings.Join(parts, " "))
		}
	}
	text = strings.Join(kept, "\n")
	text = inlineCTARe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func isBoilerplate(lower string) bool {
	lower = strings.TrimSpace(lower)
	if lower == "" {
		return true
	}
	for _, bp := range boilerplatePhrases {
		if bp == lower || (len(lower) < 80 && strings.Contains(lower, bp)) {
			return true
		}
	}
	return false
}

// SplitSentences splits text on sentence-terminal punctuation followed
// by whitespace. Fragments without terminal punctuation come back as
// one sentence.
func SplitSentences(text string) []string {
	marked := sentenceEndRe.ReplaceAllString(text, "$1\x00")
	var out []string
	for _, p := range strings.Split(marked, "\x00") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
