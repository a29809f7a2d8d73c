package services

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultChatTitle is used when a title cannot be derived from the message.
const DefaultChatTitle = "New Chat"

var aboutPattern = regexp.MustCompile(`(?:who is|information about|tell me about)\s+([^?.]*)`)

// fillerWords are skipped when building a fallback title from the message.
var fillerWords = map[string]bool{
	"what": true, "how": true, "when": true, "where": true, "why": true,
	"who": true, "which": true, "tell": true, "me": true, "about": true,
	"information": true,
}

// genericTitles are placeholder titles that a backend-suggested title is
// allowed to replace.
var genericTitles = map[string]bool{
	"chat":       true,
	"new chat":   true,
	"conversation": true,
	"discussion": true,
	"query":      true,
}

// GenerateChatTitle derives a session title from the first user message.
// Keyword rules are checked in a fixed order; the first match wins. If no
// rule matches, the first meaningful words of the message are used.
func GenerateChatTitle(message string) string {
	if strings.TrimSpace(message) == "" {
		return DefaultChatTitle
	}

	lower := strings.ToLower(strings.TrimSpace(message))

	switch {
	case containsAny(lower, "course", "subject", "syllabus", "curriculum"):
		switch {
		case strings.Contains(lower, "csit"):
			return "CSIT Course Information"
		case strings.Contains(lower, "bca"):
			return "BCA Course Information"
		case strings.Contains(lower, "bsw"):
			return "BSW Course Information"
		case strings.Contains(lower, "bbs"):
			return "BBS Course Information"
		default:
			return "Course Information"
		}

	case containsAny(lower, "who is", "information about", "tell me about"):
		if match := aboutPattern.FindStringSubmatch(lower); match != nil {
			if name := strings.TrimSpace(match[1]); name != "" {
				return "About " + capitalize(name)
			}
		}
		return fallbackTitle(message)

	case containsAny(lower, "email", "phone", "contact"):
		return "Contact Information"

	case containsAny(lower, "admission", "eligibility", "fee"):
		return "Admission Information"

	case containsAny(lower, "facility", "library", "lab"):
		return "College Facilities"

	case containsAny(lower, "program", "degree"):
		return "Academic Programs"

	case containsAny(lower, "teacher", "faculty"):
		return "Faculty Information"

	case strings.Contains(lower, "student"):
		return "Student Information"

	case containsAny(lower, "semester", "credit"):
		return "Academic Information"

	default:
		return fallbackTitle(message)
	}
}

// IsGenericTitle reports whether a title is a replaceable placeholder.
func IsGenericTitle(title string) bool {
	return genericTitles[strings.ToLower(strings.TrimSpace(title))]
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// fallbackTitle builds a title from the first meaningful words of the
// message, title-cased and truncated to 30 characters.
func fallbackTitle(message string) string {
	words := strings.Fields(message)

	meaningful := make([]string, 0, 4)
	for _, word := range words {
		if utf8.RuneCountInString(word) > 2 && !fillerWords[strings.ToLower(word)] {
			meaningful = append(meaningful, word)
			if len(meaningful) == 4 {
				break
			}
		}
	}

	if len(meaningful) > 0 {
		for i, word := range meaningful {
			meaningful[i] = capitalize(strings.ToLower(word))
		}
		return truncateTitle(strings.Join(meaningful, " "))
	}

	// Nothing survived the filter, use the raw first words instead
	if len(words) > 4 {
		words = words[:4]
	}
	return truncateTitle(strings.Join(words, " "))
}

// capitalize upper-cases the first rune. Names in messages are not
// limited to ASCII.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return strings.ToUpper(string(r)) + s[size:]
}

func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) > 30 {
		return string(runes[:30]) + "..."
	}
	return title
}
