package services_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/samriddhi-edu/asksamriddhi-api/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestGenerateChatTitle_KeywordRules(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected string
	}{
		{
			name:     "empty message",
			message:  "",
			expected: "New Chat",
		},
		{
			name:     "whitespace only",
			message:  "   ",
			expected: "New Chat",
		},
		{
			name:     "csit course query",
			message:  "What subjects are in the CSIT course?",
			expected: "CSIT Course Information",
		},
		{
			name:     "bca syllabus query",
			message:  "show me the BCA syllabus",
			expected: "BCA Course Information",
		},
		{
			name:     "bsw curriculum query",
			message:  "bsw curriculum details",
			expected: "BSW Course Information",
		},
		{
			name:     "bbs subject query",
			message:  "bbs subject list please",
			expected: "BBS Course Information",
		},
		{
			name:     "generic course query",
			message:  "which courses do you offer",
			expected: "Course Information",
		},
		{
			name:     "who is query",
			message:  "who is ram sharma?",
			expected: "About Ram sharma",
		},
		{
			name:     "tell me about query",
			message:  "tell me about sita koirala.",
			expected: "About Sita koirala",
		},
		{
			name:     "contact query",
			message:  "what is the college phone number",
			expected: "Contact Information",
		},
		{
			name:     "admission query",
			message:  "admission eligibility criteria",
			expected: "Admission Information",
		},
		{
			name:     "fee query",
			message:  "how much is the fee",
			expected: "Admission Information",
		},
		{
			name:     "facilities query",
			message:  "does the college have a library",
			expected: "College Facilities",
		},
		{
			name:     "programs query",
			message:  "what degree options exist",
			expected: "Academic Programs",
		},
		{
			name:     "faculty query",
			message:  "list the faculty members",
			expected: "Faculty Information",
		},
		{
			name:     "student query",
			message:  "how many students are enrolled",
			expected: "Student Information",
		},
		{
			name:     "semester query",
			message:  "how many credit hours per semester",
			expected: "Academic Information",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, services.GenerateChatTitle(tt.message))
		})
	}
}

func TestGenerateChatTitle_CourseRuleWinsOverLaterRules(t *testing.T) {
	// "course" appears before the contact rule in the fixed order
	title := services.GenerateChatTitle("course coordinator email address")
	assert.Equal(t, "Course Information", title)
}

func TestGenerateChatTitle_Fallback(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected string
	}{
		{
			name:     "meaningful words title cased",
			message:  "weather today kathmandu valley region",
			expected: "Weather Today Kathmandu Valley",
		},
		{
			name:     "filler words stripped",
			message:  "what can you do",
			expected: "Can You",
		},
		{
			// No word survives the length filter, so the raw
			// first-4-words fallback applies without title casing
			name:     "short words fall back to raw prefix",
			message:  "is it ok to go",
			expected: "is it ok to",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, services.GenerateChatTitle(tt.message))
		})
	}
}

func TestGenerateChatTitle_Truncation(t *testing.T) {
	title := services.GenerateChatTitle("extracurricular opportunities volleyball tournaments scheduling")
	assert.Len(t, title, 33)
	assert.Equal(t, "...", title[30:])
}

func TestGenerateChatTitle_DevanagariName(t *testing.T) {
	title := services.GenerateChatTitle("who is सम्यक श्रेष्ठ")

	assert.Equal(t, "About सम्यक श्रेष्ठ", title)
	assert.True(t, utf8.ValidString(title))
}

func TestGenerateChatTitle_TruncatesOnRunes(t *testing.T) {
	// 35 three-byte runes; a byte-indexed cut would land mid-character
	title := services.GenerateChatTitle(strings.Repeat("क", 35))

	assert.Equal(t, strings.Repeat("क", 30)+"...", title)
	assert.True(t, utf8.ValidString(title))
}

func TestIsGenericTitle(t *testing.T) {
	assert.True(t, services.IsGenericTitle("New Chat"))
	assert.True(t, services.IsGenericTitle("chat"))
	assert.True(t, services.IsGenericTitle("  Conversation "))
	assert.True(t, services.IsGenericTitle("DISCUSSION"))
	assert.True(t, services.IsGenericTitle("query"))

	assert.False(t, services.IsGenericTitle("Course Information"))
	assert.False(t, services.IsGenericTitle("About Ram sharma"))
	assert.False(t, services.IsGenericTitle(""))
}
