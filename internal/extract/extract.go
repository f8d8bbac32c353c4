// Package extract pulls clean source code out of model responses that
// mix code with prose, markdown fences, and pleasantries.
package extract

import (
	"regexp"
	"strings"
)

// CodeBlock is a fenced code block found in a response.
type CodeBlock struct {
	// Language is the fence's info string, lowercased. Empty when the
	// fence had none.
	Language string

	// Code is the block's content with surrounding whitespace trimmed.
	Code string
}

var codeBlockRe = regexp.MustCompile("(?s)```([a-zA-Z0-9+]*)[ \t]*\n(.*?)\n```")

// languageExtensions maps fence languages to file extensions.
var languageExtensions = map[string]string{
	"python":     ".py",
	"javascript": ".js",
	"typescript": ".ts",
	"java":       ".java",
	"c++":        ".cpp",
	"cpp":        ".cpp",
	"c":          ".c",
	"rust":       ".rs",
	"go":         ".go",
	"html":       ".html",
	"css":        ".css",
	"json":       ".json",
	"yaml":       ".yaml",
	"yml":        ".yml",
	"markdown":   ".md",
	"sql":        ".sql",
	"bash":       ".sh",
	"shell":      ".sh",
	"sh":         ".sh",
}

// preamblePatterns strip common lead-ins when a response has no fences.
var preamblePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^.*(?:Here's|Here is|Below is|This is).*:\s*$`),
	regexp.MustCompile(`(?m)^\s*(?:Certainly|Sure|Of course)!.*$`),
}

var blankRunsRe = regexp.MustCompile(`\n\s*\n\s*\n`)

// CodeBlocks returns every non-empty fenced code block in the content.
func CodeBlocks(content string) []CodeBlock {
	var blocks []CodeBlock
	for _, m := range codeBlockRe.FindAllStringSubmatch(content, -1) {
		code := strings.TrimSpace(m[2])
		if code == "" {
			continue
		}
		blocks = append(blocks, CodeBlock{
			Language: strings.ToLower(m[1]),
			Code:     code,
		})
	}
	return blocks
}

// PrimaryCode extracts the main code block from a response.
//
// When fenced blocks exist, a block matching preferredLanguage wins,
// falling back to the first block. When no fences exist and the
// content itself looks like code after stripping prose lead-ins, the
// cleaned content is returned. Otherwise the original content comes
// back unchanged with an empty language.
func PrimaryCode(content, preferredLanguage string) (language, code string) {
	blocks := CodeBlocks(content)
	if len(blocks) > 0 {
		if preferredLanguage != "" {
			want := strings.ToLower(preferredLanguage)
			for _, b := range blocks {
				if b.Language == want {
					return b.Language, b.Code
				}
			}
		}
		return blocks[0].Language, blocks[0].Code
	}

	cleaned := cleanRawContent(content)
	if looksLikeCode(cleaned) {
		return detectLanguage(cleaned), cleaned
	}

	return "", content
}

// FileExtension returns the file extension for a language, ".txt" when
// unknown.
func FileExtension(language string) string {
	if ext, ok := languageExtensions[strings.ToLower(language)]; ok {
		return ext
	}
	return ".txt"
}

func cleanRawContent(content string) string {
	cleaned := content
	for _, re := range preamblePatterns {
		cleaned = re.ReplaceAllString(cleaned, "")
	}
	cleaned = blankRunsRe.ReplaceAllString(cleaned, "\n\n")
	return strings.TrimSpace(cleaned)
}

// codeIndicators are structural hints that a chunk of text is source
// code rather than prose.
var codeIndicators = []*regexp.Regexp{
	regexp.MustCompile(`(?m)def \w+\(`),
	regexp.MustCompile(`(?m)func \w+\(`),
	regexp.MustCompile(`(?m)function \w+\(`),
	regexp.MustCompile(`(?m)class \w+`),
	regexp.MustCompile(`(?m)import \w+`),
	regexp.MustCompile(`(?m)import \(`),
	regexp.MustCompile(`#include`),
	regexp.MustCompile(`(?m)package \w+`),
	regexp.MustCompile(`(?m){\s*$`),
	regexp.MustCompile(`(?m)}\s*$`),
	regexp.MustCompile(`(?m);\s*$`),
}

func looksLikeCode(content string) bool {
	matches := 0
	for _, re := range codeIndicators {
		if re.MatchString(content) {
			matches++
		}
	}
	if matches >= 2 {
		return true
	}

	codeChars := 0
	totalChars := 0
	for _, r := range content {
		switch r {
		case ' ', '\n':
			continue
		case '{', '}', '(', ')', ';', '=', '[', ']', '<', '>':
			codeChars++
		}
		totalChars++
	}
	if totalChars == 0 {
		return false
	}
	return float64(codeChars)/float64(totalChars) > 0.1
}

// languagePatterns score candidate languages for unfenced code.
var languagePatterns = map[string][]*regexp.Regexp{
	"go": {
		regexp.MustCompile(`(?m)^package \w+`),
		regexp.MustCompile(`(?m)func \w+\(`),
		regexp.MustCompile(`(?m)import \(`),
		regexp.MustCompile(`:=`),
	},
	"python": {
		regexp.MustCompile(`(?m)def \w+\(`),
		regexp.MustCompile(`(?m)^import \w+`),
		regexp.MustCompile(`(?m)^from \w+ import`),
		regexp.MustCompile(`(?m)if __name__ == ["']__main__["']:`),
		regexp.MustCompile(`print\(`),
	},
	"javascript": {
		regexp.MustCompile(`(?m)function \w+\(`),
		regexp.MustCompile(`(?m)const \w+ =`),
		regexp.MustCompile(`(?m)let \w+ =`),
		regexp.MustCompile(`console\.log\(`),
	},
	"java": {
		regexp.MustCompile(`public class \w+`),
		regexp.MustCompile(`public static void main`),
		regexp.MustCompile(`System\.out\.println\(`),
	},
	"html": {
		regexp.MustCompile(`(?i)<!DOCTYPE html>`),
		regexp.MustCompile(`(?i)<html.*?>`),
		regexp.MustCompile(`(?i)<body>`),
	},
	"sql": {
		regexp.MustCompile(`(?i)SELECT\s+.*\s+FROM`),
		regexp.MustCompile(`(?i)CREATE TABLE`),
		regexp.MustCompile(`(?i)INSERT INTO`),
	},
	"bash": {
		regexp.MustCompile(`#!/bin/(ba)?sh`),
		regexp.MustCompile(`(?m)^echo\s+`),
	},
}

func detectLanguage(content string) string {
	best := ""
	bestScore := 0
	for language, patterns := range languagePatterns {
		score := 0
		for _, re := range patterns {
			if re.MatchString(content) {
				score++
			}
		}
		if score > bestScore || (score == bestScore && score > 0 && language < best) {
			best = language
			bestScore = score
		}
	}
	if bestScore == 0 {
		return ""
	}
	return best
}
