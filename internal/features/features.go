// Package features derives indexing metadata from chunk content: tags, code
// snippets, configuration examples, and an inferred category. Extraction is
// pure string analysis; the same content always yields the same result.
package features

import (
	"regexp"
	"strings"
)

// Features is the metadata extracted from one chunk's content.
type Features struct {
	Tags                  []string
	CodeSnippets          []string
	ConfigurationExamples []string
	Category              string
}

// vocabulary maps framework terms (matched as lowercase substrings) to the
// hyphenated tag they contribute.
var vocabulary = []struct {
	term string
	tag  string
}{
	{"spring boot", "spring-boot"},
	{"spring security", "spring-security"},
	{"spring data", "spring-data"},
	{"spring mvc", "spring-mvc"},
	{"dependency injection", "dependency-injection"},
	{"rest", "rest-api"},
	{"jpa", "jpa"},
	{"hibernate", "hibernate"},
	{"jwt", "jwt"},
	{"oauth", "oauth"},
	{"actuator", "actuator"},
	{"microservice", "microservices"},
	{"thymeleaf", "thymeleaf"},
	{"kafka", "kafka"},
	{"websocket", "websocket"},
	{"controller", "controller"},
	{"transaction", "transactions"},
	{"validation", "validation"},
	{"caching", "caching"},
	{"reactive", "reactive"},
}

// categoryRules are evaluated in priority order; the first family with a
// keyword hit wins. Content with no hit falls through to "core".
var categoryRules = []struct {
	category string
	keywords []string
}{
	{"testing", []string{"test", "junit", "mockito", "assertion"}},
	{"security", []string{"security", "authentication", "authorization", "oauth", "jwt"}},
	{"data", []string{"repository", "jpa", "hibernate", "database", "sql", "persistence"}},
	{"web", []string{"controller", "rest", "mvc", "endpoint", "servlet", "http"}},
	{"configuration", []string{"configuration", "properties", "yaml", "profile", "settings"}},
}

var (
	fencedBlockRe = regexp.MustCompile("(?s)```[a-zA-Z]*\\n?(.*?)```")
	codeLineRe    = regexp.MustCompile(`^\s*(@\w+|public\s|private\s|protected\s|import\s|package\s|.*\bnew\s+[A-Z]\w*)`)
	configLineRe  = regexp.MustCompile(`^\s*(#|[\w.\-]+\s*[:=])`)
)

// Extract returns the features for content.
func Extract(content string) Features {
	return Features{
		Tags:                  ExtractTags(content),
		CodeSnippets:          ExtractCodeSnippets(content),
		ConfigurationExamples: ExtractConfigurationExamples(content),
		Category:              InferCategory(content),
	}
}

// ExtractTags returns the set of tags whose vocabulary term appears in
// content, plus structural tags for annotations, configuration, testing,
// security, and persistence markers. Tags are lowercase, hyphenated, and
// returned in detection order without duplicates.
func ExtractTags(content string) []string {
	lower := strings.ToLower(content)
	seen := make(map[string]struct{})
	var tags []string
	add := func(tag string) {
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	for _, v := range vocabulary {
		if strings.Contains(lower, v.term) {
			add(v.tag)
		}
	}
	if strings.Contains(content, "@") {
		add("annotations")
	}
	if strings.Contains(lower, "yaml") || strings.Contains(lower, ".properties") || strings.Contains(lower, "application.yml") {
		add("configuration")
	}
	if strings.Contains(lower, "test") {
		add("testing")
	}
	if strings.Contains(lower, "security") {
		add("security")
	}
	if strings.Contains(lower, "database") || strings.Contains(lower, "repository") || strings.Contains(lower, "jpa") {
		add("persistence")
	}
	return tags
}

// ExtractCodeSnippets returns fenced code blocks and contiguous runs of lines
// that look like code (annotations, access modifiers, imports, constructor calls).
func ExtractCodeSnippets(content string) []string {
	var snippets []string
	for _, m := range fencedBlockRe.FindAllStringSubmatch(content, -1) {
		if block := strings.TrimSpace(m[1]); block != "" {
			snippets = append(snippets, block)
		}
	}
	snippets = append(snippets, collectRuns(content, codeLineRe)...)
	return snippets
}

// ExtractConfigurationExamples returns contiguous runs of lines that look like
// key/value or comment lines.
func ExtractConfigurationExamples(content string) []string {
	return collectRuns(content, configLineRe)
}

// collectRuns scans content line by line and collects maximal runs of lines
// matching re into blocks. Single matching lines count as a run of one.
func collectRuns(content string, re *regexp.Regexp) []string {
	var blocks []string
	var run []string
	flush := func() {
		if len(run) > 0 {
			blocks = append(blocks, strings.Join(run, "\n"))
			run = nil
		}
	}
	for _, line := range strings.Split(content, "\n") {
		if re.MatchString(line) && strings.TrimSpace(line) != "" {
			run = append(run, strings.TrimRight(line, " \t"))
		} else {
			flush()
		}
	}
	flush()
	return blocks
}

// InferCategory returns the first matching category family for content, or
// "core" when nothing matches. Priority: testing > security > data > web >
// configuration.
func InferCategory(content string) string {
	lower := strings.ToLower(content)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return "core"
}
