// Package review builds reviewer prompts and orchestrates the
// read-paper → build-prompt → call-model flow shared by the CLI and the
// web server.
package review

import (
	"fmt"
	"strings"

	"github.com/choose-paper/review-agent/pkg/openaichat"
)

// DefaultTone is the persona reminder injected when the caller supplies none.
const DefaultTone = "mean reviewer who is strict but fair"

// Lang selects a prompt template.
type Lang int

const (
	LangEN Lang = iota
	LangZH
)

// ParseLang maps a language value onto a template. Any value whose lower-case
// form starts with "zh" (zh, zh-CN, zh_TW, ZH) selects Chinese; everything
// else, including the empty string, falls back to English. The fallback is a
// rule, not an accident: unknown languages get the English template.
func ParseLang(s string) Lang {
	if strings.HasPrefix(strings.ToLower(s), "zh") {
		return LangZH
	}
	return LangEN
}

// userTemplates are the fixed per-language instruction strings, with %s slots
// for domain and the full paper text, in that order.
var userTemplates = map[Lang]string{
	LangEN: "Provide the review in English, with a strict but fair tone, domain: %s.\n" +
		"Use this plain-text template (no JSON, no code fences):\n" +
		"Summary: ...\n" +
		"Strengths:\n- ...\n" +
		"Weaknesses:\n- ...\n" +
		"Questions:\n- ...\n" +
		"Decision (Reading suggestion: Must Read / Skim Optional / Skip): ...\n" +
		"\nPAPER:\n%s",
	LangZH: "请用中文给出审稿意见，语气严格但公正，领域为%s。\n" +
		"输出采用以下纯文本模板（不要使用 JSON，也不要用代码块）：\n" +
		"Summary: ...\n" +
		"Strengths:\n- ...\n" +
		"Weaknesses:\n- ...\n" +
		"Questions:\n- ...\n" +
		"Decision (阅读建议: 精读 / 可选浏览 / 可忽略): ...\n" +
		"\n论文内容：\n%s",
}

// BuildMessages constructs the two-message prompt: the system persona first,
// then the language-keyed user instruction carrying the untruncated paper
// text. Domain and language are interpolated verbatim; range validation, if
// any, belongs to the front ends.
func BuildMessages(domain, tone, language, paperText string) []openaichat.Message {
	systemMsg := fmt.Sprintf(
		"You are a seasoned reviewer in %s. "+
			"Maintain a strict, skeptical, concise tone: %s. "+
			"Respond using the requested language.",
		domain, tone,
	)
	userMsg := fmt.Sprintf(userTemplates[ParseLang(language)], domain, paperText)

	return []openaichat.Message{
		{Role: openaichat.RoleSystem, Content: systemMsg},
		{Role: openaichat.RoleUser, Content: userMsg},
	}
}
