package llm

import (
	_ "embed"
	"fmt"
	"strings"
)

var (
	//go:embed prompts/career_paths.txt
	promptCareerPaths string
	//go:embed prompts/skill_gap.txt
	promptSkillGap string
	//go:embed prompts/leadership.txt
	promptLeadership string
	//go:embed prompts/mentor_match.txt
	promptMentorMatch string
	//go:embed prompts/career_chat.txt
	promptCareerChat string
)

// Prompt names.
const (
	PromptCareerPaths = "career_paths"
	PromptSkillGap    = "skill_gap"
	PromptLeadership  = "leadership"
	PromptMentorMatch = "mentor_match"
	PromptCareerChat  = "career_chat"
)

// PromptTemplate returns the template text and whether the name was recognized.
func PromptTemplate(name string) (string, bool) {
	switch name {
	case PromptCareerPaths:
		return promptCareerPaths, true
	case PromptSkillGap:
		return promptSkillGap, true
	case PromptLeadership:
		return promptLeadership, true
	case PromptMentorMatch:
		return promptMentorMatch, true
	case PromptCareerChat:
		return promptCareerChat, true
	default:
		return "", false
	}
}

// RenderPrompt fills {{KEY}} placeholders in the named template. Missing
// values render as "N/A".
func RenderPrompt(name string, vars map[string]string) (string, error) {
	template, ok := PromptTemplate(name)
	if !ok {
		return "", fmt.Errorf("unknown prompt %q", name)
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		if strings.TrimSpace(v) == "" {
			v = "N/A"
		}
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	out := strings.NewReplacer(pairs...).Replace(template)
	return strings.TrimSpace(out), nil
}
