package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"casebank-backend/models"
)

// Prompt truncation budgets, in bytes. Chosen to keep the combined
// prompts inside the model context window with room for instructions.
const (
	metadataTextLimit = 30000
	noticeTextLimit   = 15000
	catalogTextLimit  = 30000
	chatTextLimit     = 35000
)

// truncate clips s to at most n bytes, backing off to a rune boundary
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// buildMetadataPrompt asks for the judgment's structured fields. The
// key list must stay in sync with session.FormBuffer.
func buildMetadataPrompt(text string) string {
	return fmt.Sprintf(`Extract details from this judgment into JSON format ONLY with keys:
"case_name", "act_name", "section_number", "authority" (e.g. Supreme Court, Hyderabad HC),
"brief_facts" (summarize in 3 lines), "decision_held" (the final ruling),
"ai_notes" (any dissent or special observation).
Text: %s`, truncate(text, metadataTextLimit))
}

// buildCaseCatalog renders the good-law judgments as the flat text
// block the suggestion prompt consumes, one record per line.
func buildCaseCatalog(judgments []*models.Judgment) string {
	var sb strings.Builder
	for _, judgment := range judgments {
		sb.WriteString(fmt.Sprintf("ID: %s | Case: %s | Facts: %s | Decision: %s\n\n",
			judgment.ID, judgment.CaseName, judgment.BriefFacts, judgment.DecisionHeld))
	}
	return sb.String()
}

// buildSuggestionPrompt asks which internal cases defend against a
// notice. The catalog is truncated as raw text and may cut mid-record;
// at this catalog size the loss is accepted.
func buildSuggestionPrompt(noticeText, catalog string) string {
	return fmt.Sprintf(`A client received this legal notice: %s

Here is our internal database of judgments:
%s

TASK:
1. Identify which INTERNAL cases (by ID and Name) are relevant to defending this notice.
2. Suggest 2 EXTERNAL landmark Supreme Court judgments that could also help.

Return JSON format: { "internal_cases": ["Case Name 1", "Case Name 2"], "external_suggestions": ["External Case 1", "External Case 2"] }`,
		truncate(noticeText, noticeTextLimit), truncate(catalog, catalogTextLimit))
}

// buildDraftPrompt asks for the formal reply citing the selected cases
func buildDraftPrompt(noticeText, citedCases, externalRefs string) string {
	return fmt.Sprintf(`Draft a formal legal reply to this notice: %s

Use these internal precedents:
%s

Also reference these external cases: %s

Structure: Formal legal language, point-wise rebuttal, cite the cases provided.`,
		truncate(noticeText, noticeTextLimit), citedCases, externalRefs)
}

// buildChatPrompt grounds a single question in one judgment's text
func buildChatPrompt(question, documentText string) string {
	return fmt.Sprintf("Based ONLY on the following legal judgment text, answer this question: %s\n\nJudgment Text:\n%s",
		question, truncate(documentText, chatTextLimit))
}
