package handler

import (
	"fmt"
	"strings"

	"lexibot/internal/dto"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback data namespaces. Answer callbacks use the signed token
// format produced by the token package instead.
const (
	callbackMore = "more:"
	callbackSave = "save:"
	callbackQuiz = "quiz:"
	callbackPage = "pg:"
)

const welcomeText = `Hi! Send me an English word or short phrase (1-4 words) and I will explain it with example sentences.

Commands:
/list - browse your saved terms`

func escapeMD(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

// formatExplanation renders the header message: the term in bold
// followed by its plain-language explanation.
func formatExplanation(resp *dto.ExplanationResponse) string {
	return fmt.Sprintf("*%s*\n\n%s", escapeMD(resp.Term), escapeMD(resp.Explanation))
}

// formatExamples renders the numbered example sentences as a separate
// message so the header stays scannable.
func formatExamples(examples []string) string {
	var b strings.Builder
	b.WriteString("*Examples:*\n")
	for i, ex := range examples {
		fmt.Fprintf(&b, "%d\\. %s\n", i+1, escapeMD(ex))
	}
	return b.String()
}

func formatGrade(resp *dto.GradeResponse) string {
	var b strings.Builder
	if resp.Correct {
		b.WriteString("✅ Correct\\!\n\n")
	} else {
		fmt.Fprintf(&b, "❌ Not quite\\. The correct answer was option %d\\.\n\n", resp.CorrectNumber)
	}
	fmt.Fprintf(&b, "*%s*\n%s\n\n_%s_", escapeMD(resp.Term), escapeMD(resp.Explanation), escapeMD(resp.FirstExample))
	return b.String()
}

func formatSavedList(resp *dto.SavedListResponse) string {
	if len(resp.Terms) == 0 {
		return "You have no saved terms yet\\. Send me a word and tap Save\\."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "*Your saved terms* \\(page %d/%d\\)\n\n", resp.Page, resp.TotalPages)
	for i, term := range resp.Terms {
		fmt.Fprintf(&b, "%d\\. %s\n", i+1, escapeMD(term))
	}
	b.WriteString("\nTap a quiz button or send any term again for a refresher\\.")
	return b.String()
}

// plainExamples is the fallback rendering when Telegram rejects the
// MarkdownV2 variant.
func plainExamples(examples []string) string {
	var b strings.Builder
	b.WriteString("Examples:\n")
	for i, ex := range examples {
		fmt.Fprintf(&b, "%d. %s\n", i+1, ex)
	}
	return b.String()
}

func plainGrade(resp *dto.GradeResponse) string {
	var b strings.Builder
	if resp.Correct {
		b.WriteString("Correct!\n\n")
	} else {
		fmt.Fprintf(&b, "Not quite. The correct answer was option %d.\n\n", resp.CorrectNumber)
	}
	fmt.Fprintf(&b, "%s\n%s\n\n%s", resp.Term, resp.Explanation, resp.FirstExample)
	return b.String()
}

// actionKeyboard offers the follow-ups after an explanation.
func actionKeyboard(term string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("More examples", callbackMore+term),
			tgbotapi.NewInlineKeyboardButtonData("Save", callbackSave+term),
			tgbotapi.NewInlineKeyboardButtonData("Quiz", callbackQuiz+term),
		),
	)
}

// quizKeyboard renders one button per shuffled option. Labels are
// trimmed to Telegram's button length; the full text is in the message.
func quizKeyboard(options []dto.QuizOption) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(options))
	for i, opt := range options {
		label := fmt.Sprintf("Option %d", i+1)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, opt.Token),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// formatQuiz lists the full option texts in the message body since
// button labels are too short to hold whole explanations.
func formatQuiz(resp *dto.QuizResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Which one explains *%s*?\n\n", escapeMD(resp.Term))
	for i, opt := range resp.Options {
		fmt.Fprintf(&b, "%d\\. %s\n", i+1, escapeMD(opt.Label))
	}
	return b.String()
}

// listKeyboard pairs every saved term with a quiz shortcut and adds
// pagination controls when further pages exist.
func listKeyboard(resp *dto.SavedListResponse) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(resp.Terms)+1)
	for _, term := range resp.Terms {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Quiz: "+term, callbackQuiz+term),
		))
	}
	var nav []tgbotapi.InlineKeyboardButton
	if resp.HasPrev {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("◀ Prev", fmt.Sprintf("%s%d", callbackPage, resp.Page-1)))
	}
	if resp.HasNext {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("Next ▶", fmt.Sprintf("%s%d", callbackPage, resp.Page+1)))
	}
	if len(nav) > 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(nav...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
