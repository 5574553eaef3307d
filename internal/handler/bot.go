// Package handler routes Telegram updates to the session and quiz
// services and renders their results as bot messages.
package handler

import (
	"context"
	"strconv"
	"strings"
	"time"

	"lexibot/internal/domain"
	"lexibot/internal/dto"
	"lexibot/internal/logger"
	"lexibot/internal/service"
	"lexibot/internal/token"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

const updateTimeout = 90 * time.Second

// telegramClient is the slice of the Telegram API the bot uses.
// *tgbotapi.BotAPI satisfies it.
type telegramClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot dispatches incoming updates. Each update is handled in its own
// goroutine, bounded by a weighted semaphore so a burst of generation
// requests cannot exhaust the process.
type Bot struct {
	api     telegramClient
	session service.SessionService
	quiz    service.QuizService
	signer  *token.Signer
	sem     *semaphore.Weighted
}

func NewBot(
	api telegramClient,
	session service.SessionService,
	quiz service.QuizService,
	signer *token.Signer,
	workers int64,
) *Bot {
	if workers < 1 {
		workers = 1
	}
	return &Bot{
		api:     api,
		session: session,
		quiz:    quiz,
		signer:  signer,
		sem:     semaphore.NewWeighted(workers),
	}
}

// Run consumes updates from the long-polling channel until ctx is
// cancelled. Webhook deployments call HandleUpdate directly instead.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.Dispatch(ctx, update)
		}
	}
}

// Dispatch acquires a worker slot and handles the update concurrently.
func (b *Bot) Dispatch(ctx context.Context, update tgbotapi.Update) {
	if err := b.sem.Acquire(ctx, 1); err != nil {
		return
	}
	go func() {
		defer b.sem.Release(1)
		handleCtx, cancel := context.WithTimeout(context.Background(), updateTimeout)
		defer cancel()
		b.HandleUpdate(handleCtx, update)
	}()
}

// HandleUpdate routes a single update.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.Text != "":
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	userID := msg.From.ID

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.sendPlain(chatID, welcomeText)
		case "list":
			b.sendList(ctx, chatID, userID, 1)
		default:
			b.sendPlain(chatID, "Unknown command. Send me a word, or use /list.")
		}
		return
	}

	b.explainAndReply(ctx, chatID, userID, msg.Text)
}

// explainAndReply posts a placeholder immediately and edits it with
// the result, since generation can take several seconds.
func (b *Bot) explainAndReply(ctx context.Context, chatID, userID int64, term string) {
	placeholder, err := b.api.Send(tgbotapi.NewMessage(chatID, "Generating explanation…"))
	if err != nil {
		logger.Get().Error("Bot: failed to send placeholder", zap.Error(err), zap.Int64("chatID", chatID))
		return
	}

	resp, err := b.session.Explain(ctx, userID, term)
	if err != nil {
		b.editPlain(chatID, placeholder.MessageID, errorReply(err))
		return
	}
	b.deliverExplanation(chatID, placeholder.MessageID, resp)
}

func (b *Bot) deliverExplanation(chatID int64, placeholderID int, resp *dto.ExplanationResponse) {
	edit := tgbotapi.NewEditMessageText(chatID, placeholderID, formatExplanation(resp))
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	if _, err := b.api.Send(edit); err != nil {
		// Markdown rejection must not eat the answer.
		b.editPlain(chatID, placeholderID, resp.Term+"\n\n"+resp.Explanation)
	}

	examples := tgbotapi.NewMessage(chatID, formatExamples(resp.Examples))
	examples.ParseMode = tgbotapi.ModeMarkdownV2
	examples.ReplyMarkup = actionKeyboard(resp.Term)
	if _, err := b.api.Send(examples); err != nil {
		plain := tgbotapi.NewMessage(chatID, plainExamples(resp.Examples))
		plain.ReplyMarkup = actionKeyboard(resp.Term)
		if _, err := b.api.Send(plain); err != nil {
			logger.Get().Error("Bot: failed to send examples", zap.Error(err), zap.Int64("chatID", chatID))
		}
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// Ack right away so the client stops its spinner.
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		logger.Get().Warn("Bot: callback ack failed", zap.Error(err))
	}
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	userID := cb.From.ID
	data := cb.Data

	switch {
	case strings.HasPrefix(data, callbackMore):
		b.moreExamples(ctx, chatID, userID, strings.TrimPrefix(data, callbackMore))
	case strings.HasPrefix(data, callbackSave):
		b.saveTerm(ctx, chatID, userID, strings.TrimPrefix(data, callbackSave))
	case strings.HasPrefix(data, callbackQuiz):
		b.sendQuiz(ctx, chatID, userID, strings.TrimPrefix(data, callbackQuiz))
	case strings.HasPrefix(data, token.AnswerPrefix+":"):
		b.gradeAnswer(ctx, chatID, userID, data)
	case strings.HasPrefix(data, callbackPage):
		page, err := strconv.Atoi(strings.TrimPrefix(data, callbackPage))
		if err != nil {
			page = 1
		}
		b.sendList(ctx, chatID, userID, page)
	default:
		logger.Get().Warn("Bot: unrecognized callback", zap.String("data", data))
	}
}

func (b *Bot) moreExamples(ctx context.Context, chatID, userID int64, term string) {
	placeholder, err := b.api.Send(tgbotapi.NewMessage(chatID, "Generating more examples…"))
	if err != nil {
		logger.Get().Error("Bot: failed to send placeholder", zap.Error(err), zap.Int64("chatID", chatID))
		return
	}
	resp, err := b.session.MoreExamples(ctx, userID, term)
	if err != nil {
		b.editPlain(chatID, placeholder.MessageID, errorReply(err))
		return
	}
	b.deliverExplanation(chatID, placeholder.MessageID, resp)
}

func (b *Bot) saveTerm(ctx context.Context, chatID, userID int64, term string) {
	resp, err := b.session.Save(ctx, userID, term)
	if err != nil {
		b.sendPlain(chatID, errorReply(err))
		return
	}
	if resp.AlreadySaved {
		b.sendPlain(chatID, "You already saved \""+resp.Term+"\".")
		return
	}
	b.sendPlain(chatID, "Saved \""+resp.Term+"\". Use /list to review or take a quiz.")
}

func (b *Bot) sendQuiz(ctx context.Context, chatID, userID int64, term string) {
	resp, err := b.quiz.BuildQuiz(ctx, userID, term)
	if err != nil {
		b.sendPlain(chatID, errorReply(err))
		return
	}
	msg := tgbotapi.NewMessage(chatID, formatQuiz(resp))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.ReplyMarkup = quizKeyboard(resp.Options)
	if _, err := b.api.Send(msg); err != nil {
		logger.Get().Error("Bot: failed to send quiz", zap.Error(err), zap.Int64("chatID", chatID))
	}
}

func (b *Bot) gradeAnswer(ctx context.Context, chatID, userID int64, data string) {
	payload, err := b.signer.ParseAnswerToken(data)
	if err != nil {
		b.sendPlain(chatID, errorReply(err))
		return
	}
	resp, err := b.quiz.Grade(ctx, &dto.GradeRequest{
		UserID:       userID,
		Term:         payload.Term,
		ChosenIndex:  payload.ChosenIndex,
		CorrectIndex: payload.CorrectIndex,
	})
	if err != nil {
		b.sendPlain(chatID, errorReply(err))
		return
	}
	msg := tgbotapi.NewMessage(chatID, formatGrade(resp))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if _, err := b.api.Send(msg); err != nil {
		b.sendPlain(chatID, plainGrade(resp))
	}
}

func (b *Bot) sendList(ctx context.Context, chatID, userID int64, page int) {
	resp, err := b.quiz.ListSaved(ctx, userID, page)
	if err != nil {
		b.sendPlain(chatID, errorReply(err))
		return
	}
	msg := tgbotapi.NewMessage(chatID, formatSavedList(resp))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if len(resp.Terms) > 0 {
		msg.ReplyMarkup = listKeyboard(resp)
	}
	if _, err := b.api.Send(msg); err != nil {
		logger.Get().Error("Bot: failed to send list", zap.Error(err), zap.Int64("chatID", chatID))
	}
}

func (b *Bot) sendPlain(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		logger.Get().Error("Bot: failed to send message", zap.Error(err), zap.Int64("chatID", chatID))
	}
}

func (b *Bot) editPlain(chatID int64, messageID int, text string) {
	if _, err := b.api.Send(tgbotapi.NewEditMessageText(chatID, messageID, text)); err != nil {
		logger.Get().Error("Bot: failed to edit message", zap.Error(err), zap.Int64("chatID", chatID))
	}
}

// errorReply maps a service error to the user-facing reply text.
func errorReply(err error) string {
	switch {
	case domain.HasCode(err, domain.ErrInvalidTerm):
		return "Send me an English word or short phrase (1-4 words)."
	case domain.HasCode(err, domain.ErrGeneration):
		return "I couldn't generate an explanation right now. Please try again."
	case domain.HasCode(err, domain.ErrNoCachedResult):
		return "That result expired. Send the term again, then tap Save."
	case domain.HasCode(err, domain.ErrTermNotSaved):
		return "That term isn't saved yet. Save it first, then try the quiz."
	case domain.HasCode(err, domain.ErrInvalidToken):
		return "That button is no longer valid. Start a new quiz with /list."
	}
	return "Something went wrong. Please try again."
}
