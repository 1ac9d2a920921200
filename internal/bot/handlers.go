package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/example/recallbot/internal/review"
	"github.com/example/recallbot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// handleMessage dispatches one incoming message
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	b.handleResponse(ctx, msg)
}

// handleCommand processes bot commands
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.handleStart(ctx, msg)
	case "words":
		b.handleWordsPerDay(ctx, msg)
	case "streak":
		b.handleStreak(ctx, msg)
	case "due":
		b.handleDue(ctx, msg)
	default:
		b.reply(msg.Chat.ID, "Unknown command. Available: /start, /words, /streak, /due")
	}
}

// handleStart registers the learner
func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	learner := &models.Learner{
		ID:          msg.From.ID,
		Username:    msg.From.UserName,
		FirstName:   msg.From.FirstName,
		WordsPerDay: models.MinWordsPerDay,
	}
	if err := b.store.Learners.Upsert(ctx, learner); err != nil {
		log.Printf("Error registering learner %d: %v", msg.From.ID, err)
		b.reply(msg.Chat.ID, "Something went wrong, please try again.")
		return
	}

	b.reply(msg.Chat.ID, "Welcome! You will receive new words daily and review prompts "+
		"as they come due. Use /words <1-3> to set how many new words you get per day.")
}

// handleWordsPerDay updates the learner's preferred daily word count
func (b *Bot) handleWordsPerDay(ctx context.Context, msg *tgbotapi.Message) {
	arg := strings.TrimSpace(msg.CommandArguments())
	count, err := strconv.Atoi(arg)
	if err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("Usage: /words <%d-%d>", models.MinWordsPerDay, models.MaxWordsPerDay))
		return
	}

	count = models.ClampWordsPerDay(count)
	if err := b.store.Learners.UpdateWordsPerDay(ctx, msg.From.ID, count); err != nil {
		log.Printf("Error updating words per day for learner %d: %v", msg.From.ID, err)
		b.reply(msg.Chat.ID, "Could not update your settings. Did you /start first?")
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf("You will now receive %d new word(s) per day.", count))
}

// handleStreak reports the learner's engagement streak
func (b *Bot) handleStreak(ctx context.Context, msg *tgbotapi.Message) {
	streak, err := b.store.Streaks.GetByLearner(ctx, msg.From.ID)
	if err != nil {
		log.Printf("Error getting streak for learner %d: %v", msg.From.ID, err)
		b.reply(msg.Chat.ID, "Something went wrong, please try again.")
		return
	}
	if streak == nil {
		b.reply(msg.Chat.ID, "No streak yet. Reply to a review prompt to start one!")
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("Your current streak: %d day(s).", streak.Streak))
}

// handleDue reports how many of the learner's words are due for review
func (b *Bot) handleDue(ctx context.Context, msg *tgbotapi.Message) {
	count, err := b.store.Items.CountDueForLearner(ctx, msg.From.ID, time.Now())
	if err != nil {
		log.Printf("Error counting due items for learner %d: %v", msg.From.ID, err)
		b.reply(msg.Chat.ID, "Something went wrong, please try again.")
		return
	}
	if count == 0 {
		b.reply(msg.Chat.ID, "Nothing due right now.")
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("%d word(s) due for review.", count))
}

// handleResponse records free text as the learner's answer to their
// most recently served word and advances the engagement streak
func (b *Bot) handleResponse(ctx context.Context, msg *tgbotapi.Message) {
	item, err := b.store.Items.FindMostRecentForLearner(ctx, msg.From.ID)
	if err != nil {
		log.Printf("Error finding pending item for learner %d: %v", msg.From.ID, err)
		b.reply(msg.Chat.ID, "Something went wrong, please try again.")
		return
	}
	if item == nil {
		b.reply(msg.Chat.ID, "No words served yet. They will start arriving daily after /start.")
		return
	}

	word, err := b.store.Words.GetByID(ctx, item.WordID)
	if err != nil {
		log.Printf("Error resolving word %d for item %d: %v", item.WordID, item.ID, err)
		b.reply(msg.Chat.ID, "Something went wrong, please try again.")
		return
	}
	if word == nil {
		log.Printf("Word %d for item %d no longer exists, skipping response", item.WordID, item.ID)
		b.reply(msg.Chat.ID, "That word is no longer available.")
		return
	}

	answer := strings.TrimSpace(msg.Text)
	correct := strings.EqualFold(answer, word.Translation)
	if err := b.store.Items.RecordResponse(ctx, item.ID, answer, correct); err != nil {
		log.Printf("Error recording response for item %d: %v", item.ID, err)
	}

	streak, err := b.updateStreak(ctx, msg.From.ID, time.Now())
	if err != nil {
		log.Printf("Error updating streak for learner %d: %v", msg.From.ID, err)
	}

	if correct {
		b.reply(msg.Chat.ID, fmt.Sprintf("Correct! Streak: %d day(s).", streak))
	} else {
		b.reply(msg.Chat.ID, fmt.Sprintf("Recorded. The answer was: %s. Streak: %d day(s).", word.Translation, streak))
	}
}

// updateStreak applies the streak rule for an engagement at now and
// persists the result, returning the new streak value
func (b *Bot) updateStreak(ctx context.Context, learnerID int64, now time.Time) (int, error) {
	var current models.LearnerStreak
	stored, err := b.store.Streaks.GetByLearner(ctx, learnerID)
	if err != nil {
		return 0, err
	}
	if stored != nil {
		current = *stored
	}
	current.LearnerID = learnerID

	next := review.NextStreak(current, now)
	if err := b.store.Streaks.Upsert(ctx, &next); err != nil {
		return 0, err
	}
	return next.Streak, nil
}
