package bot

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/example/recallbot/internal/database"
	"github.com/example/recallbot/internal/review"
	"github.com/example/recallbot/internal/spaced_repetition"
	"github.com/example/recallbot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot represents the Telegram reminder bot
type Bot struct {
	api          *tgbotapi.BotAPI
	store        *database.Store
	policy       *spaced_repetition.Policy
	orchestrator *review.Orchestrator
}

// New creates a new bot instance
func New(token string, store *database.Store) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %v", err)
	}

	b := &Bot{
		api:    api,
		store:  store,
		policy: spaced_repetition.NewPolicy(),
	}
	// The bot itself delivers the review prompts
	b.orchestrator = review.New(store, b, b.policy)

	return b, nil
}

// Prompt sends a review prompt for a word to a learner. Implements
// review.Notifier.
func (b *Bot) Prompt(learner *models.Learner, word *models.Word) error {
	text := fmt.Sprintf("Time to review: %s\nReply with the translation.", word.Word)
	if _, err := b.api.Send(tgbotapi.NewMessage(learner.ID, text)); err != nil {
		return fmt.Errorf("failed to send prompt: %v", err)
	}
	return nil
}

// RunReviewPass runs one review pass over the currently due items
func (b *Bot) RunReviewPass(ctx context.Context, now time.Time) (review.PassResult, error) {
	return b.orchestrator.RunReviewPass(ctx, now)
}

// ServeNewWords sends each learner their preferred number of new words
// and creates the scheduled items that drive later reviews
func (b *Bot) ServeNewWords(ctx context.Context, now time.Time) error {
	learners, err := b.store.Learners.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to get learners: %v", err)
	}

	for _, learner := range learners {
		count := models.ClampWordsPerDay(learner.WordsPerDay)
		words, err := b.store.Words.GetUnservedForLearner(ctx, learner.ID, count)
		if err != nil {
			log.Printf("Error getting unserved words for learner %d: %v", learner.ID, err)
			continue
		}

		for _, word := range words {
			seed := b.policy.SeedInterval(0)
			item := &models.ScheduledItem{
				LearnerID:      learner.ID,
				WordID:         word.ID,
				ServedAt:       now,
				NextReviewDate: now.AddDate(0, 0, seed),
				Interval:       seed,
			}
			if err := b.store.Items.Create(ctx, item); err != nil {
				log.Printf("Error scheduling word %d for learner %d: %v", word.ID, learner.ID, err)
				continue
			}

			text := fmt.Sprintf("New word: %s — %s", word.Word, word.Translation)
			if word.Example != "" {
				text += "\nExample: " + word.Example
			}
			if _, err := b.api.Send(tgbotapi.NewMessage(learner.ID, text)); err != nil {
				log.Printf("Error sending word to learner %d: %v", learner.ID, err)
			}
		}
	}

	return nil
}

// Start begins processing incoming updates until the context is done
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// Stop shuts down the update loop
func (b *Bot) Stop(ctx context.Context) error {
	b.api.StopReceivingUpdates()
	return nil
}

// reply sends a plain text message, logging delivery failures
func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("Error sending message to chat %d: %v", chatID, err)
	}
}
