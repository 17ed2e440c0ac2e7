package reporter

import (
	"fmt"
	"strings"

	"go-gigharvest-automation/internal/config"
	"go-gigharvest-automation/internal/scraper"
	"go-gigharvest-automation/internal/workflow"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramReporter pushes run results to a chat. Optional: the run is
// complete without it, it only mirrors the final snapshot.
type TelegramReporter struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramReporter(cfg *config.Config) (*TelegramReporter, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	return &TelegramReporter{
		bot:    bot,
		chatID: cfg.TelegramChatID,
	}, nil
}

func (t *TelegramReporter) sendHTML(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "HTML"
	_, err := t.bot.Send(msg)
	return err
}

// SendRunSummary mirrors the final run snapshot into the chat.
func (t *TelegramReporter) SendRunSummary(state *workflow.State, newGigs int) error {
	var b strings.Builder
	fmt.Fprintf(&b, "🏁 <b>Gig harvest finished</b>\n")
	fmt.Fprintf(&b, "🔑 Keywords: %s\n", strings.Join(state.SearchQueries, ", "))
	fmt.Fprintf(&b, "📦 Collected: %d\n", state.CollectedCount())
	fmt.Fprintf(&b, "🤖 Assessed: %d\n", state.AssessedCount())
	fmt.Fprintf(&b, "✨ New since last run: %d\n", newGigs)
	if len(state.Errors) > 0 {
		fmt.Fprintf(&b, "⚠️ Errors: %d\n", len(state.Errors))
	}
	fmt.Fprintf(&b, "%s", state.FinalOutput)
	return t.sendHTML(b.String())
}

// SendGig pushes one assessed gig to the chat.
func (t *TelegramReporter) SendGig(gig scraper.Gig) error {
	text := fmt.Sprintf(
		"🔥 <b>%s</b>\n"+
			"🏢 %s\n"+
			"📍 %s\n"+
			"📅 %s\n"+
			"🤖 Score: %d/10\n"+
			"🔗 <a href=\"%s\">View Gig</a>",
		gig.Title,
		gig.Company,
		gig.Location,
		gig.PostedDate,
		gig.QualityScore,
		gig.URL,
	)
	return t.sendHTML(text)
}

func (t *TelegramReporter) SendError(errReq error) error {
	return t.sendHTML(fmt.Sprintf("⚠️ <b>Gig harvest error</b>:\n%v", errReq))
}
