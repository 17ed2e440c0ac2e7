package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"go-gigharvest-automation/internal/ai"
	"go-gigharvest-automation/internal/browser"
	"go-gigharvest-automation/internal/config"
	"go-gigharvest-automation/internal/dedup"
	"go-gigharvest-automation/internal/excel"
	"go-gigharvest-automation/internal/reporter"
	"go-gigharvest-automation/internal/scraper"
	"go-gigharvest-automation/internal/scraper/linkedin"
	"go-gigharvest-automation/internal/store"
	"go-gigharvest-automation/internal/workflow"
)

func main() {
	//load config
	cfg := config.Load()
	log.Printf("🔧 Config loaded. Keywords: %v", cfg.Keywords)

	//ctrl-c cancels at the next phase or keyword boundary
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Println("🚀 Starting gig harvest...")

	//a missing browser is the only fatal failure, everything after
	//this point lands in the run snapshot instead
	session, err := browser.Open(!cfg.Visible)
	if err != nil {
		log.Fatalf("❌ Failed to start browser session: %v", err)
	}
	defer session.Close()
	log.Println("✅ Browser initialized successfully!")

	collector := linkedin.NewScraper(cfg, session)

	var assessor workflow.Assessor
	if cfg.GroqAPIKey != "" {
		assessor = ai.NewGroqClient(cfg.GroqAPIKey, cfg.GroqModel)
		log.Println("🤖 AI assessment enabled.")
	} else {
		log.Println("⚠️ GROQ_API_KEY not set, gigs will pass through unscored.")
	}

	w := workflow.New(collector, assessor, excel.NewWriter())
	state := w.Run(ctx, workflow.Options{
		Keywords:           cfg.Keywords,
		MaxPagesPerKeyword: cfg.MaxPagesPerKeyword,
		MinScore:           cfg.MinQualityScore,
		OutputPath:         cfg.OutputPath,
		KeywordDelay:       time.Duration(cfg.KeywordDelayMs) * time.Millisecond,
	})

	//which of this run's gigs are new since the last run
	cache := dedup.NewGigCache(cfg.CachePath)
	newGigs := cache.FilterUnseen(state.FilteredGigs)
	cache.MarkSeen(newGigs)
	log.Printf("🔍 Deduplication: %d assessed -> %d new gigs", state.AssessedCount(), len(newGigs))

	archiveGigs(cfg, state)
	notifyTelegram(cfg, state, newGigs)

	printSummary(state, len(newGigs))
}

// archiveGigs records the run's gigs in the local sqlite archive.
// Uses a fresh context so a cancelled run still archives its partials.
func archiveGigs(cfg *config.Config, state *workflow.State) {
	db, err := store.Open(cfg.ArchivePath)
	if err != nil {
		log.Printf("⚠️ Could not open gig archive: %v", err)
		return
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := db.Archive(ctx, state.FilteredGigs)
	if err != nil {
		log.Printf("⚠️ Failed to archive gigs: %v", err)
		return
	}
	total, _ := db.Count(ctx)
	log.Printf("💾 Archived %d new gigs (%d total in %s)", n, total, cfg.ArchivePath)
}

func notifyTelegram(cfg *config.Config, state *workflow.State, newGigs []scraper.Gig) {
	if cfg.TelegramToken == "" || cfg.TelegramChatID == 0 {
		return
	}

	rep, err := reporter.NewTelegramReporter(cfg)
	if err != nil {
		log.Printf("⚠️ Failed to init Telegram reporter: %v", err)
		return
	}

	if err := rep.SendRunSummary(state, len(newGigs)); err != nil {
		log.Printf("⚠️ Failed to send run summary: %v", err)
	}

	//only push the fresh ones, capped to keep the chat readable
	limit := 10
	if len(newGigs) < limit {
		limit = len(newGigs)
	}
	for _, gig := range newGigs[:limit] {
		if err := rep.SendGig(gig); err != nil {
			log.Printf("⚠️ Failed to send gig to Telegram: %v", err)
		}
		//1 second delay to avoid 429
		time.Sleep(1 * time.Second)
	}
}

func printSummary(state *workflow.State, newGigs int) {
	line := strings.Repeat("=", 50)
	fmt.Println("\n" + line)
	fmt.Println("DONE!")
	fmt.Println(line)
	fmt.Printf("Collected: %d gigs\n", state.CollectedCount())
	fmt.Printf("Assessed:  %d gigs\n", state.AssessedCount())
	fmt.Printf("New:       %d gigs\n", newGigs)
	fmt.Printf("Steps:     %d\n", state.StepCount)
	if len(state.Errors) > 0 {
		fmt.Printf("Errors:    %d\n", len(state.Errors))
		for _, e := range state.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}
	fmt.Println(state.FinalOutput)
	fmt.Println(line)
}
