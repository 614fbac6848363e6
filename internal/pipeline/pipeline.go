// Package pipeline wires the per-message flow: extract links, resolve and
// clean each one, scrape it, format a deal, and reply. One mutex
// serializes message processing so shared state stays simple and outbound
// order matches inbound order.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/reviewcheckk/dealbot/internal/ai"
	"github.com/reviewcheckk/dealbot/internal/cleaner"
	"github.com/reviewcheckk/dealbot/internal/config"
	"github.com/reviewcheckk/dealbot/internal/dedup"
	"github.com/reviewcheckk/dealbot/internal/format"
	"github.com/reviewcheckk/dealbot/internal/linkex"
	"github.com/reviewcheckk/dealbot/internal/manual"
	"github.com/reviewcheckk/dealbot/internal/models"
	"github.com/reviewcheckk/dealbot/internal/scraper"
	"github.com/reviewcheckk/dealbot/internal/validator"
)

// Replies used when nothing better can be said.
const (
	errReplyNoTitle = "No title provided"
	errReplyGeneric = "Unable to extract product info"
)

// URLResolver expands shortened URLs; failures come back as the input.
type URLResolver interface {
	Resolve(ctx context.Context, rawURL string) string
}

// Sender delivers one outbound reply.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string, replyTo int64) error
}

// titlePolisher is the optional AI title pass, shaped like ai.Client.
type titlePolisher interface {
	PolishTitle(ctx context.Context, title string) (string, error)
}

type Pipeline struct {
	resolver  URLResolver
	scraper   scraper.Scraper
	sender    Sender
	formatter *format.Formatter
	guard     *dedup.Guard
	validate  *validator.Validator
	polisher  titlePolisher
	limiter   *rate.Limiter

	// One message at a time, by design.
	mu sync.Mutex
}

func New(cfg *config.Config, r URLResolver, s scraper.Scraper, send Sender, polisher *ai.Client) *Pipeline {
	delay := cfg.LinkDelay
	if delay <= 0 {
		delay = time.Second
	}
	p := &Pipeline{
		resolver:  r,
		scraper:   s,
		sender:    send,
		formatter: format.New(cfg.ChannelSignature, cfg.DefaultPin),
		guard:     dedup.New(cfg.DedupCap),
		validate:  validator.New(),
		limiter:   rate.NewLimiter(rate.Every(delay), 1),
	}
	if polisher != nil {
		p.polisher = polisher
	}
	return p
}

// HandleMessage runs the whole flow for one inbound message. It never
// returns an error to the transport: every failure either degrades to a
// placeholder reply or is logged and swallowed.
func (p *Pipeline) HandleMessage(ctx context.Context, msg models.RawMessage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Message handling panicked", "chat", msg.ChatID, "message", msg.MessageID, "panic", r)
			p.reply(ctx, msg, errReplyGeneric)
		}
	}()

	if p.guard.Check(dedup.Key{ChatID: msg.ChatID, MessageID: msg.MessageID}) {
		slog.Debug("Duplicate message skipped", "chat", msg.ChatID, "message", msg.MessageID)
		return
	}

	if strings.TrimSpace(msg.Text) == "" {
		if msg.PhotoFileID != "" {
			p.reply(ctx, msg, errReplyNoTitle)
		}
		return
	}

	links := linkex.Extract(msg.Text)
	if len(links) == 0 {
		return
	}

	seed := manual.Parse(msg.Text)
	for i, link := range links {
		if i > 0 {
			if err := p.limiter.Wait(ctx); err != nil {
				return
			}
		}
		p.handleLink(ctx, msg, link, seed)
	}
}

// handleLink processes one link end to end. A panic anywhere inside the
// per-link flow is downgraded to a minimal placeholder reply.
func (p *Pipeline) handleLink(ctx context.Context, msg models.RawMessage, link string, seed manual.Info) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Link processing panicked", "link", link, "panic", r)
			fallback := fmt.Sprintf("%s\n\n%s\n\n%s",
				models.PlatformGeneric.PlaceholderTitle(), link, p.formatter.Signature)
			p.reply(ctx, msg, fallback)
		}
	}()

	resolved := p.resolver.Resolve(ctx, link)
	canonical := cleaner.Clean(resolved)

	rec := p.scraper.Scrape(ctx, canonical, seed)
	if seed.Title == "" {
		p.polishTitle(ctx, rec)
	}

	if err := p.validate.ValidateRecord(rec); err != nil {
		slog.Warn("Record failed validation, sending anyway with cleared extras",
			"link", canonical, "error", err)
		clearValidatedExtras(rec)
	}

	p.reply(ctx, msg, p.formatter.Deal(rec, canonical))
}

// polishTitle optionally runs the AI title pass. The caller only invokes
// it for scrape-derived titles; message-supplied titles stay verbatim,
// and placeholder titles are skipped here via the error marker.
func (p *Pipeline) polishTitle(ctx context.Context, rec *models.ProductRecord) {
	if p.polisher == nil || rec.Title == "" || rec.Error != "" {
		return
	}
	polished, err := p.polisher.PolishTitle(ctx, rec.Title)
	if err != nil {
		slog.Warn("Title polish failed", "error", err)
		return
	}
	if polished != "" {
		rec.Title = polished
	}
}

// clearValidatedExtras drops the optional fields that can trip struct
// validation so a reply still goes out with the core data.
func clearValidatedExtras(rec *models.ProductRecord) {
	if !models.ValidPrice(rec.Price) {
		rec.Price = 0
	}
	if !models.ValidPrice(rec.OriginalPrice) {
		rec.OriginalPrice = 0
		rec.DiscountPercent = 0
	}
	rec.ImageURL = ""
	if len(rec.Pin) != 6 {
		rec.Pin = ""
	}
}

func (p *Pipeline) reply(ctx context.Context, msg models.RawMessage, text string) {
	if err := p.sender.SendMessage(ctx, msg.ChatID, text, msg.MessageID); err != nil {
		slog.Error("Failed to send reply", "chat", msg.ChatID, "message", msg.MessageID, "error", err)
	}
}
