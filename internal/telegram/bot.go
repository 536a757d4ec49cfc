// Package telegram connects the pipeline to the Telegram Bot API. Bot is the
// pipeline's Transport and feeds it updates from polling or a webhook.
package telegram

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ppiankov/factbot/internal/format"
	"github.com/ppiankov/factbot/internal/model"
	"github.com/ppiankov/factbot/internal/pipeline"
)

const pollTimeout = 60

// Handler processes one inbound message to completion
type Handler interface {
	Dispatch(ctx context.Context, msg pipeline.Message)
}

// Limiter delays a user's messages when they arrive too fast
type Limiter interface {
	Wait(ctx context.Context, userID string) error
}

// Info is shown by the /help and /about commands
type Info struct {
	Version  string
	Provider string
	Limits   model.LimitsConfig
}

// Options configures a Bot
type Options struct {
	Mode       string // polling or webhook
	WebhookURL string
	Info       Info
	Limiter    Limiter // Optional
	Downloader *Downloader
}

// Bot implements pipeline.Transport on top of the Bot API
type Bot struct {
	api        *tgbotapi.BotAPI
	opts       Options
	downloader *Downloader
	logger     *slog.Logger

	webhook chan tgbotapi.Update
	wg      sync.WaitGroup
}

// NewAPI connects to the Bot API with the given HTTP client
func NewAPI(cfg model.TelegramConfig, client *http.Client) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPIWithClient(cfg.Token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", redactURL(err))
	}
	api.Debug = cfg.Debug
	return api, nil
}

// New creates a Bot
func New(api *tgbotapi.BotAPI, opts Options, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Downloader == nil {
		opts.Downloader = NewDownloader(nil, 0)
	}
	logger = logger.With("component", "telegram")
	_ = tgbotapi.SetLogger(botLogger{logger})

	return &Bot{
		api:        api,
		opts:       opts,
		downloader: opts.Downloader,
		logger:     logger,
		webhook:    make(chan tgbotapi.Update, 100),
	}
}

// Username returns the bot's account name
func (b *Bot) Username() string {
	return b.api.Self.UserName
}

// WebhookPath is the HTTP path updates are posted to in webhook mode
func (b *Bot) WebhookPath() string {
	return WebhookPath(b.api.Token)
}

// WebhookPath derives an opaque route from the bot token. The raw token is
// never used since its ':' would read as a route parameter.
func WebhookPath(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "/telegram/" + hex.EncodeToString(sum[:])
}

// Reply sends text as a reply to a message
func (b *Bot) Reply(_ context.Context, to pipeline.MessageRef, text string) (pipeline.MessageRef, error) {
	cfg := tgbotapi.NewMessage(to.ChatID, text)
	cfg.ReplyToMessageID = to.MessageID

	sent, err := b.api.Send(cfg)
	if err != nil {
		return pipeline.MessageRef{}, fmt.Errorf("send message: %w", redactURL(err))
	}
	return pipeline.MessageRef{ChatID: to.ChatID, MessageID: sent.MessageID}, nil
}

// Edit replaces the text of a message the bot sent
func (b *Bot) Edit(_ context.Context, ref pipeline.MessageRef, text string) error {
	if _, err := b.api.Send(tgbotapi.NewEditMessageText(ref.ChatID, ref.MessageID, text)); err != nil {
		return fmt.Errorf("edit message: %w", redactURL(err))
	}
	return nil
}

// GetFile resolves a file ID to its download URL
func (b *Bot) GetFile(_ context.Context, fileID string) (pipeline.RemoteFile, error) {
	f, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return pipeline.RemoteFile{}, fmt.Errorf("get file: %w", redactURL(err))
	}
	return pipeline.RemoteFile{ID: f.FileID, URL: f.Link(b.api.Token), Size: int64(f.FileSize)}, nil
}

// Download writes a resolved file to dest
func (b *Bot) Download(ctx context.Context, file pipeline.RemoteFile, dest string) error {
	if err := b.downloader.Fetch(ctx, file.URL, dest); err != nil {
		return fmt.Errorf("download %s: %w", file.ID, err)
	}
	return nil
}

// Serve receives updates until ctx is cancelled, then waits for in-flight
// messages to finish. Pipelines are detached from ctx and run to completion.
func (b *Bot) Serve(ctx context.Context, h Handler) error {
	var updates <-chan tgbotapi.Update

	switch strings.ToLower(b.opts.Mode) {
	case "webhook":
		if err := b.registerWebhook(); err != nil {
			return err
		}
		updates = b.webhook
	default:
		if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			b.logger.Warn("failed to delete webhook", "error", err)
		}
		u := tgbotapi.NewUpdate(0)
		u.Timeout = pollTimeout
		updates = b.api.GetUpdatesChan(u)
		defer b.api.StopReceivingUpdates()
	}

	b.logger.Info("receiving updates", "mode", b.opts.Mode, "username", b.api.Self.UserName)

	runCtx := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("waiting for in-flight messages")
			b.wg.Wait()
			return nil
		case update, ok := <-updates:
			if !ok {
				b.wg.Wait()
				return nil
			}
			b.handleUpdate(runCtx, h, update)
		}
	}
}

// ReceiveWebhook decodes an update posted by Telegram and queues it
func (b *Bot) ReceiveWebhook(r *http.Request) error {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		return fmt.Errorf("decode update: %w", err)
	}

	select {
	case b.webhook <- *update:
		return nil
	default:
		return errors.New("update queue full")
	}
}

func (b *Bot) registerWebhook() error {
	if b.opts.WebhookURL == "" {
		return errors.New("webhook url is required in webhook mode")
	}

	wh, err := tgbotapi.NewWebhook(strings.TrimRight(b.opts.WebhookURL, "/") + b.WebhookPath())
	if err != nil {
		return fmt.Errorf("build webhook: %w", err)
	}
	if _, err := b.api.Request(wh); err != nil {
		return fmt.Errorf("register webhook: %w", redactURL(err))
	}

	info, err := b.api.GetWebhookInfo()
	if err != nil {
		return fmt.Errorf("get webhook info: %w", redactURL(err))
	}
	if info.LastErrorDate != 0 {
		b.logger.Warn("webhook reported an error", "error", info.LastErrorMessage)
	}
	return nil
}

func (b *Bot) handleUpdate(ctx context.Context, h Handler, update tgbotapi.Update) {
	if update.Message == nil {
		return
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.handleMessage(ctx, h, update.Message)
	}()
}

func (b *Bot) handleMessage(ctx context.Context, h Handler, m *tgbotapi.Message) {
	if m.Chat == nil {
		return
	}
	ref := pipeline.MessageRef{ChatID: m.Chat.ID, MessageID: m.MessageID}

	if m.IsCommand() {
		if text, ok := b.commandReply(m.Command()); ok {
			b.send(ctx, ref, text)
		}
		return
	}

	msg, ok := toMessage(m)
	if !ok {
		b.send(ctx, ref, format.UnsupportedTypeMessage())
		return
	}

	if b.opts.Limiter != nil {
		if err := b.opts.Limiter.Wait(ctx, msg.UserID); err != nil {
			b.logger.Warn("rate limit wait failed", "user_id", msg.UserID, "error", err)
			return
		}
	}

	h.Dispatch(ctx, msg)
}

func (b *Bot) commandReply(command string) (string, bool) {
	switch command {
	case "start":
		return format.StartMessage(), true
	case "help":
		return format.HelpMessage(b.opts.Info.Limits), true
	case "about":
		return format.AboutMessage(b.opts.Info.Version, b.opts.Info.Provider), true
	default:
		return "", false
	}
}

func (b *Bot) send(ctx context.Context, to pipeline.MessageRef, text string) {
	if _, err := b.Reply(ctx, to, text); err != nil {
		b.logger.Error("failed to reply", "chat_id", to.ChatID, "error", err)
	}
}

// botLogger routes the Bot API library's logging through slog
type botLogger struct {
	logger *slog.Logger
}

func (l botLogger) Println(v ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintln(v...)))
}

func (l botLogger) Printf(f string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(f, v...))
}
