// Package bot is the Telegram front end. It accepts PDF documents from
// users and replies with the extracted fields, calling the scan pipeline
// in-process.
package bot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/akozyrev/invoice-scanner/constants"
	"github.com/akozyrev/invoice-scanner/internal/common"
	"github.com/akozyrev/invoice-scanner/internal/pipeline"
	"github.com/akozyrev/invoice-scanner/internal/repository"
)

// DocumentScanner is what the bot needs from the pipeline.
type DocumentScanner interface {
	Scan(ctx context.Context, path string) (*pipeline.ScanResult, error)
}

type Bot struct {
	api     *tgbotapi.BotAPI
	scanner DocumentScanner
	scans   repository.ScanRepo
	cfg     common.BotConfig
	dir     string // temp dir for downloaded documents
	logger  *slog.Logger

	mu      sync.Mutex
	waiting map[int64]bool // chats that pressed Скан and owe us a PDF
}

func New(cfg common.BotConfig, scanner DocumentScanner, scans repository.ScanRepo, logger *slog.Logger) (*Bot, error) {
	if logger == nil {
		logger = slog.Default()
	}
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, common.WrapError(err, "telegram auth")
	}
	return &Bot{
		api:     api,
		scanner: scanner,
		scans:   scans,
		cfg:     cfg,
		dir:     os.TempDir(),
		logger:  logger,
		waiting: make(map[int64]bool),
	}, nil
}

func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("Информация"),
			tgbotapi.NewKeyboardButton("Скан"),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

// Run polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(b.cfg.PollTimeout.Seconds())
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("bot.started", "username", b.api.Self.UserName)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
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

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	switch {
	case msg.IsCommand() && msg.Command() == "start":
		b.replyPlain(msg.Chat.ID, "Привет! 👋\nЭтот бот распознаёт важные поля из PDF-счётов.")
	case msg.Document != nil:
		b.handleDocument(ctx, msg)
	case msg.Text == "Информация":
		b.replyPlain(msg.Chat.ID,
			"ℹ️ Как пользоваться ботом\n\n"+
				"1) Нажмите кнопку Скан\n"+
				"2) Отправьте PDF-файл\n"+
				"3) Бот обработает документ и пришлёт ключевые поля:\n"+
				"- Тип документа\n"+
				"- Номер\n"+
				"- Дата\n"+
				"- Поставщик и покупатель\n"+
				"- Суммы\n"+
				"- Табличная часть")
	case msg.Text == "Скан":
		b.setWaiting(msg.Chat.ID, true)
		b.replyPlain(msg.Chat.ID, "📄 Пришлите PDF-файл для сканирования.")
	default:
		b.replyPlain(msg.Chat.ID, "Используйте меню 👆")
	}
}

func (b *Bot) handleDocument(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if !b.isWaiting(chatID) {
		b.replyPlain(chatID, "Нажмите 'Скан', чтобы начать обработку 📄")
		return
	}
	defer b.setWaiting(chatID, false)

	doc := msg.Document
	ext := constants.NormalizeExt(filepath.Ext(doc.FileName))
	if _, ok := constants.AllowedExtensions[ext]; !ok {
		b.replyPlain(chatID, "❌ Можно загружать только PDF-файлы и изображения.")
		return
	}

	path, err := b.download(ctx, doc.FileID, ext)
	if err != nil {
		b.logger.Error("bot.download.failed", "chat_id", chatID, "err", err)
		b.replyPlain(chatID, "⚠️ Не удалось загрузить файл.")
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			b.logger.Warn("bot.cleanup.failed", "path", path, "err", err)
		}
	}()

	res, err := b.scanner.Scan(ctx, path)
	if err != nil {
		b.logger.Error("bot.scan.failed", "chat_id", chatID, "err", err)
		b.persist(ctx, doc.FileName, nil, err)
		b.replyPlain(chatID, "⚠️ Не удалось обработать документ.")
		return
	}
	b.persist(ctx, doc.FileName, res, nil)

	reply := tgbotapi.NewMessage(chatID, FormatRecord(res.Record))
	reply.ParseMode = tgbotapi.ModeMarkdownV2
	reply.ReplyMarkup = mainKeyboard()
	if _, err := b.api.Send(reply); err != nil {
		b.logger.Error("bot.send.failed", "chat_id", chatID, "err", err)
	}
}

// download fetches a Telegram file into the temp dir and returns its path.
func (b *Bot) download(ctx context.Context, fileID, ext string) (string, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return "", common.WrapError(err, "get file")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", common.WrapError(err, "download file")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	path := filepath.Join(b.dir, uuid.NewString()+"."+ext)
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(path)
		return "", common.WrapError(err, "write file")
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return path, nil
}

func (b *Bot) persist(ctx context.Context, filename string, res *pipeline.ScanResult, scanErr error) {
	if b.scans == nil {
		return
	}
	scan := &repository.Scan{Filename: filename}
	if scanErr != nil {
		scan.Status = constants.ScanStatusFailed
		scan.Error = scanErr.Error()
	} else {
		scan.Status = constants.ScanStatusOK
		scan.SourceType = res.SourceType
		scan.Method = res.Method
		scan.Confidence = res.Confidence
		scan.Pages = res.Pages
		scan.RecordJSON = res.RecordJSON
		scan.NeedsReview = res.NeedsReview
		scan.Issues = strings.Join(res.Issues, "\n")
	}
	if err := b.scans.Create(ctx, scan); err != nil {
		b.logger.Error("bot.persist.failed", "err", err)
	}
}

func (b *Bot) replyPlain(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = mainKeyboard()
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("bot.send.failed", "chat_id", chatID, "err", err)
	}
}

func (b *Bot) isWaiting(chatID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.waiting[chatID]
}

func (b *Bot) setWaiting(chatID int64, v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.waiting[chatID] = v
}
