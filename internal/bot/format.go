package bot

import (
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/akozyrev/invoice-scanner/internal/invoice"
)

// telegramMessageLimit is Telegram's hard cap on message length.
const telegramMessageLimit = 4096

// FormatRecord renders an extracted record as a MarkdownV2 message.
// Lines for absent fields are omitted entirely.
func FormatRecord(rec *invoice.Record) string {
	var b strings.Builder
	b.WriteString("📑 *Результаты сканирования:*\n\n")

	b.WriteString(fmtLine("Тип документа", rec.DocumentType))
	b.WriteString(fmtLine("Номер", rec.DocumentNumber))
	b.WriteString(fmtLine("Дата", rec.DocumentDate))
	b.WriteString("\n")

	if hasAny(rec.Supplier.Name, rec.Supplier.INN, rec.Supplier.KPP, rec.Supplier.Address,
		rec.Supplier.Bank, rec.Supplier.BIK, rec.Supplier.Account, rec.Supplier.CorrespondentAccount) {
		b.WriteString("👨‍💼 *Поставщик:*\n")
		b.WriteString(fmtLine("Название", rec.Supplier.Name))
		b.WriteString(fmtLine("ИНН", rec.Supplier.INN))
		b.WriteString(fmtLine("КПП", rec.Supplier.KPP))
		b.WriteString(fmtLine("Адрес", rec.Supplier.Address))
		b.WriteString(fmtLine("Банк", rec.Supplier.Bank))
		b.WriteString(fmtLine("БИК", rec.Supplier.BIK))
		b.WriteString(fmtLine("Расчётный счёт", rec.Supplier.Account))
		b.WriteString(fmtLine("Корр. счёт", rec.Supplier.CorrespondentAccount))
		b.WriteString("\n")
	}

	if hasAny(rec.Buyer.Name, rec.Buyer.INN, rec.Buyer.KPP, rec.Buyer.Address) {
		b.WriteString("🧾 *Покупатель:*\n")
		b.WriteString(fmtLine("Название", rec.Buyer.Name))
		b.WriteString(fmtLine("ИНН", rec.Buyer.INN))
		b.WriteString(fmtLine("КПП", rec.Buyer.KPP))
		b.WriteString(fmtLine("Адрес", rec.Buyer.Address))
		b.WriteString("\n")
	}

	b.WriteString("💰 *Суммы:*\n")
	b.WriteString(fmtLine("Итого", rec.TotalAmount))
	b.WriteString(fmtLine("Сумма НДС", rec.VATAmount))
	b.WriteString(fmtLine("Ставка НДС", &rec.VATRate))
	b.WriteString("\n")

	if len(rec.Items) > 0 {
		b.WriteString("📦 *Позиции:*\n")
		for _, item := range rec.Items {
			b.WriteString(fmtItem(item))
		}
		b.WriteString("\n")
	}

	return truncateMessage(b.String())
}

// fmtLine escapes the label as well as the value: label text like
// «Корр. счёт» carries a period, which MarkdownV2 reserves.
func fmtLine(label string, value *string) string {
	if value == nil || *value == "" {
		return ""
	}
	return "*" + escape(label) + ":* " + escape(*value) + "\n"
}

func fmtItem(item invoice.LineItem) string {
	var b strings.Builder
	if item.Name != nil {
		b.WriteString("• " + escape(*item.Name))
	}
	if item.Qty != nil {
		b.WriteString(" — " + escape(*item.Qty) + " шт")
	}
	if item.Price != nil {
		b.WriteString(", цена " + escape(*item.Price))
	}
	if item.Total != nil {
		b.WriteString(", сумма " + escape(*item.Total))
	}
	b.WriteString("\n")
	return b.String()
}

func hasAny(vals ...*string) bool {
	for _, v := range vals {
		if v != nil && *v != "" {
			return true
		}
	}
	return false
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func truncateMessage(s string) string {
	if len(s) <= telegramMessageLimit {
		return s
	}
	cut := telegramMessageLimit - len("\n…")
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "\n…"
}
