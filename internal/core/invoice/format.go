package invoice

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FormatVND は金額をベトナムドン表記に整形します。表示専用です。
func FormatVND(amount decimal.Decimal) string {
	rounded := amount.Round(0).IntPart()
	return message.NewPrinter(language.Vietnamese).Sprintf("%v ₫", number.Decimal(rounded))
}
