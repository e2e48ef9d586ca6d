// Package paylink builds the deep links and copy text guests use to pay
// the host. Links are plain strings; nothing here talks to a payment
// network, and a malformed handle just produces a link the target app
// rejects.
package paylink

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// Note is the payment memo attached to generated links.
func Note(itemCount int) string {
	return fmt.Sprintf("Cheq - (%d items)", itemCount)
}

// VenmoLink builds a venmo:// deep link paying total to handle. A leading
// @ on the handle is stripped; an empty handle omits the recipient so the
// app prompts for one.
func VenmoLink(handle string, total decimal.Decimal, itemCount int) string {
	handle = strings.TrimPrefix(handle, "@")
	recipient := ""
	if handle != "" {
		recipient = "&recipients=" + handle
	}
	return fmt.Sprintf("venmo://paycharge?txn=pay&amount=%s%s&note=%s",
		total.StringFixed(2), recipient, url.QueryEscape(Note(itemCount)))
}

// CashAppLink builds a cash.app payment URL. A leading $ on the handle is
// stripped; an empty handle falls back to the cash.app landing page.
func CashAppLink(handle string, total decimal.Decimal) string {
	handle = strings.TrimPrefix(handle, "$")
	if handle == "" {
		return "https://cash.app/"
	}
	return fmt.Sprintf("https://cash.app/$%s/%s", handle, total.StringFixed(2))
}

// CopyText is the clipboard fallback for hosts without payment handles.
func CopyText(total decimal.Decimal, itemNames []string) string {
	return fmt.Sprintf("I owe $%s for %s", total.StringFixed(2), strings.Join(itemNames, ", "))
}
