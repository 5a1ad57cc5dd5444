package formatter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gstrelay/internal/constants"
	"gstrelay/internal/lookup"
)

const notAvailable = "N/A"

// Formatter renders every user-facing reply. It holds no mutable state and is
// safe for concurrent use.
type Formatter struct {
	style     string
	alertDays int
	now       func() time.Time
}

type Option func(*Formatter)

// WithClock replaces the wall clock used by the alert calculation.
func WithClock(now func() time.Time) Option {
	return func(f *Formatter) {
		f.now = now
	}
}

// New returns a formatter for style (rich or plain). Unknown styles fall back to rich.
func New(style string, alertDays int, opts ...Option) *Formatter {
	if style != constants.StylePlain {
		style = constants.StyleRich
	}
	if alertDays <= 0 {
		alertDays = constants.DefaultAlertDays
	}

	f := &Formatter{
		style:     style,
		alertDays: alertDays,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Formatter) Style() string {
	return f.style
}

func (f *Formatter) rich() bool {
	return f.style == constants.StyleRich
}

// SendsProcessingNotice reports whether a "please wait" message precedes the lookup.
func (f *Formatter) SendsProcessingNotice() bool {
	return f.rich()
}

func (f *Formatter) Help() string {
	if !f.rich() {
		return "Send a 15-character GST number to check its filing status.\nExample: 29AADCB2230M1Z2"
	}
	return "📋 *Welcome to GST Verification Bot*\n\n" +
		"Please send a valid GST number (15 characters).\n" +
		"Example: *29AADCB2230M1Z2*\n\n" +
		"I will check the filing status and provide details."
}

func (f *Formatter) Processing(gstin string) string {
	if !f.rich() {
		return "Checking GST: " + gstin
	}
	return fmt.Sprintf("🔍 Checking GST: %s\nPlease wait...", gstin)
}

func (f *Formatter) InvalidFormat(gstin string) string {
	if !f.rich() {
		return fmt.Sprintf("Invalid GST format: %s\nExample: 29AADCB2230M1Z2", gstin)
	}
	return "❌ *Invalid GST Format*\n\n" +
		fmt.Sprintf("GST Number: %s\n", gstin) +
		"Please send a valid 15-character GST number.\n" +
		"Format: 2 digits + 10 chars + 3 digits\n" +
		"Example: 29AADCB2230M1Z2"
}

func (f *Formatter) NotFound(gstin string) string {
	if !f.rich() {
		return fmt.Sprintf("GST %s was not found. Please verify the number and try again.", gstin)
	}
	return "❌ *GST Not Found*\n\n" +
		fmt.Sprintf("GST Number: *%s*\n", gstin) +
		"This GST number is not registered or not found in our database.\n\n" +
		"Please verify the number and try again."
}

func (f *Formatter) Unavailable(gstin string) string {
	if !f.rich() {
		return fmt.Sprintf("Service temporarily unavailable while checking GST %s. Please try again later.", gstin)
	}
	return "⚠️ *Service Temporarily Unavailable*\n\n" +
		fmt.Sprintf("We encountered an error while processing GST: %s\n", gstin) +
		"Please try again in a few minutes."
}

// Report renders the status record for gstin.
func (f *Formatter) Report(gstin string, rec *lookup.StatusRecord) string {
	if f.rich() {
		return richReport(gstin, rec)
	}
	return plainReport(gstin, rec)
}

func richReport(gstin string, rec *lookup.StatusRecord) string {
	var b strings.Builder

	b.WriteString("📄 *GST Verification Results*\n\n")
	fmt.Fprintf(&b, "*GST Number:* %s\n", gstin)
	fmt.Fprintf(&b, "*Business Name:* %s\n", orNA(rec.BusinessName))
	fmt.Fprintf(&b, "*Legal Name:* %s\n", orNA(rec.LegalName))
	fmt.Fprintf(&b, "*State Code:* %s\n", orNA(rec.StateCode))
	fmt.Fprintf(&b, "*Status:* %s\n\n", filedBadge(rec.IsFiled, true))

	b.WriteString("📅 *Filing Details:*\n")
	fmt.Fprintf(&b, "• Registration Date: %s\n", dateOrNA(rec.RegistrationDate))
	fmt.Fprintf(&b, "• Last Filed: %s\n", dateOrNA(rec.LastFiled))
	fmt.Fprintf(&b, "• Due Date: %s\n", dateOrNA(rec.DueDate))
	fmt.Fprintf(&b, "• Business Type: %s\n", orNA(rec.BusinessType))
	fmt.Fprintf(&b, "• Compliance Score: %s\n\n", scoreOrNA(rec.ComplianceScore))

	b.WriteString("🏢 *Business Info:*\n")
	fmt.Fprintf(&b, "• Address: %s\n", orNA(rec.Address))
	fmt.Fprintf(&b, "• Contact: %s\n", orNA(rec.Contact))
	fmt.Fprintf(&b, "• Turnover: %s\n\n", orNA(rec.Turnover))

	if rec.IsFiled {
		b.WriteString("✅ *All GST returns are filed up to date.*")
	} else {
		b.WriteString("⚠️ *GST returns are pending. Please file immediately.*")
	}

	return b.String()
}

func plainReport(gstin string, rec *lookup.StatusRecord) string {
	lines := []string{
		"GST Number: " + gstin,
		"Business Name: " + orNA(rec.BusinessName),
		"Legal Name: " + orNA(rec.LegalName),
		"Status: " + filedBadge(rec.IsFiled, false),
		"Registration Date: " + dateOrNA(rec.RegistrationDate),
		"Last Filed: " + dateOrNA(rec.LastFiled),
		"Due Date: " + dateOrNA(rec.DueDate),
		"Address: " + orNA(rec.Address),
		"Contact: " + orNA(rec.Contact),
		"Turnover: " + orNA(rec.Turnover),
	}
	if rec.IsFiled {
		lines = append(lines, "All GST returns are filed up to date.")
	} else {
		lines = append(lines, "GST returns are pending. Please file immediately.")
	}
	return strings.Join(lines, "\n")
}

// Alert returns the urgency message for an unfiled record whose due date is at
// most alertDays away. Overdue records also alert. ok is false when no alert applies.
func (f *Formatter) Alert(gstin string, rec *lookup.StatusRecord) (msg string, ok bool) {
	if rec == nil || rec.IsFiled || !rec.DueDate.Present() {
		return "", false
	}

	days := DaysRemaining(rec.DueDate.Time, f.now())
	if days > f.alertDays {
		return "", false
	}

	due := rec.DueDate.String()
	if !f.rich() {
		return fmt.Sprintf("ALERT: GST %s is not filed. Due date: %s (%d days remaining).", gstin, due, days), true
	}

	return "🚨 *URGENT ALERT*\n\n" +
		fmt.Sprintf("GST: *%s*\n", gstin) +
		"Status: *NOT FILED*\n" +
		fmt.Sprintf("Due Date: *%s*\n", due) +
		fmt.Sprintf("Days Remaining: *%d*\n\n", days) +
		"Please file immediately to avoid penalties!", true
}

// DaysRemaining is ceil((due - now) / 24h).
func DaysRemaining(due, now time.Time) int {
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}

func filedBadge(filed, rich bool) string {
	switch {
	case filed && rich:
		return "✅ FILED"
	case rich:
		return "❌ NOT FILED"
	case filed:
		return "FILED"
	default:
		return "NOT FILED"
	}
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

func dateOrNA(d *lookup.Date) string {
	if !d.Present() {
		return notAvailable
	}
	return d.String()
}

func scoreOrNA(score *int) string {
	if score == nil {
		return notAvailable
	}
	return strconv.Itoa(*score) + "%"
}
