// Package view renders orders and menus for the Telegram chat: HTML message
// bodies (parse mode HTML), inline keyboards and the callback payloads those
// keyboards carry.
package view

import (
	"html"
	"strings"
	"time"
	"unicode"

	"orderbot/internal/core/application/usecases/commands"
	"orderbot/internal/core/application/workflow"
	"orderbot/internal/core/domain/model/order"
	"orderbot/internal/core/domain/services"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DateLayout is how order creation times are shown.
const DateLayout = "02 January 2006, 15:04"

const (
	dayLayout        = "02 January 2006"
	selectionPreview = 10
)

// Fixed texts that need no formatting.
const (
	OrderNotFound      = "❌ <b>Order not found.</b>"
	NoOrders           = "❌ <b>No orders yet.</b>"
	NoOrdersWithStatus = "❌ <b>No orders with this status.</b>"
	NoOrdersForBulk    = "❌ <b>No orders for bulk actions.</b>"
	NothingToExport    = "❌ <b>No orders to export.</b>"
	NoChartData        = "❌ <b>Not enough data for the chart.</b>"
	NothingSelected    = "❌ <b>No orders selected.</b>"
	StoreUnavailable   = "⚠️ Orders are temporarily unavailable. Please try again later."
	UnexpectedError    = "⚠️ Something went wrong. Details are in the bot log."
	DeleteConfirm      = "❗️ <b>Delete this order?</b>"
	FindMenu           = "🔍 <b>How do you want to find the order?</b>"
	FindContactPrompt  = "📧 <b>Send the email or phone to search for:</b>"
	FindIDPrompt       = "🆔 <b>Send the order ID:</b>"
	FilterMenu         = "🗂 <b>Choose a status to filter by:</b>"
	MassSelectPrompt   = "🧩 <b>Pick orders for a bulk action:</b>"
	SelectionCleared   = "🧹 Selection cleared."
	UnknownCommand     = "🤷 Unknown command. Send /help for the list."

	UsageOrder       = "Usage: /order &lt;id&gt;"
	UsageSetStatus   = "Usage: /setstatus &lt;id&gt; &lt;status&gt;"
	UsageDeleteOrder = "Usage: /deleteorder &lt;id&gt;"
)

var statusLabels = map[order.Status]struct{ icon, name string }{
	order.Pending:   {"🟡", "Pending"},
	order.Paid:      {"🟢", "Paid"},
	order.Cancelled: {"🔴", "Cancelled"},
	order.Done:      {"✅", "Done"},
}

// StatusLabel is the plain-text label used on buttons. Unknown statuses are
// shown verbatim.
func StatusLabel(s order.Status) string {
	if l, ok := statusLabels[s]; ok {
		return l.icon + " " + l.name
	}
	return "❔ " + s.String()
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithLanguage sets the locale used for numbers.
func WithLanguage(tag language.Tag) Option {
	return func(f *Formatter) {
		f.printer = message.NewPrinter(tag)
	}
}

// WithLocation sets the time zone creation times are shown in.
func WithLocation(loc *time.Location) Option {
	return func(f *Formatter) {
		if loc != nil {
			f.location = loc
		}
	}
}

// WithStorefrontURL sets the link offered to users who are not the admin.
func WithStorefrontURL(url string) Option {
	return func(f *Formatter) {
		f.storefrontURL = url
	}
}

// Formatter renders HTML message bodies. It is safe for concurrent use.
type Formatter struct {
	printer       *message.Printer
	location      *time.Location
	storefrontURL string
}

// NewFormatter returns a formatter with Russian number formatting and UTC times.
func NewFormatter(opts ...Option) *Formatter {
	f := &Formatter{
		printer:  message.NewPrinter(language.Russian),
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Price renders an amount in roubles.
func (f *Formatter) Price(v float64) string {
	return f.printer.Sprintf("%.2f₽", v)
}

// Date renders a creation time.
func (f *Formatter) Date(t time.Time) string {
	return t.In(f.location).Format(DateLayout)
}

// Status renders a status with its icon.
func (f *Formatter) Status(s order.Status) string {
	if l, ok := statusLabels[s]; ok {
		return l.icon + " <b>" + l.name + "</b>"
	}
	return "❔ <b>" + html.EscapeString(s.String()) + "</b>"
}

// NotAdmin is the reply to anyone who is not the admin.
func (f *Formatter) NotAdmin() string {
	text := "You are not an administrator. Want to buy something?"
	if f.storefrontURL != "" {
		text += " " + html.EscapeString(f.storefrontURL)
	}
	return text
}

// MainMenu is the greeting shown with MainMenuKeyboard.
func (f *Formatter) MainMenu() string {
	return "👋 <b>Hello, admin!</b>\n\n<b>Choose a command:</b>\n\n" +
		"<b>📦 Recent orders</b>: browse the latest orders\n" +
		"<b>🔍 Find order</b>: find an order by email, phone or ID\n" +
		"<b>📊 Statistics</b>: order totals and top products\n" +
		"<b>📤 Export orders</b>: download every order as CSV\n" +
		"<b>❓ Help</b>: list of all commands"
}

// Help lists the slash commands.
func (f *Formatter) Help() string {
	return "<b>❓ Help</b>\n\n" +
		"<b>/orders</b>: recent orders\n" +
		"<b>/order &lt;id&gt;</b>: order details\n" +
		"<b>/setstatus &lt;id&gt; &lt;status&gt;</b>: change the order status\n" +
		"<b>/deleteorder &lt;id&gt;</b>: delete an order\n" +
		"<b>/find &lt;email or phone&gt;</b>: find orders by contact\n" +
		"<b>/stats</b>: statistics\n" +
		"<b>/sales</b>: sales chart\n" +
		"<b>/export</b>: export orders to CSV\n" +
		"<b>/clear</b>: clear the bulk selection\n" +
		"<b>/start</b>: main menu"
}

// OrderCard renders every detail of one order.
func (f *Formatter) OrderCard(o *order.Order) string {
	var b strings.Builder
	f.writeHeader(&b, o)
	b.WriteString(f.contact(o.Contact()))
	b.WriteString("\n<b>Items:</b>\n")
	b.WriteString(f.items(o.Items()))
	return b.String()
}

// NewOrderNotice announces an order the admin has not seen yet.
func (f *Formatter) NewOrderNotice(o *order.Order) string {
	return "🛍 <b>New order!</b>\n" + f.OrderCard(o)
}

// OverdueNotice reminds about an order stuck in pending.
func (f *Formatter) OverdueNotice(o *order.Order) string {
	return "⚠️ <b>Overdue order!</b>\n" + f.OrderCard(o)
}

// RecentOrders renders the recent orders list with phone and email.
func (f *Formatter) RecentOrders(orders []*order.Order) string {
	if len(orders) == 0 {
		return NoOrders
	}
	entries := make([]string, 0, len(orders))
	for _, o := range orders {
		var b strings.Builder
		f.writeHeader(&b, o)
		c := o.Contact()
		b.WriteString("\n<b>Phone:</b> <code>" + html.EscapeString(c.Phone) + "</code>")
		b.WriteString("\n<b>Email:</b> <code>" + html.EscapeString(c.Email) + "</code>")
		entries = append(entries, b.String())
	}
	return "<b>Recent orders:</b>\n\n" + strings.Join(entries, "\n\n")
}

// FilteredOrders renders the result of a status filter.
func (f *Formatter) FilteredOrders(statusOrAll string, orders []*order.Order) string {
	if len(orders) == 0 {
		return NoOrdersWithStatus
	}
	name := "All"
	if statusOrAll != order.AllStatuses {
		name = f.Status(order.Status(statusOrAll))
	}
	entries := make([]string, 0, len(orders))
	for _, o := range orders {
		var b strings.Builder
		f.writeHeader(&b, o)
		entries = append(entries, b.String())
	}
	return "<b>Orders with status:</b> " + name + "\n\n" + strings.Join(entries, "\n\n")
}

// Statistics renders the statistics screen.
func (f *Formatter) Statistics(s workflow.Statistics) string {
	var b strings.Builder
	b.WriteString(f.printer.Sprintf("<b>Total orders:</b> %d\n", s.Count))
	b.WriteString("<b>Orders sum:</b> " + f.Price(s.Sum) + "\n")
	b.WriteString("<b>Average order:</b> " + f.Price(s.Average) + "\n\n")
	b.WriteString("<b>Top products:</b>")
	if len(s.TopProducts) == 0 {
		b.WriteString("\n- none")
	}
	for _, p := range s.TopProducts {
		b.WriteString(f.printer.Sprintf("\n- %s: %d pcs", html.EscapeString(p.Title), p.Quantity))
	}
	return b.String()
}

// Selection renders the bulk selection, previewing the first ten ids.
func (f *Formatter) Selection(ids []string) string {
	var b strings.Builder
	b.WriteString(f.printer.Sprintf("<b>Selected orders:</b> %d\n", len(ids)))
	for i, id := range ids {
		if i == selectionPreview {
			break
		}
		b.WriteString("\n• <code>" + html.EscapeString(shortID(id, shortIDLength)) + "...</code>")
	}
	return b.String()
}

// BulkResult reports the outcome of a bulk action.
func (f *Formatter) BulkResult(r workflow.BulkResult) string {
	if r.Action.Kind() == commands.BulkDelete {
		return f.printer.Sprintf("✅ <b>Deleted orders:</b> %d of %d", r.Affected, r.Requested)
	}
	return f.printer.Sprintf("✅ <b>Status changed to</b> %s <b>for %d of %d orders.</b>",
		f.Status(r.Action.Status()), r.Affected, r.Requested)
}

// OrderDeleted confirms a single deletion.
func (f *Formatter) OrderDeleted(id string) string {
	return "✅ Order <code>" + html.EscapeString(id) + "</code> deleted."
}

// SalesListing is the text fallback for the sales chart.
func (f *Formatter) SalesListing(series []services.DailyTotal) string {
	if len(series) == 0 {
		return NoChartData
	}
	var b strings.Builder
	b.WriteString("<b>Sales by day:</b>")
	for _, d := range series {
		b.WriteString("\n" + d.Day.Format(dayLayout) + ": " + f.Price(d.Total))
	}
	return b.String()
}

// ExportCaption is attached to the CSV document.
func (f *Formatter) ExportCaption(rows int) string {
	return f.printer.Sprintf("📤 Orders exported: %d", rows)
}

// InvalidInput explains why an argument was rejected.
func (f *Formatter) InvalidInput(err error) string {
	return "❌ " + html.EscapeString(err.Error())
}

// StatusUpdated prefixes the refreshed order card after a status change.
func (f *Formatter) StatusUpdated(o *order.Order) string {
	return "✅ <b>Status updated.</b>\n\n" + f.OrderCard(o)
}

func (f *Formatter) writeHeader(b *strings.Builder, o *order.Order) {
	b.WriteString("<b>ID:</b> <code>" + html.EscapeString(o.ID()) + "</code>\n")
	b.WriteString("<b>Status:</b> " + f.Status(o.Status()) + "\n")
	b.WriteString("<b>Total:</b> <b>" + f.Price(o.TotalPrice()) + "</b>\n")
	b.WriteString("<b>Created:</b> <i>" + f.Date(o.CreatedAt()) + "</i>")
}

func (f *Formatter) contact(c order.Contact) string {
	if c.IsEmpty() {
		return ""
	}
	if !c.IsStructured() {
		return "\n<b>Contact:</b> " + html.EscapeString(c.Raw)
	}

	var b strings.Builder
	b.WriteString("\n<b>Customer:</b>")
	if c.Phone != "" {
		phone := html.EscapeString(c.Phone)
		b.WriteString("\n📞 <a href=\"tel:" + phone + "\">" + phone + "</a>")
	}
	if c.Email != "" {
		email := html.EscapeString(c.Email)
		b.WriteString("\n✉️ <a href=\"mailto:" + email + "\">" + email + "</a>")
	}
	if link := WhatsAppLink(c); link != "" {
		b.WriteString("\n💬 <a href=\"" + link + "\">WhatsApp</a>")
	}
	return b.String()
}

func (f *Formatter) items(items order.Items) string {
	if items.Raw != "" {
		return html.EscapeString(items.Raw)
	}
	if items.Len() == 0 {
		return "<i>none</i>"
	}
	lines := make([]string, 0, items.Len())
	for _, it := range items.Lines {
		lines = append(lines, f.printer.Sprintf("• %s × %d, <b>%s</b>",
			html.EscapeString(it.Title), it.Quantity, f.Price(it.Price)))
	}
	return strings.Join(lines, "\n")
}

// WhatsAppLink returns a wa.me link when the customer prefers WhatsApp and
// left a phone with at least one digit.
func WhatsAppLink(c order.Contact) string {
	if c.PreferredContact != order.PreferWhatsApp {
		return ""
	}
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, c.Phone)
	if digits == "" {
		return ""
	}
	return "https://wa.me/" + digits
}
