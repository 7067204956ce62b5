package order

// Preferred contact channels offered by the storefront checkout form.
const (
	PreferPhone    = "phone"
	PreferWhatsApp = "whatsapp"
	PreferTelegram = "telegram"
)

// Contact is the customer contact attached to an order. Newer storefront
// versions store a structured object (Phone, Email, PreferredContact); older
// rows may hold a plain string, which is kept in Raw.
type Contact struct {
	Phone            string
	Email            string
	PreferredContact string
	Raw              string
}

// IsEmpty reports whether the order carries no contact at all.
func (c Contact) IsEmpty() bool {
	return c == Contact{}
}

// IsStructured reports whether the contact came from a structured object.
func (c Contact) IsStructured() bool {
	return c.Raw == "" && !c.IsEmpty()
}

// Matches reports whether query equals the email or the phone exactly.
// Comparison is case-sensitive and an empty field never matches.
func (c Contact) Matches(query string) bool {
	if query == "" {
		return false
	}
	return c.Email == query || c.Phone == query
}

// Item is one line of an order.
type Item struct {
	Title    string
	Quantity int
	Price    float64
}

// Items is the ordered line list of an order. When the stored value is not a
// list it is preserved in Raw and Lines is empty.
type Items struct {
	Lines []Item
	Raw   string
}

// Len returns the number of structured lines.
func (i Items) Len() int {
	return len(i.Lines)
}
