// Package csvexport serializes orders to CSV with a fixed column set.
package csvexport

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"orderbot/internal/core/domain/model/order"
)

// FileName is the name under which the export is delivered.
const FileName = "orders.csv"

// TimeLayout keeps the millisecond precision of the createdAt column.
const TimeLayout = "2006-01-02 15:04:05.000"

// Header lists the exported columns in order. Contact and items are written
// as JSON so every row has the same shape whatever the stored value was.
var Header = []string{"id", "status", "totalPrice", "createdAt", "contact", "items"}

type contactJSON struct {
	Phone            string `json:"phone,omitempty"`
	Email            string `json:"email,omitempty"`
	PreferredContact string `json:"preferredContact,omitempty"`
}

type itemJSON struct {
	Title    string  `json:"title"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Write writes the header and one row per order to w.
func Write(w io.Writer, orders []*order.Order) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return err
	}

	for _, o := range orders {
		row, err := record(o)
		if err != nil {
			return fmt.Errorf("order %s: %w", o.ID(), err)
		}
		if err = cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// Encode returns the CSV document for orders.
func Encode(orders []*order.Order) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, orders); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func record(o *order.Order) ([]string, error) {
	contact, err := encodeContact(o.Contact())
	if err != nil {
		return nil, err
	}

	items, err := encodeItems(o.Items())
	if err != nil {
		return nil, err
	}

	return []string{
		o.ID(),
		o.Status().String(),
		strconv.FormatFloat(o.TotalPrice(), 'f', -1, 64),
		o.CreatedAt().UTC().Format(TimeLayout),
		contact,
		items,
	}, nil
}

func encodeContact(c order.Contact) (string, error) {
	switch {
	case c.IsEmpty():
		return "", nil
	case !c.IsStructured():
		return marshal(c.Raw)
	default:
		return marshal(contactJSON{Phone: c.Phone, Email: c.Email, PreferredContact: c.PreferredContact})
	}
}

func encodeItems(items order.Items) (string, error) {
	if items.Raw != "" {
		return items.Raw, nil
	}

	lines := make([]itemJSON, 0, len(items.Lines))
	for _, l := range items.Lines {
		lines = append(lines, itemJSON{Title: l.Title, Quantity: l.Quantity, Price: l.Price})
	}
	return marshal(lines)
}

func marshal(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
