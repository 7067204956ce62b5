// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// The table layout belongs to the storefront (a Prisma schema), so table and column
// names are fixed and quoted exactly: "Order"("id", "status", "totalPrice",
// "createdAt", "contact", "items").
package orderrepo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"orderbot/internal/core/domain/model/order"

	"gorm.io/datatypes"
)

// OrderDTO represents the storefront's order row.
type OrderDTO struct {
	ID         string         `gorm:"column:id;type:text;primaryKey"`
	Status     string         `gorm:"column:status;type:text;not null;default:'pending'"`
	TotalPrice float64        `gorm:"column:totalPrice;type:double precision;not null"`
	CreatedAt  time.Time      `gorm:"column:createdAt;type:timestamp(3);not null;index"`
	Contact    datatypes.JSON `gorm:"column:contact"`
	Items      datatypes.JSON `gorm:"column:items"`
}

// TableName specifies the storefront table name.
func (OrderDTO) TableName() string {
	return "Order"
}

// contactDTO is the structured contact written by the storefront checkout.
type contactDTO struct {
	Phone            string `json:"phone,omitempty"`
	Email            string `json:"email,omitempty"`
	PreferredContact string `json:"preferredContact,omitempty"`
}

// itemDTO is one element of the items array. Quantity and price are decoded as
// floats because the column is schemaless JSON.
type itemDTO struct {
	ID       string   `json:"id,omitempty"`
	Title    string   `json:"title"`
	Quantity *float64 `json:"quantity,omitempty"`
	Price    float64  `json:"price"`
	Image    string   `json:"image,omitempty"`
}

// toDomain converts a row to an order aggregate using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	return order.RestoreOrder(
		dto.ID,
		order.Status(dto.Status),
		dto.TotalPrice,
		dto.CreatedAt,
		decodeContact(dto.Contact),
		decodeItems(dto.Items),
	)
}

func toDomainList(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, fmt.Errorf("order %q: %w", dto.ID, err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// decodeContact accepts an object, a JSON string or anything else; the latter
// two are kept verbatim in Contact.Raw.
func decodeContact(raw datatypes.JSON) order.Contact {
	data := bytes.TrimSpace(raw)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return order.Contact{}
	}

	var c contactDTO
	if data[0] == '{' && json.Unmarshal(data, &c) == nil {
		return order.Contact{
			Phone:            c.Phone,
			Email:            c.Email,
			PreferredContact: c.PreferredContact,
		}
	}

	var s string
	if json.Unmarshal(data, &s) == nil {
		return order.Contact{Raw: s}
	}
	return order.Contact{Raw: string(data)}
}

// decodeItems accepts an array of items; any other JSON value is kept in Items.Raw.
func decodeItems(raw datatypes.JSON) order.Items {
	data := bytes.TrimSpace(raw)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return order.Items{}
	}

	var dtos []itemDTO
	if data[0] != '[' || json.Unmarshal(data, &dtos) != nil {
		return order.Items{Raw: string(data)}
	}

	lines := make([]order.Item, 0, len(dtos))
	for _, dto := range dtos {
		qty := 1
		if dto.Quantity != nil {
			qty = int(math.Round(*dto.Quantity))
		}
		lines = append(lines, order.Item{
			Title:    dto.Title,
			Quantity: qty,
			Price:    dto.Price,
		})
	}
	return order.Items{Lines: lines}
}

// EncodeContact renders a contact back to the storefront JSON shape.
func EncodeContact(c order.Contact) datatypes.JSON {
	if c.IsEmpty() {
		return nil
	}
	if !c.IsStructured() {
		data, _ := json.Marshal(c.Raw)
		return data
	}
	data, _ := json.Marshal(contactDTO{
		Phone:            c.Phone,
		Email:            c.Email,
		PreferredContact: c.PreferredContact,
	})
	return data
}

// EncodeItems renders order lines back to the storefront JSON shape.
func EncodeItems(items order.Items) datatypes.JSON {
	if items.Raw != "" {
		return datatypes.JSON(items.Raw)
	}
	if items.Lines == nil {
		return nil
	}
	dtos := make([]itemDTO, 0, len(items.Lines))
	for _, line := range items.Lines {
		qty := float64(line.Quantity)
		dtos = append(dtos, itemDTO{Title: line.Title, Quantity: &qty, Price: line.Price})
	}
	data, _ := json.Marshal(dtos)
	return data
}

// FromDomain converts an order aggregate to its row. The application never
// inserts orders; integration tests use it to seed the table.
func FromDomain(o *order.Order) OrderDTO {
	return OrderDTO{
		ID:         o.ID(),
		Status:     o.Status().String(),
		TotalPrice: o.TotalPrice(),
		CreatedAt:  o.CreatedAt(),
		Contact:    EncodeContact(o.Contact()),
		Items:      EncodeItems(o.Items()),
	}
}
