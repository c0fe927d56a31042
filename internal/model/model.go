// Package model содержит доменные сущности сервиса аналитики платежей.
package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// User представляет покупателя, которому принадлежит платёж.
type User struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// PaymentItem описывает одну позицию платежа.
type PaymentItem struct {
	Name         string          `json:"name"`
	RegularPrice decimal.Decimal `json:"regular_price"`
	FinalPrice   decimal.Decimal `json:"final_price"`
}

// Discount возвращает скидку по позиции: регулярная цена минус итоговая.
func (i PaymentItem) Discount() decimal.Decimal {
	return i.RegularPrice.Sub(i.FinalPrice)
}

// Equal сравнивает позиции по значению.
func (i PaymentItem) Equal(o PaymentItem) bool {
	return i.Name == o.Name &&
		i.RegularPrice.Equal(o.RegularPrice) &&
		i.FinalPrice.Equal(o.FinalPrice)
}

// Payment описывает один факт оплаты: время, покупателя и упорядоченный список позиций.
type Payment struct {
	PaidAt time.Time     `json:"paid_at"`
	User   User          `json:"user"`
	Items  []PaymentItem `json:"items"`
}

// Total возвращает сумму итоговых цен всех позиций платежа.
func (p Payment) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range p.Items {
		total = total.Add(item.FinalPrice)
	}
	return total
}

// Equal сравнивает платежи по значению. Моменты времени сравниваются без учёта зоны.
func (p Payment) Equal(o Payment) bool {
	if !p.PaidAt.Equal(o.PaidAt) || p.User != o.User || len(p.Items) != len(o.Items) {
		return false
	}
	for i := range p.Items {
		if !p.Items[i].Equal(o.Items[i]) {
			return false
		}
	}
	return true
}

// Key возвращает каноническое строковое представление платежа.
// Два платежа равны по Equal тогда и только тогда, когда равны их ключи.
func (p Payment) Key() string {
	var b strings.Builder
	b.WriteString(p.PaidAt.UTC().Format(time.RFC3339Nano))
	writeField(&b, p.User.Email)
	writeField(&b, p.User.Name)
	for _, item := range p.Items {
		writeField(&b, item.Name)
		writeField(&b, item.RegularPrice.String())
		writeField(&b, item.FinalPrice.String())
	}
	return b.String()
}

// writeField дописывает поле с префиксом длины, чтобы разделитель внутри значения не давал коллизий.
func writeField(b *strings.Builder, s string) {
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(len(s)))
	b.WriteByte(':')
	b.WriteString(s)
}
