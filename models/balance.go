package models

import "encoding/json"

// ReceivableBalance is what a customer owes the shop. Positive = due, negative = advance.
type ReceivableBalance struct {
	amount Money
}

// PayableBalance is what the shop owes a wholesaler. Positive = due, negative = advance.
//
// It is deliberately a different type from ReceivableBalance so the two sign conventions
// can never be added together.
type PayableBalance struct {
	amount Money
}

func NewReceivableBalance(m Money) ReceivableBalance { return ReceivableBalance{amount: m} }
func NewPayableBalance(m Money) PayableBalance       { return PayableBalance{amount: m} }

func (b ReceivableBalance) Money() Money     { return b.amount }
func (b ReceivableBalance) Kind() EntityType { return EntityTypeCustomer }
func (b ReceivableBalance) IsDue() bool      { return b.amount.IsPositive() }
func (b ReceivableBalance) IsAdvance() bool  { return b.amount.IsNegative() }
func (b ReceivableBalance) IsSettled() bool  { return b.amount.IsZero() }
func (b ReceivableBalance) Add(o ReceivableBalance) ReceivableBalance {
	return ReceivableBalance{amount: b.amount.Add(o.amount)}
}

func (b PayableBalance) Money() Money     { return b.amount }
func (b PayableBalance) Kind() EntityType { return EntityTypeWholesaler }
func (b PayableBalance) IsDue() bool      { return b.amount.IsPositive() }
func (b PayableBalance) IsAdvance() bool  { return b.amount.IsNegative() }
func (b PayableBalance) IsSettled() bool  { return b.amount.IsZero() }
func (b PayableBalance) Add(o PayableBalance) PayableBalance {
	return PayableBalance{amount: b.amount.Add(o.amount)}
}

func (b ReceivableBalance) MarshalJSON() ([]byte, error) { return json.Marshal(b.amount) }
func (b *ReceivableBalance) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &b.amount)
}

func (b PayableBalance) MarshalJSON() ([]byte, error) { return json.Marshal(b.amount) }
func (b *PayableBalance) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &b.amount)
}

// DueBalance is satisfied by both balance kinds; it is read-only so it cannot be used to mix them.
type DueBalance interface {
	Money() Money
	Kind() EntityType
	IsDue() bool
	IsAdvance() bool
	IsSettled() bool
}
