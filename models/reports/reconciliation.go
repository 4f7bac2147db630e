package reports

import (
	"github.com/mmdatafocus/shop_ledger/models"
)

type SettlementSource string

const (
	SettlementFromBills    SettlementSource = "bills"
	SettlementFromPayments SettlementSource = "payments"
)

// MethodBreakdown splits one side's settled cash by payment method.
// Unknown holds bill-recorded payments with no method so the buckets always sum to the side total.
type MethodBreakdown struct {
	Cash    models.Money `json:"cash"`
	Card    models.Money `json:"card"`
	Online  models.Money `json:"online"`
	Unknown models.Money `json:"unknown"`
}

func (b *MethodBreakdown) add(method models.PaymentMethod, amount models.Money) {
	switch method {
	case models.PaymentMethodCash:
		b.Cash = b.Cash.Add(amount)
	case models.PaymentMethodCard:
		b.Card = b.Card.Add(amount)
	case models.PaymentMethodOnline:
		b.Online = b.Online.Add(amount)
	default:
		b.Unknown = b.Unknown.Add(amount)
	}
}

func (b MethodBreakdown) Total() models.Money {
	return b.Cash.Add(b.Card).Add(b.Online).Add(b.Unknown)
}

// Settlement is the best estimate of cash collected (sales) or paid (purchases) for one side.
type Settlement struct {
	Side         models.BillType  `json:"side"`
	FromBills    models.Money     `json:"fromBills"`
	FromPayments models.Money     `json:"fromPayments"`
	Total        models.Money     `json:"total"`
	Source       SettlementSource `json:"source"`
	ByMethod     MethodBreakdown  `json:"byMethod"`
}

// SettlementReconciliationStrategy decides how inline bill payments and standalone payment
// records combine into one settled figure. Implementations must only look at records
// belonging to side.
type SettlementReconciliationStrategy interface {
	Reconcile(side models.BillType, bills []models.Bill, payments []models.Payment) Settlement
}

// MaxOfSourcesStrategy takes the larger of Σ bill.paidAmount and Σ payment.amount.
//
// Cash can be captured on the bill or as a separate payment, and nothing links the two,
// so summing them double counts and picking one source undercounts shops that use the other.
// The method breakdown is taken from whichever source won the side-level comparison.
// Ties go to the bills source.
//
// Known approximation: a bill paid partly inline and topped up by a separate payment is
// indistinguishable from the same cash recorded twice, and is under-counted. Fixing that
// needs payments to reference their bill, not a different heuristic.
type MaxOfSourcesStrategy struct{}

func (MaxOfSourcesStrategy) Reconcile(side models.BillType, bills []models.Bill, payments []models.Payment) Settlement {
	entity := side.SettlementEntityType()

	var fromBills, fromPayments models.Money
	var billMethods, paymentMethods MethodBreakdown
	for _, b := range bills {
		if b.BillType != side {
			continue
		}
		fromBills = fromBills.Add(b.PaidAmount)
		billMethods.add(b.PaymentMethod, b.PaidAmount)
	}
	for _, p := range payments {
		if p.EntityType != entity {
			continue
		}
		fromPayments = fromPayments.Add(p.Amount)
		paymentMethods.add(p.PaymentMethod, p.Amount)
	}

	s := Settlement{
		Side:         side,
		FromBills:    fromBills,
		FromPayments: fromPayments,
		Total:        models.MaxMoney(fromBills, fromPayments),
		Source:       SettlementFromBills,
		ByMethod:     billMethods,
	}
	if fromPayments.Cmp(fromBills) > 0 {
		s.Source = SettlementFromPayments
		s.ByMethod = paymentMethods
	}
	return s
}
