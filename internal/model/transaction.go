// Package model defines the normalized transaction and the raw input records
// it is built from.
package model

import "time"

// Payment modes recognized by the dashboard. Other values pass through unchanged.
const (
	ModeCreditCard = "CREDIT_CARD"
	ModeDebitCard  = "DEBIT_CARD"
	ModeUPI        = "UPI"
)

// Transaction is a normalized merchant transaction.
// MID is always non-empty; optional numeric and date fields are nil when absent.
type Transaction struct {
	TransactionDate *time.Time
	OnboardingDate  *time.Time
	Amount          *float64
	SettledAmount   *float64
	Source          Source

	MID          string
	CustomerVPA  string
	CardLast4    string
	PaymentMode  string
	KYBID        string
	MerchantName string
	Status       string
	Category     string
	SubCategory  string
	EntityType   string
	RiskCategory string
}

// HasDate reports whether the transaction carries a transaction date.
func (t *Transaction) HasDate() bool {
	return t.TransactionDate != nil
}

// AmountOr returns the amount, or def when it is absent.
func (t *Transaction) AmountOr(def float64) float64 {
	if t.Amount == nil {
		return def
	}
	return *t.Amount
}

// SettledOr returns the settled amount, or def when it is absent.
func (t *Transaction) SettledOr(def float64) float64 {
	if t.SettledAmount == nil {
		return def
	}
	return *t.SettledAmount
}

// Value returns the string value of a text field.
func (t *Transaction) Value(f Field) string {
	switch f {
	case FieldMID:
		return t.MID
	case FieldCustomerVPA:
		return t.CustomerVPA
	case FieldCardLast4:
		return t.CardLast4
	case FieldPaymentMode:
		return t.PaymentMode
	case FieldKYBID:
		return t.KYBID
	case FieldMerchantName:
		return t.MerchantName
	case FieldStatus:
		return t.Status
	case FieldCategory:
		return t.Category
	case FieldSubCategory:
		return t.SubCategory
	case FieldEntityType:
		return t.EntityType
	case FieldRiskCategory:
		return t.RiskCategory
	default:
		return ""
	}
}

// Field selects one of the text fields of a Transaction.
type Field int

// Text fields usable by breakdowns and frequency tables.
const (
	FieldMID Field = iota
	FieldCustomerVPA
	FieldCardLast4
	FieldPaymentMode
	FieldKYBID
	FieldMerchantName
	FieldStatus
	FieldCategory
	FieldSubCategory
	FieldEntityType
	FieldRiskCategory
)

var fieldNames = map[Field]string{
	FieldMID:          "MID",
	FieldCustomerVPA:  "Customer_VPA",
	FieldCardLast4:    "Card_Last4",
	FieldPaymentMode:  "Payment_Mode",
	FieldKYBID:        "KYB_ID",
	FieldMerchantName: "Merchant_name",
	FieldStatus:       "Status",
	FieldCategory:     "Category",
	FieldSubCategory:  "Sub_Category",
	FieldEntityType:   "Entity_Type",
	FieldRiskCategory: "Risk_category",
}

// String returns the display column name of the field.
func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return "Unknown"
}
