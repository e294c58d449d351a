package normalize

import (
	"time"

	"github.com/Veraticus/midscope/internal/coerce"
	"github.com/Veraticus/midscope/internal/model"
)

// Kind selects the coercion applied to a canonical field.
type Kind int

// Value kinds.
const (
	KindString Kind = iota
	KindNumber
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// Canonical names the normalized transaction fields a schema can fill.
type Canonical string

// Canonical fields.
const (
	MID             Canonical = "MID"
	TransactionDate Canonical = "Transaction_Date"
	Amount          Canonical = "Amount"
	SettledAmount   Canonical = "Settled_Amount"
	CustomerVPA     Canonical = "Customer_VPA"
	CardLast4       Canonical = "Card_Last4"
	PaymentMode     Canonical = "Payment_Mode"
	KYBID           Canonical = "KYB_ID"
	MerchantName    Canonical = "Merchant_name"
	Status          Canonical = "Status"
	Category        Canonical = "Category"
	SubCategory     Canonical = "Sub_Category"
	EntityType      Canonical = "Entity_Type"
	OnboardingDate  Canonical = "Onboarding_date"
	RiskCategory    Canonical = "Risk_category"
)

// FieldSpec maps one canonical field to the cleaned header names that may
// carry it, in priority order.
type FieldSpec struct {
	Field    Canonical
	Kind     Kind
	Synonyms []string
}

// Schema is an ordered list of field specs.
type Schema []FieldSpec

// DefaultSchema returns the header synonyms recognized for merchant exports.
func DefaultSchema() Schema {
	return Schema{
		{MID, KindString, []string{"mid", "m_id", "merchant_id"}},
		{TransactionDate, KindDate, []string{"transaction_date", "txn_date", "date"}},
		{Amount, KindNumber, []string{"amount"}},
		{SettledAmount, KindNumber, []string{"settled_amount", "settledamount"}},
		{CustomerVPA, KindString, []string{"customer_vpa", "vpa", "payer_vpa"}},
		{CardLast4, KindString, []string{"cred/debit_card_last_4_digits", "card_last_4_digits", "last_4_digits"}},
		{PaymentMode, KindString, []string{"payment_mode", "mode"}},
		{KYBID, KindString, []string{"kyb_id", "kyb"}},
		{MerchantName, KindString, []string{"merchant_name", "merchantname"}},
		{Status, KindString, []string{"status"}},
		{Category, KindString, []string{"category"}},
		{SubCategory, KindString, []string{"sub-category", "sub_category", "subcategory"}},
		{EntityType, KindString, []string{"entity_type"}},
		{OnboardingDate, KindDate, []string{"onboarding_date", "onboardingdate"}},
		{RiskCategory, KindString, []string{"risk_category", "riskcategory"}},
	}
}

// Synonyms returns the synonyms configured for a canonical field.
func (s Schema) Synonyms(field Canonical) []string {
	for _, entry := range s {
		if entry.Field == field {
			return entry.Synonyms
		}
	}
	return nil
}

// assign stores a present value in the transaction field named by c.
// Values of the wrong kind for the target field are ignored.
func assign(tx *model.Transaction, c Canonical, kind Kind, v any, loc *time.Location) {
	switch kind {
	case KindString:
		s := coerce.String(v)
		if p := stringField(tx, c); p != nil {
			*p = s
		}
	case KindNumber:
		n, ok := coerce.Number(v)
		if !ok {
			return
		}
		switch c {
		case Amount:
			tx.Amount = &n
		case SettledAmount:
			tx.SettledAmount = &n
		}
	case KindDate:
		d, ok := coerce.Date(v, loc)
		if !ok {
			return
		}
		d = d.In(loc)
		switch c {
		case TransactionDate:
			tx.TransactionDate = &d
		case OnboardingDate:
			tx.OnboardingDate = &d
		}
	}
}

func stringField(tx *model.Transaction, c Canonical) *string {
	switch c {
	case MID:
		return &tx.MID
	case CustomerVPA:
		return &tx.CustomerVPA
	case CardLast4:
		return &tx.CardLast4
	case PaymentMode:
		return &tx.PaymentMode
	case KYBID:
		return &tx.KYBID
	case MerchantName:
		return &tx.MerchantName
	case Status:
		return &tx.Status
	case Category:
		return &tx.Category
	case SubCategory:
		return &tx.SubCategory
	case EntityType:
		return &tx.EntityType
	case RiskCategory:
		return &tx.RiskCategory
	default:
		return nil
	}
}
