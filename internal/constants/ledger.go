package constants

type LedgerEntryType string

const (
	// LedgerChargeCredit is posted for shared-scope work paid by the building.
	LedgerChargeCredit LedgerEntryType = "charge_credit"
	// LedgerApartmentPayment is posted for private-unit work paid by the proposer.
	LedgerApartmentPayment LedgerEntryType = "apartment_payment"
)
