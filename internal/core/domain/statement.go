package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FileRef identifies one statement file in the file store. It is produced by
// a folder listing and consumed once; after the file is relocated the Folder
// attribute is stale and must not be reused.
type FileRef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Folder string `json:"folder"`
	Size   int64  `json:"size"`
	Type   string `json:"type"` // declared file type, e.g. "XMLDOC"
}

// PartyRef is a matched counterparty in the ledger. The matching capability
// is not functional yet; mapped entries carry a nil PartyRef.
type PartyRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PaymentEntry is the normalized record produced from one statement entry,
// destined for the ledger record store.
type PaymentEntry struct {
	VendorNameRaw         string          `json:"vendorNameRaw"`         // first Nm under the entry, may be empty
	Vendor                *PartyRef       `json:"vendor,omitempty"`      // nil until party matching is functional
	BankAccountDescriptor string          `json:"bankAccountDescriptor"` // creditor account + bank name
	VendorBankAccountID   string          `json:"vendorBankAccountID"`   // statement-level Stmt/Id, shared by all entries in a file
	Address               string          `json:"address"`
	PaymentDate           time.Time       `json:"paymentDate"`
	PaymentType           string          `json:"paymentType"` // not derivable from the feed yet, always empty
	Reference             string          `json:"reference"`
	ReferenceNumber       string          `json:"referenceNumber"`
	TransferAmount        string          `json:"transferAmount"` // kept as extracted text, not parsed
	TransferCurrencyCode  string          `json:"transferCurrencyCode"`
	TransferExchangeRate  decimal.Decimal `json:"transferExchangeRate"` // rate to the target currency as of PaymentDate
	FromCurrencyID        int             `json:"fromCurrencyID"`       // ledger-internal id, -1 when unassigned
	ToCurrencyID          int             `json:"toCurrencyID"`
	LoadReference         string          `json:"loadReference"` // placeholder, always empty
	VendorAccountRef      string          `json:"vendorAccountRef"`
	SubsidiaryID          string          `json:"subsidiaryID"`
}

// FileOutcome reports the processing of one statement file. Outcome is binary
// per file; relocation to the success or failure folder is the durable signal.
type FileOutcome struct {
	File           FileRef
	Success        bool
	EntriesTotal   int
	RecordsWritten int
	WriteFailures  int  // soft failures: logged, counted, loop continued
	Relocated      bool // false when the move itself failed; file stays put
	Err            error
}
