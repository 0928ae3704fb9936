package services

import (
	"context"
	"fmt"

	"github.com/atworth/bankfeed/internal/core/domain"
	"github.com/atworth/bankfeed/internal/core/ports"
	"github.com/atworth/bankfeed/internal/utils/currencyid"
	"github.com/atworth/bankfeed/internal/utils/dateutils"
	"github.com/atworth/bankfeed/internal/xmlutils"
)

var (
	pathStmtID = xmlutils.MustCompile("//Stmt/Id")

	// The transfer currency is sourced from the first transaction amount node
	// in the whole document, not the entry being mapped. Every entry in a
	// multi-entry file therefore shares it; fixing this needs entry-scoped
	// feeds from the source banks first.
	pathTxCurrency = xmlutils.MustCompile("//Stmt/Ntry/NtryDtls/TxDtls/AmtDtls/TxAmt/Amt/@Ccy")
)

// EntryMapper builds one normalized PaymentEntry from one statement entry
// node plus the document it lives in. Pure transform apart from the exchange
// rate lookup.
type EntryMapper struct {
	rates              ports.RateSource
	matcher            ports.PartyMatcher
	targetCurrencyCode string
}

// NewEntryMapper creates an EntryMapper. targetCurrencyCode is the ledger
// base currency every exchange rate is computed against.
func NewEntryMapper(rates ports.RateSource, matcher ports.PartyMatcher, targetCurrencyCode string) *EntryMapper {
	return &EntryMapper{
		rates:              rates,
		matcher:            matcher,
		targetCurrencyCode: targetCurrencyCode,
	}
}

// Map extracts all fields for one entry. Optional sub-fields tolerate
// absence; a bad payment date or a failed rate lookup is fatal for the file
// being processed.
func (m *EntryMapper) Map(ctx context.Context, entry *xmlutils.Node, doc *xmlutils.Document) (*domain.PaymentEntry, error) {
	// A statement entry carries two Nm occurrences: the payer first, then the
	// bank. Positional tie-break, second occurrence is the bank name.
	names := xmlutils.Descendants(entry, "Nm")
	vendorName := names.TextAt(0)

	vendor, err := m.matcher.Match(ctx, vendorName)
	if err != nil {
		return nil, fmt.Errorf("matching vendor %q: %w", vendorName, err)
	}

	bankAccountDescriptor := xmlutils.Descendants(entry, "CdtrAcct").TextAt(0) + " " + names.TextAt(1)

	rawDate := xmlutils.Descendants(entry, "Dt").TextAt(0)
	paymentDate, err := dateutils.Normalize(rawDate)
	if err != nil {
		return nil, err
	}

	transferCurrency := doc.FirstText(pathTxCurrency)
	rate, err := m.rates.Rate(ctx, transferCurrency, m.targetCurrencyCode, paymentDate)
	if err != nil {
		return nil, fmt.Errorf("exchange rate %s->%s: %w", transferCurrency, m.targetCurrencyCode, err)
	}

	return &domain.PaymentEntry{
		VendorNameRaw:         vendorName,
		Vendor:                vendor,
		BankAccountDescriptor: bankAccountDescriptor,
		VendorBankAccountID:   doc.FirstText(pathStmtID),
		Address:               xmlutils.Descendants(entry, "PstlAdr").TextAt(0),
		PaymentDate:           paymentDate,
		Reference:             xmlutils.Descendants(entry, "NtryRef").TextAt(0),
		ReferenceNumber:       xmlutils.Descendants(entry, "AcctSvcrRef").TextAt(0),
		TransferAmount:        xmlutils.Descendants(entry, "Amt").TextAt(0),
		TransferCurrencyCode:  transferCurrency,
		TransferExchangeRate:  rate,
		FromCurrencyID:        currencyid.Resolve(transferCurrency),
		ToCurrencyID:          currencyid.Resolve(m.targetCurrencyCode),
		// PaymentType, LoadReference, VendorAccountRef and SubsidiaryID are
		// not derivable from the feed yet and stay empty.
	}, nil
}
