package services_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/atworth/bankfeed/internal/apperrors"
	"github.com/atworth/bankfeed/internal/core/domain"
	"github.com/atworth/bankfeed/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testSuccessFolder = "processed"
	testFailureFolder = "failed"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// statementWithDates builds a statement file with one entry per date.
func statementWithDates(dates ...string) []byte {
	body := "<Document><Stmt><Id>S1</Id>"
	for i, d := range dates {
		body += fmt.Sprintf(`<Ntry>
			<NtryRef>REF%d</NtryRef>
			<Nm>Vendor %d</Nm>
			<Amt Ccy="USD">10.00</Amt>
			<BookgDt><Dt>%s</Dt></BookgDt>
			<NtryDtls><TxDtls><AmtDtls><TxAmt><Amt Ccy="USD">10.00</Amt></TxAmt></AmtDtls></TxDtls></NtryDtls>
		</Ntry>`, i+1, i+1, d)
	}
	body += "</Stmt></Document>"
	return []byte(body)
}

func newTestProcessor(files *MockFileStore, ledger *MockLedgerRecordStore, rates *MockRateSource, matcher *MockPartyMatcher) *services.BatchProcessor {
	mapper := services.NewEntryMapper(rates, matcher, "EUR")
	return services.NewBatchProcessor(files, ledger, mapper, testSuccessFolder, testFailureFolder, discardLogger())
}

func TestBatchProcessor_Process_AllEntriesWritten(t *testing.T) {
	ctx := context.Background()
	ref := domain.FileRef{ID: "input/stmt.xml", Name: "stmt.xml", Folder: "input"}

	files := new(MockFileStore)
	ledger := new(MockLedgerRecordStore)
	rates := new(MockRateSource)
	matcher := new(MockPartyMatcher)

	files.On("LoadBytes", ctx, ref.ID).Return(statementWithDates("2024-03-15", "2024-03-16"), nil).Once()
	matcher.On("Match", ctx, mock.Anything).Return(nil, nil).Twice()
	rates.On("Rate", ctx, "USD", "EUR", mock.Anything).Return(decimal.NewFromInt(1), nil).Twice()
	ledger.On("CreateRecord", ctx, mock.Anything).Return(nil).Twice()
	files.On("Move", ctx, ref.ID, testSuccessFolder).Return(nil).Once()

	outcome := newTestProcessor(files, ledger, rates, matcher).Process(ctx, ref)

	assert.True(t, outcome.Success)
	assert.True(t, outcome.Relocated)
	assert.NoError(t, outcome.Err)
	assert.Equal(t, 2, outcome.EntriesTotal)
	assert.Equal(t, 2, outcome.RecordsWritten)
	assert.Zero(t, outcome.WriteFailures)

	files.AssertExpectations(t)
	ledger.AssertExpectations(t)
}

func TestBatchProcessor_Process_MalformedXMLRoutedToFailure(t *testing.T) {
	ctx := context.Background()
	ref := domain.FileRef{ID: "input/broken.xml", Name: "broken.xml"}

	files := new(MockFileStore)
	ledger := new(MockLedgerRecordStore)

	files.On("LoadBytes", ctx, ref.ID).Return([]byte("<Document><Stmt"), nil).Once()
	files.On("Move", ctx, ref.ID, testFailureFolder).Return(nil).Once()

	outcome := newTestProcessor(files, ledger, new(MockRateSource), new(MockPartyMatcher)).Process(ctx, ref)

	assert.False(t, outcome.Success)
	assert.True(t, outcome.Relocated)
	assert.ErrorIs(t, outcome.Err, apperrors.ErrParse)
	ledger.AssertNotCalled(t, "CreateRecord", mock.Anything, mock.Anything)
	files.AssertExpectations(t)
}

func TestBatchProcessor_Process_UnreadableFileRoutedToFailure(t *testing.T) {
	ctx := context.Background()
	ref := domain.FileRef{ID: "input/gone.xml", Name: "gone.xml"}

	files := new(MockFileStore)
	files.On("LoadBytes", ctx, ref.ID).Return(nil, apperrors.ErrNotFound).Once()
	files.On("Move", ctx, ref.ID, testFailureFolder).Return(nil).Once()

	outcome := newTestProcessor(files, new(MockLedgerRecordStore), new(MockRateSource), new(MockPartyMatcher)).Process(ctx, ref)

	assert.False(t, outcome.Success)
	assert.ErrorIs(t, outcome.Err, apperrors.ErrNotFound)
	files.AssertExpectations(t)
}

func TestBatchProcessor_Process_WriteFailureIsSoft(t *testing.T) {
	ctx := context.Background()
	ref := domain.FileRef{ID: "input/stmt.xml", Name: "stmt.xml"}

	files := new(MockFileStore)
	ledger := new(MockLedgerRecordStore)
	rates := new(MockRateSource)
	matcher := new(MockPartyMatcher)

	files.On("LoadBytes", ctx, ref.ID).Return(statementWithDates("2024-03-15", "2024-03-16"), nil).Once()
	matcher.On("Match", ctx, mock.Anything).Return(nil, nil).Twice()
	rates.On("Rate", ctx, "USD", "EUR", mock.Anything).Return(decimal.NewFromInt(1), nil).Twice()
	ledger.On("CreateRecord", ctx, mock.Anything).Return(apperrors.ErrStoreWrite).Once()
	ledger.On("CreateRecord", ctx, mock.Anything).Return(nil).Once()
	files.On("Move", ctx, ref.ID, testSuccessFolder).Return(nil).Once()

	outcome := newTestProcessor(files, ledger, rates, matcher).Process(ctx, ref)

	// A single failed write does not fail the file.
	assert.True(t, outcome.Success)
	assert.Equal(t, 1, outcome.WriteFailures)
	assert.Equal(t, 1, outcome.RecordsWritten)
	ledger.AssertExpectations(t)
	files.AssertExpectations(t)
}

func TestBatchProcessor_Process_MappingErrorAbortsRemainingEntries(t *testing.T) {
	ctx := context.Background()
	ref := domain.FileRef{ID: "input/stmt.xml", Name: "stmt.xml"}

	files := new(MockFileStore)
	ledger := new(MockLedgerRecordStore)
	rates := new(MockRateSource)
	matcher := new(MockPartyMatcher)

	// Entry two has an impossible calendar date; entry three must never be
	// attempted.
	files.On("LoadBytes", ctx, ref.ID).Return(statementWithDates("2024-03-15", "2024-13-99", "2024-03-17"), nil).Once()
	matcher.On("Match", ctx, mock.Anything).Return(nil, nil)
	rates.On("Rate", ctx, "USD", "EUR", mock.Anything).Return(decimal.NewFromInt(1), nil)
	ledger.On("CreateRecord", ctx, mock.Anything).Return(nil).Once()
	files.On("Move", ctx, ref.ID, testFailureFolder).Return(nil).Once()

	outcome := newTestProcessor(files, ledger, rates, matcher).Process(ctx, ref)

	assert.False(t, outcome.Success)
	assert.ErrorIs(t, outcome.Err, apperrors.ErrMapping)
	assert.Equal(t, 3, outcome.EntriesTotal)
	assert.Equal(t, 1, outcome.RecordsWritten)
	ledger.AssertNumberOfCalls(t, "CreateRecord", 1)
	files.AssertExpectations(t)
}

func TestBatchProcessor_Process_RelocationFailureLeavesFileInPlace(t *testing.T) {
	ctx := context.Background()
	ref := domain.FileRef{ID: "input/stmt.xml", Name: "stmt.xml"}

	files := new(MockFileStore)
	ledger := new(MockLedgerRecordStore)
	rates := new(MockRateSource)
	matcher := new(MockPartyMatcher)

	files.On("LoadBytes", ctx, ref.ID).Return(statementWithDates("2024-03-15"), nil).Once()
	matcher.On("Match", ctx, mock.Anything).Return(nil, nil).Once()
	rates.On("Rate", ctx, "USD", "EUR", mock.Anything).Return(decimal.NewFromInt(1), nil).Once()
	ledger.On("CreateRecord", ctx, mock.Anything).Return(nil).Once()
	files.On("Move", ctx, ref.ID, testSuccessFolder).Return(apperrors.ErrRelocation).Once()

	outcome := newTestProcessor(files, ledger, rates, matcher).Process(ctx, ref)

	require.True(t, outcome.Success)
	assert.False(t, outcome.Relocated)
	files.AssertExpectations(t)
}
