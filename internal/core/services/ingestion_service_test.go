package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/atworth/bankfeed/internal/core/domain"
	"github.com/atworth/bankfeed/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestIngestionService_Run_ProcessesFilesInListedOrder(t *testing.T) {
	ctx := context.Background()

	files := new(MockFileStore)
	ledger := new(MockLedgerRecordStore)
	rates := new(MockRateSource)
	matcher := new(MockPartyMatcher)

	refs := []domain.FileRef{
		{ID: "input/a.xml", Name: "a.xml", Folder: "input"},
		{ID: "input/b.xml", Name: "b.xml", Folder: "input"},
		{ID: "input/c.xml", Name: "c.xml", Folder: "input"},
	}
	files.On("List", ctx, "input").Return(refs, nil).Once()

	var loaded []string
	for _, ref := range refs {
		id := ref.ID
		files.On("LoadBytes", ctx, id).Run(func(args mock.Arguments) {
			loaded = append(loaded, id)
		}).Return(statementWithDates("2024-03-15"), nil).Once()
		files.On("Move", ctx, id, testSuccessFolder).Return(nil).Once()
	}
	matcher.On("Match", ctx, mock.Anything).Return(nil, nil)
	rates.On("Rate", ctx, "USD", "EUR", mock.Anything).Return(decimal.NewFromInt(1), nil)
	ledger.On("CreateRecord", ctx, mock.Anything).Return(nil)

	svc := services.NewIngestionService(files, newTestProcessor(files, ledger, rates, matcher), discardLogger())
	outcomes, err := svc.Run(ctx, "input")

	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	assert.Equal(t, []string{"input/a.xml", "input/b.xml", "input/c.xml"}, loaded)
	for _, outcome := range outcomes {
		assert.True(t, outcome.Success)
	}
	files.AssertExpectations(t)
}

func TestIngestionService_Run_OneBadFileDoesNotStopTheBatch(t *testing.T) {
	ctx := context.Background()

	files := new(MockFileStore)
	ledger := new(MockLedgerRecordStore)
	rates := new(MockRateSource)
	matcher := new(MockPartyMatcher)

	refs := []domain.FileRef{
		{ID: "input/a.xml", Name: "a.xml"},
		{ID: "input/b.xml", Name: "b.xml"},
	}
	files.On("List", ctx, "input").Return(refs, nil).Once()
	files.On("LoadBytes", ctx, "input/a.xml").Return([]byte("not xml at all <"), nil).Once()
	files.On("Move", ctx, "input/a.xml", testFailureFolder).Return(nil).Once()
	files.On("LoadBytes", ctx, "input/b.xml").Return(statementWithDates("2024-03-15"), nil).Once()
	files.On("Move", ctx, "input/b.xml", testSuccessFolder).Return(nil).Once()

	matcher.On("Match", ctx, mock.Anything).Return(nil, nil)
	rates.On("Rate", ctx, "USD", "EUR", mock.Anything).Return(decimal.NewFromInt(1), nil)
	ledger.On("CreateRecord", ctx, mock.Anything).Return(nil)

	svc := services.NewIngestionService(files, newTestProcessor(files, ledger, rates, matcher), discardLogger())
	outcomes, err := svc.Run(ctx, "input")

	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.False(t, outcomes[0].Success)
	assert.True(t, outcomes[1].Success)
	files.AssertExpectations(t)
}

func TestIngestionService_Run_ListFailureFailsTheRun(t *testing.T) {
	ctx := context.Background()

	files := new(MockFileStore)
	files.On("List", ctx, "input").Return(nil, fmt.Errorf("store unavailable")).Once()

	svc := services.NewIngestionService(files, newTestProcessor(files, new(MockLedgerRecordStore), new(MockRateSource), new(MockPartyMatcher)), discardLogger())
	outcomes, err := svc.Run(ctx, "input")

	require.Error(t, err)
	assert.Nil(t, outcomes)
	files.AssertExpectations(t)
}
