package dto

import (
	"time"

	"github.com/atworth/bankfeed/internal/core/domain"
	"github.com/atworth/bankfeed/internal/jobs"
	"github.com/atworth/bankfeed/internal/utils/dateutils"
)

// JobResponse reports a submitted ingestion job's state.
type JobResponse struct {
	JobID          string     `json:"jobID"`
	Type           string     `json:"type"`
	FolderID       string     `json:"folderID"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	StartedAt      *time.Time `json:"startedAt,omitempty"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	Error          string     `json:"error,omitempty"`
	FilesProcessed int        `json:"filesProcessed"`
	FilesFailed    int        `json:"filesFailed"`
}

// ToJobResponse converts a jobs.IngestJob to a JobResponse DTO.
func ToJobResponse(job *jobs.IngestJob) JobResponse {
	return JobResponse{
		JobID:          job.JobID,
		Type:           string(job.Type),
		FolderID:       job.FolderID,
		Status:         string(job.Status),
		CreatedAt:      job.CreatedAt,
		StartedAt:      job.StartedAt,
		CompletedAt:    job.CompletedAt,
		Error:          job.Error,
		FilesProcessed: job.FilesProcessed,
		FilesFailed:    job.FilesFailed,
	}
}

// PaymentRecordResponse is the operator-facing view of one created record.
type PaymentRecordResponse struct {
	VendorNameRaw         string `json:"vendorNameRaw"`
	BankAccountDescriptor string `json:"bankAccountDescriptor"`
	VendorBankAccountID   string `json:"vendorBankAccountID"`
	PaymentDate           string `json:"paymentDate"`
	Reference             string `json:"reference"`
	ReferenceNumber       string `json:"referenceNumber"`
	TransferAmount        string `json:"transferAmount"`
	TransferCurrencyCode  string `json:"transferCurrencyCode"`
	TransferExchangeRate  string `json:"transferExchangeRate"`
	FromCurrencyID        int    `json:"fromCurrencyID"`
	ToCurrencyID          int    `json:"toCurrencyID"`
}

// ToPaymentRecordResponse converts a domain.PaymentEntry to its DTO.
func ToPaymentRecordResponse(e domain.PaymentEntry) PaymentRecordResponse {
	return PaymentRecordResponse{
		VendorNameRaw:         e.VendorNameRaw,
		BankAccountDescriptor: e.BankAccountDescriptor,
		VendorBankAccountID:   e.VendorBankAccountID,
		PaymentDate:           dateutils.RecordDate(e.PaymentDate),
		Reference:             e.Reference,
		ReferenceNumber:       e.ReferenceNumber,
		TransferAmount:        e.TransferAmount,
		TransferCurrencyCode:  e.TransferCurrencyCode,
		TransferExchangeRate:  e.TransferExchangeRate.String(),
		FromCurrencyID:        e.FromCurrencyID,
		ToCurrencyID:          e.ToCurrencyID,
	}
}

// ToListPaymentRecordResponse converts a slice of payment entries.
func ToListPaymentRecordResponse(entries []domain.PaymentEntry) []PaymentRecordResponse {
	responses := make([]PaymentRecordResponse, len(entries))
	for i, e := range entries {
		responses[i] = ToPaymentRecordResponse(e)
	}
	return responses
}
