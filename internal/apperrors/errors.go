package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrParse indicates that a statement file could not be parsed as XML.
var ErrParse = errors.New("statement parse error")

// ErrMapping indicates that an entry could not be mapped to a payment record.
// Date renormalization failures surface as mapping errors.
var ErrMapping = errors.New("entry mapping error")

// ErrLookup indicates that the exchange-rate lookup failed.
var ErrLookup = errors.New("rate lookup error")

// ErrStoreWrite indicates that the ledger record store rejected a record.
var ErrStoreWrite = errors.New("record store write error")

// ErrRelocation indicates that a processed file could not be moved to its
// outcome folder.
var ErrRelocation = errors.New("file relocation error")
