package errors

import "net/http"

var ErrLedgerEntryNotFound = &Exception{
	Message:    "ledger entry not found",
	StatusCode: http.StatusNotFound,
}
