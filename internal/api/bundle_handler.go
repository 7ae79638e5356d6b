// File path: internal/api/bundle_handler.go
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/Techindraa01/Brief2Bill-sub002/internal/common"
	"github.com/Techindraa01/Brief2Bill-sub002/internal/document"
	"github.com/Techindraa01/Brief2Bill-sub002/internal/upi"
)

const maxBundleBody = 1 << 20

type validateRequest struct {
	Bundle json.RawMessage `json:"bundle"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	raw, ok := readBundlePayload(w, r)
	if !ok {
		return
	}
	var candidate any
	if err := json.Unmarshal(raw, &candidate); err != nil {
		writeError(w, r, http.StatusBadRequest, codeValidationError,
			"bundle is not parseable JSON", map[string]any{"parse_error": true})
		return
	}
	result := document.Validate(candidate)
	writeJSON(w, http.StatusOK, map[string]any{"ok": result.OK, "errors": result.Errors})
}

func (s *Server) handleRepair(w http.ResponseWriter, r *http.Request) {
	raw, ok := readBundlePayload(w, r)
	if !ok {
		return
	}
	bundle := document.Repair(raw, "", time.Now())
	common.Logger().Info("api: bundle repaired", "request_id", requestIDFrom(r.Context()),
		"doc_type", bundle.DocType)
	writeJSON(w, http.StatusOK, bundle)
}

type computeTotalsRequest struct {
	Draft json.RawMessage `json:"draft"`
}

func (s *Server) handleComputeTotals(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBundleBody))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, codeValidationError, "unable to read request body", nil)
		return
	}
	var req computeTotalsRequest
	if err := json.Unmarshal(body, &req); err != nil || len(req.Draft) == 0 {
		writeError(w, r, http.StatusBadRequest, codeValidationError, "draft is required", nil)
		return
	}
	var bundle document.DocumentBundle
	if err := json.Unmarshal(req.Draft, &bundle); err != nil {
		writeError(w, r, http.StatusBadRequest, codeValidationError, "draft must be a document bundle", nil)
		return
	}
	bundle.Totals = document.ComputeTotals(bundle.Items, bundle.Totals.Shipping, true)
	writeJSON(w, http.StatusOK, map[string]any{"draft": bundle})
}

type upiDeeplinkRequest struct {
	UPIID     string  `json:"upi_id"`
	PayeeName string  `json:"payee_name"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Note      string  `json:"note"`
	TxnRef    string  `json:"txn_ref"`
}

func (s *Server) handleUPIDeeplink(w http.ResponseWriter, r *http.Request) {
	var req upiDeeplinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, codeValidationError, "request body must be JSON", nil)
		return
	}
	link, err := upi.Deeplink(upi.Params{
		VPA:       req.UPIID,
		PayeeName: req.PayeeName,
		Amount:    req.Amount,
		Currency:  req.Currency,
		Note:      req.Note,
		TxnRef:    req.TxnRef,
	})
	if err != nil {
		if errors.Is(err, upi.ErrInvalidVPA) {
			writeError(w, r, statusForCode(codeInvalidVPA), codeInvalidVPA, err.Error(), nil)
			return
		}
		writeError(w, r, http.StatusBadRequest, codeValidationError, err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deeplink": link, "qr_payload": link})
}

// readBundlePayload decodes the {bundle: ...} wrapper, tolerating a bare
// bundle object at the top level.
func readBundlePayload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBundleBody))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, codeValidationError, "unable to read request body", nil)
		return nil, false
	}
	var wrapper validateRequest
	if err := json.Unmarshal(body, &wrapper); err == nil && len(wrapper.Bundle) > 0 {
		return wrapper.Bundle, true
	}
	if len(body) == 0 {
		writeError(w, r, http.StatusBadRequest, codeValidationError, "bundle is required", nil)
		return nil, false
	}
	return body, true
}
