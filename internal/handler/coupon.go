package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"

	"github.com/xenking/wheelhouse/internal/domain/coupon"
)

type couponValidityResponse struct {
	Code   string `json:"code"`
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// CheckCoupon reports whether a coupon code is currently usable, for upfront
// gating before quote generation. An unknown code reads as 404; a known but
// unusable one still returns 200 with valid=false and the reason.
func (h *Handler) CheckCoupon(w http.ResponseWriter, r *http.Request) {
	code := coupon.CanonicalCode(r.PathValue("code"))

	cpn, err := h.coupons.FindByCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, coupon.ErrNotFound) {
			writeError(w, http.StatusNotFound, "coupon not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "lookup coupon")
		return
	}

	v := coupon.IsValid(cpn, time.Now())
	writeJSON(w, http.StatusOK, couponValidityResponse{
		Code:   cpn.Code,
		Valid:  v.Valid,
		Reason: v.Reason,
	})
}
