package handler

import "net/http"

// handleGeneratePlan handles POST /v1/plans.
//
// A failed request answers 200 with outcome "failed" and the previous
// output unless the service is configured to surface errors.
func (h *Handler) handleGeneratePlan(w http.ResponseWriter, r *http.Request) {
	var req GeneratePlanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	res := h.plans.Generate(r.Context(), req.Goal)
	if !res.OK() && h.plans.SurfaceErrors() {
		h.handleServiceError(w, r, res.Err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, PlanResponse{
		RequestID: res.RequestID,
		Outcome:   string(res.Outcome),
		ErrorCode: res.ErrorCode(),
		Output:    h.plans.Output(),
		ElapsedMS: res.Elapsed.Milliseconds(),
	})
}

// handleCurrentPlan handles GET /v1/plans/current.
func (h *Handler) handleCurrentPlan(w http.ResponseWriter, r *http.Request) {
	resp := PlanResponse{Output: h.plans.Output()}
	if last := h.plans.Last(); last != nil {
		resp.RequestID = last.RequestID
		resp.Outcome = string(last.Outcome)
		resp.ErrorCode = last.ErrorCode()
	}
	h.writeJSON(w, r, http.StatusOK, resp)
}
