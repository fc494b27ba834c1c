package api

import (
	"net/http"
	"strconv"
	"time"

	"gymovoo/workout-engine/internal/domain"
	"gymovoo/workout-engine/internal/service"
	"gymovoo/workout-engine/internal/slots"

	"github.com/gin-gonic/gin"
)

// PlanHandler holds the plan service dependency.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- DTOs for API ---

// PreviewResponse is an unsaved generation. Smart is only filled for premium
// users and when it could be built; SmartLocked tells free clients their
// subscription hides it.
type PreviewResponse struct {
	Profile     domain.UserProfile         `json:"profile"`
	Basic       domain.WorkoutPlan         `json:"basic"`
	Smart       *domain.WorkoutPlan        `json:"smart,omitempty"`
	SmartLocked bool                       `json:"smartLocked"`
	Warnings    []domain.ValidationWarning `json:"warnings,omitempty"`
	Adjustments []domain.SafetyAdjustment  `json:"adjustments,omitempty"`
}

// StoredPlanResponse is the DTO for one occupied slot.
type StoredPlanResponse struct {
	ID                string                     `json:"id"`
	Slot              int                        `json:"slot"`
	SourceAnswersHash string                     `json:"sourceAnswersHash"`
	Basic             domain.WorkoutPlan         `json:"basic"`
	Smart             *domain.WorkoutPlan        `json:"smart,omitempty"`
	SmartLocked       bool                       `json:"smartLocked"`
	Warnings          []domain.ValidationWarning `json:"warnings,omitempty"`
	CreatedAt         time.Time                  `json:"createdAt"`
	UpdatedAt         time.Time                  `json:"updatedAt"`
}

type GenerateResponse struct {
	Outcome slots.Outcome      `json:"outcome"`
	Plan    StoredPlanResponse `json:"plan"`
}

type PlanListResponse struct {
	MaxSlots int                   `json:"maxSlots"`
	Slots    []service.SlotSummary `json:"slots"`
}

// MapStoredPlanToResponse converts a stored plan, hiding the smart tier from
// users without a premium subscription.
func MapStoredPlanToResponse(p *domain.StoredPlan, sub domain.Subscription) StoredPlanResponse {
	resp := StoredPlanResponse{
		ID:                p.ID.Hex(),
		Slot:              p.Slot,
		SourceAnswersHash: p.SourceAnswersHash,
		Basic:             p.Basic,
		SmartLocked:       !sub.CanUseSmartPlans(),
		Warnings:          p.Warnings,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	if sub.CanUseSmartPlans() && p.HasSmart() {
		smart := p.Smart
		resp.Smart = &smart
	}
	return resp
}

// --- Handler Methods ---

// PreviewPlans godoc
// @Summary Generate plans without storing them
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} PreviewResponse
// @Failure 400 {object} gin.H "Invalid questionnaire answers"
// @Failure 422 {object} gin.H "No plan possible for this equipment"
// @Router /plans/preview [post]
func (h *PlanHandler) PreviewPlans(c *gin.Context) {
	sub, _ := getSubscriptionFromContext(c)
	var answers map[string]any
	if err := c.ShouldBindJSON(&answers); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid questionnaire answers: "+err.Error())
		return
	}

	preview, err := h.planService.Preview(c.Request.Context(), answers)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	resp := PreviewResponse{
		Profile:     preview.Profile,
		Basic:       preview.Plans.Basic,
		SmartLocked: !sub.CanUseSmartPlans(),
		Warnings:    preview.Plans.Warnings,
		Adjustments: preview.Plans.Adjustments,
	}
	if sub.CanUseSmartPlans() && preview.Plans.HasSmart() {
		resp.Smart = &preview.Plans.Smart
	}
	c.JSON(http.StatusOK, resp)
}

// GeneratePlans godoc
// @Summary Generate plans and store them in a slot
// @Description When all slots are occupied the request fails with 409 unless replaceSlot names the slot to overwrite.
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param replaceSlot query int false "Slot to overwrite when all slots are occupied"
// @Success 201 {object} GenerateResponse "Plan stored"
// @Success 200 {object} GenerateResponse "Same answers already stored"
// @Failure 409 {object} gin.H "All slots occupied"
// @Router /plans [post]
func (h *PlanHandler) GeneratePlans(c *gin.Context) {
	userID, sub, ok := h.identity(c)
	if !ok {
		return
	}
	replaceSlot, ok := optionalSlotQuery(c, "replaceSlot")
	if !ok {
		return
	}
	var answers map[string]any
	if err := c.ShouldBindJSON(&answers); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid questionnaire answers: "+err.Error())
		return
	}

	result, err := h.planService.Generate(c.Request.Context(), userID, answers, replaceSlot)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respondGenerated(c, result, sub)
}

// RegeneratePlans godoc
// @Summary Regenerate plans from the last stored questionnaire
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param replaceSlot query int false "Slot to overwrite when all slots are occupied"
// @Router /plans/regenerate [post]
func (h *PlanHandler) RegeneratePlans(c *gin.Context) {
	userID, sub, ok := h.identity(c)
	if !ok {
		return
	}
	replaceSlot, ok := optionalSlotQuery(c, "replaceSlot")
	if !ok {
		return
	}

	result, err := h.planService.Regenerate(c.Request.Context(), userID, replaceSlot)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respondGenerated(c, result, sub)
}

// ListPlans godoc
// @Summary List plan slots of the authenticated user
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} PlanListResponse
// @Router /plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	userID, _, ok := h.identity(c)
	if !ok {
		return
	}
	list, err := h.planService.ListPlans(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, PlanListResponse{MaxSlots: domain.MaxStoredPlans, Slots: list})
}

// GetBasicPlan returns the basic tier stored in a slot.
// @Router /plans/{slot} [get]
func (h *PlanHandler) GetBasicPlan(c *gin.Context) {
	h.getTier(c, domain.TierBasic)
}

// GetSmartPlan returns the smart tier stored in a slot. Routed behind RequireSubscription.
// @Router /plans/{slot}/smart [get]
func (h *PlanHandler) GetSmartPlan(c *gin.Context) {
	h.getTier(c, domain.TierSmart)
}

func (h *PlanHandler) getTier(c *gin.Context, tier domain.Tier) {
	userID, _, ok := h.identity(c)
	if !ok {
		return
	}
	slot, ok := slotParam(c)
	if !ok {
		return
	}
	stored, err := h.planService.GetPlan(c.Request.Context(), userID, slot)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	if tier == domain.TierSmart {
		if !stored.HasSmart() {
			abortWithServiceError(c, service.ErrSmartUnavailable)
			return
		}
		c.JSON(http.StatusOK, stored.Smart)
		return
	}
	c.JSON(http.StatusOK, stored.Basic)
}

// DeletePlan godoc
// @Summary Empty a plan slot
// @Tags Plans
// @Security BearerAuth
// @Success 204 "Slot emptied"
// @Failure 404 {object} gin.H "Slot already empty"
// @Router /plans/{slot} [delete]
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	userID, _, ok := h.identity(c)
	if !ok {
		return
	}
	slot, ok := slotParam(c)
	if !ok {
		return
	}
	if err := h.planService.DeletePlan(c.Request.Context(), userID, slot); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ExportPlan godoc
// @Summary Export one tier of a stored plan
// @Description Uploads the plan as JSON to object storage and returns a temporary download URL.
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param tier query string false "basic (default) or smart"
// @Success 201 {object} domain.PlanExport
// @Router /plans/{slot}/export [post]
func (h *PlanHandler) ExportPlan(c *gin.Context) {
	userID, sub, ok := h.identity(c)
	if !ok {
		return
	}
	slot, ok := slotParam(c)
	if !ok {
		return
	}
	tier := domain.Tier(c.DefaultQuery("tier", string(domain.TierBasic)))

	export, err := h.planService.ExportPlan(c.Request.Context(), userID, slot, tier, sub)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, export)
}

// GetProfile returns the questionnaire answers the last plans were built from.
// @Router /profile [get]
func (h *PlanHandler) GetProfile(c *gin.Context) {
	userID, _, ok := h.identity(c)
	if !ok {
		return
	}
	profile, err := h.planService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *PlanHandler) identity(c *gin.Context) (string, domain.Subscription, bool) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return "", "", false
	}
	sub, err := getSubscriptionFromContext(c)
	if err != nil {
		sub = domain.SubscriptionFree
	}
	return userID, sub, true
}

func respondGenerated(c *gin.Context, result *service.GenerateResult, sub domain.Subscription) {
	status := http.StatusCreated
	if result.Outcome == slots.OutcomeUnchanged {
		status = http.StatusOK
	}
	c.JSON(status, GenerateResponse{
		Outcome: result.Outcome,
		Plan:    MapStoredPlanToResponse(result.Plan, sub),
	})
}

func slotParam(c *gin.Context) (int, bool) {
	slot, err := strconv.Atoi(c.Param("slot"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid slot: must be a number.")
		return 0, false
	}
	return slot, true
}

func optionalSlotQuery(c *gin.Context, name string) (*int, bool) {
	raw, present := c.GetQuery(name)
	if !present || raw == "" {
		return nil, true
	}
	slot, err := strconv.Atoi(raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid "+name+": must be a number.")
		return nil, false
	}
	return &slot, true
}
