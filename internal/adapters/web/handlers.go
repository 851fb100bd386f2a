package web

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"icp-hunter/internal/domain"
	"icp-hunter/internal/usecases"
	"icp-hunter/pkg/log"
)

// checkoutTimeout bounds the mock gateway round trip.
const checkoutTimeout = 30 * time.Second

// Handlers contains the HTTP handlers of the API.
type Handlers struct {
	hunts    *usecases.HuntService
	trophies *usecases.TrophyRoomUseCase
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(hunts *usecases.HuntService, trophies *usecases.TrophyRoomUseCase) *Handlers {
	return &Handlers{hunts: hunts, trophies: trophies}
}

type errorResponse struct {
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

type keysRequest struct {
	Keys []string `json:"keys"`
}

// Tiers lists the pricing tiers.
func (h *Handlers) Tiers(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"tiers":        domain.Tiers(),
		"upgradePrice": domain.UpgradePrice(),
	})
}

// Dashboard lists finished hunts and the hunter's totals.
func (h *Handlers) Dashboard(c *fiber.Ctx) error {
	return c.JSON(h.hunts.History(c.UserContext()))
}

// StartHunt validates the target form.
func (h *Handlers) StartHunt(c *fiber.Ctx) error {
	var req usecases.StartRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	res, err := h.hunts.StartHunt(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	status := fiber.StatusOK
	if res.Hunt != nil {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(res)
}

// Checkout processes the mock payment and starts the hunt.
func (h *Handlers) Checkout(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Keyword  string `json:"keyword"`
		Location string `json:"location"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	params := ParseCheckoutParams(c.Queries())

	ctx, cancel := context.WithTimeout(c.UserContext(), checkoutTimeout)
	defer cancel()

	res, err := h.hunts.Checkout(ctx, usecases.CheckoutRequest{
		Handle:        c.Params("handle"),
		Tier:          params.Tier,
		Email:         body.Email,
		Keyword:       body.Keyword,
		Location:      body.Location,
		Upgrade:       params.Upgrade,
		OriginalPrice: params.OriginalPrice,
		UpgradePrice:  params.UpgradePrice,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// Progress returns the processing screen state.
func (h *Handlers) Progress(c *fiber.Ctx) error {
	view, err := h.hunts.Progress(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// CancelHunt tears a hunt down.
func (h *Handlers) CancelHunt(c *fiber.Ctx) error {
	if err := h.hunts.Cancel(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Results runs the result pipeline for the query criteria.
func (h *Handlers) Results(c *fiber.Ctx) error {
	criteria, preset := ParseCriteria(c.Queries())
	view, err := h.hunts.Results(c.UserContext(), c.Params("id"), criteria, preset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// ToggleProfile flips one profile's selection.
func (h *Handlers) ToggleProfile(c *fiber.Ctx) error {
	view, err := h.hunts.ToggleProfile(c.UserContext(), c.Params("id"), c.Params("profileID"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// TogglePage selects or deselects the current page.
func (h *Handlers) TogglePage(c *fiber.Ctx) error {
	view, err := h.hunts.TogglePage(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// SelectHighScorers selects the current page's trophy targets.
func (h *Handlers) SelectHighScorers(c *fiber.Ctx) error {
	view, err := h.hunts.SelectHighScorers(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// Bag saves the selection to the Trophy Room.
func (h *Handlers) Bag(c *fiber.Ctx) error {
	res, err := h.hunts.Bag(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// Export stores the CSV and returns its download link.
func (h *Handlers) Export(c *fiber.Ctx) error {
	file, err := h.hunts.Export(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"export": file,
		"url":    "/api/exports/" + file.Token,
	})
}

// Download serves a stored CSV as an attachment.
func (h *Handlers) Download(c *fiber.Ctx) error {
	file, data, err := h.hunts.Download(c.UserContext(), c.Params("token"))
	if err != nil {
		return respondError(c, err)
	}
	c.Attachment(file.FileName)
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(data)
}

// TrophyRoom lists saved profiles.
func (h *Handlers) TrophyRoom(c *fiber.Ctx) error {
	return c.JSON(h.trophies.Browse(c.UserContext(), ParseTrophyQuery(c.Queries())))
}

// RemoveTrophies deletes saved profiles by key.
func (h *Handlers) RemoveTrophies(c *fiber.Ctx) error {
	var req keysRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	removed := h.trophies.Remove(c.UserContext(), req.Keys)
	return c.JSON(fiber.Map{"removed": removed})
}

// CreateList adds a named list.
func (h *Handlers) CreateList(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	list, err := h.trophies.CreateList(c.UserContext(), req.Name, req.Description)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(list)
}

// AddToList merges saved profiles into a list.
func (h *Handlers) AddToList(c *fiber.Ctx) error {
	var req keysRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	list, err := h.trophies.AddToList(c.UserContext(), c.Params("id"), req.Keys)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// DeleteList removes a list.
func (h *Handlers) DeleteList(c *fiber.Ctx) error {
	if err := h.trophies.DeleteList(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetActiveList changes the Trophy Room filter.
func (h *Handlers) SetActiveList(c *fiber.Ctx) error {
	var req struct {
		ListID string `json:"listId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	active, err := h.trophies.SetActiveList(c.UserContext(), req.ListID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(active)
}

// ErrorHandler renders errors that escape the handlers, such as unknown
// routes, in the API's JSON shape.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(errorResponse{Error: fe.Message})
	}
	log.GlobalErrorCtx(c.UserContext(), "unhandled error", "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: friendlyError(err)})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: msg})
}

func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		log.GlobalErrorCtx(c.UserContext(), "request failed", "path", c.Path(), "error", err)
	}

	resp := errorResponse{Error: friendlyError(err), Retryable: usecases.IsRecoverable(err)}
	var v *domain.ValidationError
	if errors.As(err, &v) {
		resp.Field = v.Field
	}
	return c.Status(status).JSON(resp)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case domain.IsValidation(err):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrHuntNotFound),
		errors.Is(err, domain.ErrProfileNotFound),
		errors.Is(err, domain.ErrListNotFound),
		errors.Is(err, domain.ErrExportNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrHuntNotReady):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrHuntCancelled):
		return fiber.StatusGone
	case errors.Is(err, domain.ErrTierFeature):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrCheckoutFailed):
		return fiber.StatusPaymentRequired
	case errors.Is(err, domain.ErrRateLimited):
		return fiber.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusInternalServerError
	}
}

// friendlyError returns a neutral, user-facing message.
func friendlyError(err error) string {
	var v *domain.ValidationError
	switch {
	case errors.As(err, &v):
		return v.Message
	case errors.Is(err, domain.ErrCheckoutFailed):
		return "Hunt gear malfunction! Please try again."
	case errors.Is(err, domain.ErrHuntNotFound):
		return "This hunt couldn't be found. It may have expired."
	case errors.Is(err, domain.ErrHuntNotReady):
		return "The hunt is still in progress."
	case errors.Is(err, domain.ErrHuntCancelled):
		return "This hunt was called off."
	case errors.Is(err, domain.ErrTierFeature):
		return "Upgrade to Sweet Spot to unlock the dashboard and the Trophy Room."
	case errors.Is(err, domain.ErrProfileNotFound):
		return "That profile isn't part of this hunt."
	case errors.Is(err, domain.ErrListNotFound):
		return "That list no longer exists."
	case errors.Is(err, domain.ErrExportNotFound):
		return "This download link has expired. Export the results again."
	case errors.Is(err, domain.ErrRateLimited):
		return "Too many hunts. Please wait a moment and try again."
	case errors.Is(err, context.DeadlineExceeded):
		return "The hunt gear took too long to respond. Please try again."
	default:
		return "Something went wrong on our side. Please try again in a moment."
	}
}
