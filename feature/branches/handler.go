package branches

import (
	"errors"

	"github.com/VinniZP/lingx/core/logger"
	"github.com/VinniZP/lingx/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for branch reconciliation.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the branch routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/branches")
	group.Get("/", h.HandleListBranches)
	group.Post("/", h.HandleCreateBranch)
	group.Get("/:id/catalog", h.HandleGetCatalog)
	group.Get("/:id/diff/:targetID", h.HandleDiff)
	group.Post("/:id/merge", h.HandleMerge)
	group.Get("/:id/archives", h.HandleListArchives)
	group.Post("/:id/archives/prune", h.HandlePruneArchives)
	group.Get("/:id/archives/:name", h.HandleGetArchive)
	group.Delete("/:id/archives/:name", h.HandleRemoveArchive)
}

// MergeRequest is the body of a merge call. The target branch comes from the
// URL; resolutions list one explicit decision per conflicting key.
type MergeRequest struct {
	SourceBranchID  string                 `json:"source_branch_id"`
	Resolutions     []reconcile.Resolution `json:"resolutions"`
	DeleteUnmatched bool                   `json:"delete_unmatched"`
}

// MergeResponse summarizes an applied merge.
type MergeResponse struct {
	Upserts int               `json:"upserts"`
	Deletes int               `json:"deletes"`
	Summary reconcile.Summary `json:"summary"`
}

// CreateBranchRequest is the body of a branch creation call.
type CreateBranchRequest struct {
	SpaceID string `json:"space_id"`
	Name    string `json:"name"`
}

// HandleListBranches lists branches, optionally filtered by space.
// @Summary List branches
// @Tags branches
// @Produce json
// @Param space_id query string false "Filter by space"
// @Success 200 {array} models.Branch
// @Router /branches [get]
func (h *Handler) HandleListBranches(c *fiber.Ctx) error {
	branches, err := h.service.Store().ListBranches(c.Context(), c.Query("space_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(branches)
}

// HandleCreateBranch creates a branch in a space.
// @Summary Create a branch
// @Tags branches
// @Accept json
// @Produce json
// @Param request body CreateBranchRequest true "Branch to create"
// @Success 201 {object} models.Branch
// @Router /branches [post]
func (h *Handler) HandleCreateBranch(c *fiber.Ctx) error {
	var req CreateBranchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.SpaceID == "" || req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "space_id and name are required"})
	}

	branch, err := h.service.Store().CreateBranch(c.Context(), req.SpaceID, req.Name)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(branch)
}

// HandleGetCatalog returns the full catalog of a branch.
// @Summary Get a branch catalog
// @Tags branches
// @Produce json
// @Param id path string true "Branch ID"
// @Success 200 {object} map[string]map[string]string
// @Failure 404 {object} map[string]string
// @Router /branches/{id}/catalog [get]
func (h *Handler) HandleGetCatalog(c *fiber.Ctx) error {
	cat, err := h.service.Catalog(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(cat.Map())
}

// HandleDiff compares the catalogs of two branches without writing.
// @Summary Diff two branches
// @Description Classifies every (language, key) pair into added, removed, or changed. Review the changed list, then POST resolutions to the merge endpoint.
// @Tags branches
// @Produce json
// @Param id path string true "Source branch ID"
// @Param targetID path string true "Target branch ID"
// @Success 200 {object} reconcile.DiffResult
// @Failure 404 {object} map[string]string
// @Router /branches/{id}/diff/{targetID} [get]
func (h *Handler) HandleDiff(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	diff, err := h.service.Diff(c.Context(), c.Params("id"), c.Params("targetID"))
	if err != nil {
		return h.fail(c, err)
	}

	l.Info("branch diff computed",
		zap.String("source_branch", c.Params("id")),
		zap.String("target_branch", c.Params("targetID")),
		zap.Int("added", len(diff.AddedOnlySource)),
		zap.Int("removed", len(diff.RemovedOnlyTarget)),
		zap.Int("conflicts", len(diff.ChangedBothPresent)),
	)
	return c.JSON(diff)
}

// HandleMerge merges a source branch into the target branch.
// @Summary Merge one branch into another
// @Description Applies source-only keys and resolved conflicts to the target. Fails with 409 and writes nothing if any conflict has no resolution.
// @Tags branches
// @Accept json
// @Produce json
// @Param id path string true "Target branch ID"
// @Param request body MergeRequest true "Source branch and resolutions"
// @Success 200 {object} MergeResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]interface{} "Unresolved conflicts or concurrent edit"
// @Router /branches/{id}/merge [post]
func (h *Handler) HandleMerge(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	var req MergeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.SourceBranchID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "source_branch_id is required"})
	}

	plan, err := h.service.Merge(c.Context(), req.SourceBranchID, c.Params("id"), req.Resolutions, req.DeleteUnmatched)
	if err != nil {
		var unresolved *reconcile.UnresolvedError
		if errors.As(err, &unresolved) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error":      "unresolved conflicts",
				"unresolved": unresolved.Identities,
			})
		}
		if errors.Is(err, reconcile.ErrStaleCatalog) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "target branch changed since diff, re-run the diff and review again",
			})
		}
		l.Error("branch merge failed", zap.Error(err))
		return h.fail(c, err)
	}

	return c.JSON(MergeResponse{
		Upserts: len(plan.Upserts),
		Deletes: len(plan.Deletes),
		Summary: plan.Summary,
	})
}

// HandleListArchives lists the stored snapshots of a branch.
// @Summary List branch snapshot archives
// @Tags archives
// @Produce json
// @Param id path string true "Branch ID"
// @Success 200 {array} ArchiveInfo
// @Failure 404 {object} map[string]string
// @Router /branches/{id}/archives [get]
func (h *Handler) HandleListArchives(c *fiber.Ctx) error {
	archives, err := h.service.Archives(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	if archives == nil {
		archives = []ArchiveInfo{}
	}
	return c.JSON(archives)
}

// HandleGetArchive restores one stored snapshot of a branch.
// @Summary Get an archived branch snapshot
// @Tags archives
// @Produce json
// @Param id path string true "Branch ID"
// @Param name path string true "Archive name"
// @Success 200 {object} map[string]map[string]string
// @Failure 404 {object} map[string]string
// @Router /branches/{id}/archives/{name} [get]
func (h *Handler) HandleGetArchive(c *fiber.Ctx) error {
	cat, err := h.service.ArchivedCatalog(c.Context(), c.Params("id"), c.Params("name"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(cat.Map())
}

// HandleRemoveArchive deletes one stored snapshot of a branch.
// @Summary Delete an archived branch snapshot
// @Tags archives
// @Param id path string true "Branch ID"
// @Param name path string true "Archive name"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /branches/{id}/archives/{name} [delete]
func (h *Handler) HandleRemoveArchive(c *fiber.Ctx) error {
	if err := h.service.RemoveArchive(c.Context(), c.Params("id"), c.Params("name")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandlePruneArchives deletes all but the newest snapshots of a branch.
// @Summary Prune archived branch snapshots
// @Tags archives
// @Produce json
// @Param id path string true "Branch ID"
// @Param keep query int false "Snapshots to keep (default 10)"
// @Success 200 {object} map[string]int
// @Failure 404 {object} map[string]string
// @Router /branches/{id}/archives/prune [post]
func (h *Handler) HandlePruneArchives(c *fiber.Ctx) error {
	keep := c.QueryInt("keep", 10)
	removed, err := h.service.PruneArchives(c.Context(), c.Params("id"), keep)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"removed": removed})
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrBranchNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if errors.Is(err, ErrArchivesDisabled) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
