package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"examina/internal/dto"
	"examina/internal/model"
)

// GetExamsHandler godoc
// @Summary List exams
// @Description List exams with pagination. Inactive exams are hidden unless include_inactive=true.
// @Tags exams
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Param include_inactive query bool false "Include inactive exams"
// @Success 200 {object} dto.PagedResponse[dto.ExamResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /exams [get]
func (ctrl *Controller) GetExamsHandler(ctx *gin.Context) {
	var page dto.PageRequest
	if err := ctx.ShouldBindQuery(&page); err != nil {
		bindError(ctx, err)
		return
	}
	includeInactive := ctx.Query("include_inactive") == "true"
	resp, err := ctrl.examSvc.GetExams(includeInactive, page)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// CreateExamsHandler godoc
// @Summary Create exams
// @Description Create one or more exams. Names already present are returned as-is instead of duplicated.
// @Tags exams
// @Accept json
// @Produce json
// @Param exams body dto.ExamBulkCreateRequest true "Exams to create"
// @Success 201 {array} dto.ExamResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /exams [post]
func (ctrl *Controller) CreateExamsHandler(ctx *gin.Context) {
	var req dto.ExamBulkCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	resp, err := ctrl.examSvc.CreateBulk(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// UpdateExamActiveStatusHandler godoc
// @Summary Toggle exam active status
// @Description Set the exam's active flag. Setting the flag to its current value is rejected.
// @Tags exams
// @Accept json
// @Produce json
// @Param id path string true "Exam ID"
// @Param status body dto.ExamActiveStatusRequest true "Desired active status"
// @Success 200 {object} dto.ExamResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /exams/{id}/active [patch]
func (ctrl *Controller) UpdateExamActiveStatusHandler(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	var req dto.ExamActiveStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	resp, err := ctrl.examSvc.UpdateActiveStatus(id, *req.IsActive)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteExamHandler godoc
// @Summary Delete an exam
// @Description Soft-delete an exam. The row stays in place flagged as deleted.
// @Tags exams
// @Produce json
// @Param id path string true "Exam ID"
// @Success 200 {object} dto.ExamResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /exams/{id} [delete]
func (ctrl *Controller) DeleteExamHandler(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	resp, err := ctrl.examSvc.Delete(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetExamPapersHandler godoc
// @Summary List papers of an exam
// @Description List the exam's papers filtered by status (default published). An exam with no matching papers returns an empty list.
// @Tags exams
// @Produce json
// @Param id path string true "Exam ID"
// @Param status query string false "Paper status filter" Enums(draft, published, archived)
// @Success 200 {array} dto.PaperSummaryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /exams/{id}/papers [get]
func (ctrl *Controller) GetExamPapersHandler(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	status := model.PaperStatus(ctx.DefaultQuery("status", string(model.PaperStatusPublished)))
	if !status.Valid() {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid status: must be draft, published or archived"})
		return
	}
	resp, err := ctrl.examSvc.GetPapers(id, status)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
