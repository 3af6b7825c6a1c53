package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"examina/internal/dto"
)

// CreateQuestionHandler godoc
// @Summary Create a standalone question
// @Description Create a question with its options or numeric answer range. Subject, language, passage and tags are deduplicated on write.
// @Tags questions
// @Accept json
// @Produce json
// @Param question body dto.QuestionUploadRequest true "Question payload"
// @Success 201 {object} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /questions [post]
func (ctrl *Controller) CreateQuestionHandler(ctx *gin.Context) {
	var req dto.QuestionUploadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	resp, err := ctrl.questionSvc.Create(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// CreateQuestionsBulkHandler godoc
// @Summary Create questions in bulk
// @Description Create a batch of questions in one transaction. Shared subjects, languages, passages and tags resolve to single rows.
// @Tags questions
// @Accept json
// @Produce json
// @Param questions body dto.QuestionBulkCreateRequest true "Questions payload"
// @Success 201 {array} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /questions/bulk [post]
func (ctrl *Controller) CreateQuestionsBulkHandler(ctx *gin.Context) {
	var req dto.QuestionBulkCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	resp, err := ctrl.questionSvc.CreateBulk(req.Questions)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// UpdateQuestionHandler godoc
// @Summary Update a question
// @Description Partially update a question. Omitted fields keep their values; tags are added, never removed.
// @Tags questions
// @Accept json
// @Produce json
// @Param id path string true "Question ID"
// @Param question body dto.QuestionUpdateRequest true "Fields to update"
// @Success 200 {object} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/{id} [patch]
func (ctrl *Controller) UpdateQuestionHandler(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	var req dto.QuestionUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	resp, err := ctrl.questionSvc.Update(id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
