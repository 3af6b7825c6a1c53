package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"examina/internal/dto"
)

// CreatePaperHandler godoc
// @Summary Create a paper under an exam
// @Description Create a complete paper with its sections, sub-sections and questions in one request. Sections, sub-sections and questions take their display order from their position in the payload.
// @Tags papers
// @Accept json
// @Produce json
// @Param id path string true "Exam ID"
// @Param paper body dto.CBTPaperRequest true "Paper payload"
// @Success 201 {object} dto.PaperResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /exams/{id}/papers [post]
func (ctrl *Controller) CreatePaperHandler(ctx *gin.Context) {
	examID, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	var req dto.CBTPaperRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	resp, err := ctrl.paperSvc.CreatePaper(examID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// GetPaperForCBTHandler godoc
// @Summary Get a paper for test delivery
// @Description Return the full nested paper as delivered to the test-taking client: no answers, no explanations.
// @Tags papers
// @Produce json
// @Param id path string true "Paper ID"
// @Success 200 {object} dto.CBTPaperResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /papers/{id}/cbt [get]
func (ctrl *Controller) GetPaperForCBTHandler(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	resp, err := ctrl.paperSvc.GetForCBT(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetPaperSolutionHandler godoc
// @Summary Get the answer key of a paper
// @Description Map each question of the paper to its answer: correct option ids for MCQ/MSQ, [start, end] bounds for NAT.
// @Tags papers
// @Produce json
// @Param id path string true "Paper ID"
// @Success 200 {object} dto.SolutionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /papers/{id}/solutions [get]
func (ctrl *Controller) GetPaperSolutionHandler(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	resp, err := ctrl.paperSvc.GetSolution(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdatePaperHandler godoc
// @Summary Update paper metadata
// @Description Update name, year, set, language, instructions and settings. The section tree is not editable here.
// @Tags papers
// @Accept json
// @Produce json
// @Param id path string true "Paper ID"
// @Param paper body dto.CBTPaperUpdateRequest true "Paper metadata"
// @Success 200 {object} dto.PaperResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /papers/{id} [put]
func (ctrl *Controller) UpdatePaperHandler(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	var req dto.CBTPaperUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	resp, err := ctrl.paperSvc.UpdatePaper(id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdatePaperStatusHandler godoc
// @Summary Move a paper through its lifecycle
// @Description Transition the paper status. Draft can move anywhere; published and archived flip between each other; nothing returns to draft.
// @Tags papers
// @Accept json
// @Produce json
// @Param id path string true "Paper ID"
// @Param status body dto.PaperStatusUpdateRequest true "Target status"
// @Success 200 {object} dto.PaperResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /papers/{id}/status [patch]
func (ctrl *Controller) UpdatePaperStatusHandler(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	var req dto.PaperStatusUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	resp, err := ctrl.paperSvc.UpdateStatus(id, req.Status)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeletePaperHandler godoc
// @Summary Delete a paper
// @Description Soft-delete a paper, freeing its uniqueness slot for a replacement.
// @Tags papers
// @Produce json
// @Param id path string true "Paper ID"
// @Success 200 {object} dto.PaperResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /papers/{id} [delete]
func (ctrl *Controller) DeletePaperHandler(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	resp, err := ctrl.paperSvc.Delete(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdateSectionHandler godoc
// @Summary Update a section
// @Tags papers
// @Accept json
// @Produce json
// @Param id path string true "Section ID"
// @Param section body dto.SectionUpdateRequest true "Fields to update"
// @Success 204 "No Content"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /sections/{id} [patch]
func (ctrl *Controller) UpdateSectionHandler(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	var req dto.SectionUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	if err := ctrl.paperSvc.UpdateSection(id, req); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// UpdateSubSectionHandler godoc
// @Summary Update a sub-section
// @Tags papers
// @Accept json
// @Produce json
// @Param id path string true "Sub-section ID"
// @Param sub_section body dto.SubSectionUpdateRequest true "Fields to update"
// @Success 204 "No Content"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /sub-sections/{id} [patch]
func (ctrl *Controller) UpdateSubSectionHandler(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	var req dto.SubSectionUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	if err := ctrl.paperSvc.UpdateSubSection(id, req); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// UpdateSubSectionQuestionHandler godoc
// @Summary Update a question within a sub-section
// @Description Update the question content and the marks on its sub-section link. The question must already be linked to the sub-section.
// @Tags papers
// @Accept json
// @Produce json
// @Param id path string true "Sub-section ID"
// @Param question_id path string true "Question ID"
// @Param question body dto.CBTQuestionUpdateRequest true "Fields to update"
// @Success 204 "No Content"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /sub-sections/{id}/questions/{question_id} [patch]
func (ctrl *Controller) UpdateSubSectionQuestionHandler(ctx *gin.Context) {
	subSectionID, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	questionID, ok := pathUUID(ctx, "question_id")
	if !ok {
		return
	}
	var req dto.CBTQuestionUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	if err := ctrl.paperSvc.UpdateSubSectionQuestion(subSectionID, questionID, req); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
