package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"examina/internal/apperr"
	"examina/internal/dto"
	"examina/internal/service"
)

type Controller struct {
	examSvc     service.ExamService
	paperSvc    service.PaperService
	questionSvc service.QuestionService
}

func NewController(examSvc service.ExamService, paperSvc service.PaperService, questionSvc service.QuestionService) *Controller {
	return &Controller{
		examSvc:     examSvc,
		paperSvc:    paperSvc,
		questionSvc: questionSvc,
	}
}

func (ctrl *Controller) RegisterRoutes(router *gin.Engine) {
	apiV1 := router.Group("/api/v1")
	{
		exams := apiV1.Group("/exams")
		exams.GET("", ctrl.GetExamsHandler)
		exams.POST("", ctrl.CreateExamsHandler)
		exams.PATCH("/:id/active", ctrl.UpdateExamActiveStatusHandler)
		exams.DELETE("/:id", ctrl.DeleteExamHandler)
		exams.GET("/:id/papers", ctrl.GetExamPapersHandler)
		exams.POST("/:id/papers", ctrl.CreatePaperHandler)

		papers := apiV1.Group("/papers")
		papers.GET("/:id/cbt", ctrl.GetPaperForCBTHandler)
		papers.GET("/:id/solutions", ctrl.GetPaperSolutionHandler)
		papers.PUT("/:id", ctrl.UpdatePaperHandler)
		papers.PATCH("/:id/status", ctrl.UpdatePaperStatusHandler)
		papers.DELETE("/:id", ctrl.DeletePaperHandler)

		sections := apiV1.Group("/sections")
		sections.PATCH("/:id", ctrl.UpdateSectionHandler)

		subSections := apiV1.Group("/sub-sections")
		subSections.PATCH("/:id", ctrl.UpdateSubSectionHandler)
		subSections.PATCH("/:id/questions/:question_id", ctrl.UpdateSubSectionQuestionHandler)

		questions := apiV1.Group("/questions")
		questions.POST("", ctrl.CreateQuestionHandler)
		questions.POST("/bulk", ctrl.CreateQuestionsBulkHandler)
		questions.PATCH("/:id", ctrl.UpdateQuestionHandler)
	}
}

// respondError maps service errors onto status codes: missing records are
// 404, data logic violations are 400, everything else is logged as a 500.
func respondError(ctx *gin.Context, err error) {
	var notFound *apperr.NotFoundError
	if errors.As(err, &notFound) {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: notFound.Error(), Model: notFound.Model})
		return
	}
	var dataLogic *apperr.DataLogicError
	if errors.As(err, &dataLogic) {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: dataLogic.Message, Fields: dataLogic.Fields})
		return
	}
	var noFilter *apperr.NoFilterError
	if errors.As(err, &noFilter) {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: noFilter.Error()})
		return
	}
	log.Error().Err(err).Str("path", ctx.FullPath()).Msg("unhandled service error")
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
}

func bindError(ctx *gin.Context, err error) {
	log.Warn().Err(err).Str("path", ctx.FullPath()).Msg("failed to bind request")
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
}

// pathUUID parses the named path parameter as a UUID; a malformed id writes
// the 400 itself and reports ok=false.
func pathUUID(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid " + name + ": must be a UUID"})
		return uuid.Nil, false
	}
	return id, true
}
