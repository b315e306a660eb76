package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillforge/skillforge-backend/internal/domain"
	"github.com/skillforge/skillforge-backend/internal/http/response"
	"github.com/skillforge/skillforge-backend/internal/modules/progression"
	"github.com/skillforge/skillforge-backend/internal/platform/logger"
)

type QuizHandler struct {
	log         *logger.Logger
	progression progression.Usecases
}

func NewQuizHandler(log *logger.Logger, uc progression.Usecases) *QuizHandler {
	return &QuizHandler{
		log:         log.With("handler", "QuizHandler"),
		progression: uc,
	}
}

// submitRequest maps question id to the zero-based index of the chosen
// option. Every question in the quiz must be present.
type submitRequest struct {
	Selections map[uuid.UUID]int `json:"selections" binding:"required"`
}

type submitPayload struct {
	Summary         any    `json:"summary"`
	Passed          bool   `json:"passed"`
	Threshold       int    `json:"threshold"`
	LessonCompleted bool   `json:"lesson_completed,omitempty"`
	CourseCompleted bool   `json:"course_completed,omitempty"`
	Certificate     any    `json:"certificate,omitempty"`
	Advice          string `json:"advice,omitempty"`
}

func submitResponse(out *progression.SubmitQuizOutput) submitPayload {
	payload := submitPayload{
		Summary:         out.Summary,
		Passed:          out.Passed,
		Threshold:       out.Threshold,
		LessonCompleted: out.LessonCompleted,
		CourseCompleted: out.CourseCompleted,
		Advice:          out.Advice,
	}
	if out.Certificate != nil {
		payload.Certificate = out.Certificate
	}
	return payload
}

func (h *QuizHandler) getQuiz(c *gin.Context, role domain.QuizRole, lessonID uuid.UUID) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	courseID, ok := courseIDParam(c)
	if !ok {
		return
	}
	out, err := h.progression.GetQuiz(c.Request.Context(), progression.GetQuizInput{
		UserID:   userID,
		CourseID: courseID,
		Role:     role,
		LessonID: lessonID,
	})
	if err != nil {
		respondProgressionError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"quiz": out.Quiz})
}

func (h *QuizHandler) GetIntroQuiz(c *gin.Context) {
	h.getQuiz(c, domain.QuizRoleIntroductory, uuid.Nil)
}

func (h *QuizHandler) GetFinalQuiz(c *gin.Context) {
	h.getQuiz(c, domain.QuizRoleFinal, uuid.Nil)
}

func (h *QuizHandler) GetLessonQuiz(c *gin.Context) {
	lessonID, err := uuid.Parse(c.Param("lessonID"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_lesson_id", err)
		return
	}
	h.getQuiz(c, domain.QuizRoleLesson, lessonID)
}

func (h *QuizHandler) ListQuizSummaries(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	courseID, ok := courseIDParam(c)
	if !ok {
		return
	}
	role := domain.QuizRole(c.Query("role"))
	out, err := h.progression.ListQuizSummaries(c.Request.Context(), progression.ListQuizSummariesInput{
		UserID:   userID,
		CourseID: courseID,
		Role:     role,
	})
	if err != nil {
		respondProgressionError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"summaries": out.Summaries})
}

func (h *QuizHandler) GetQuizSummary(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	summaryID, err := uuid.Parse(c.Param("summaryID"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_summary_id", err)
		return
	}
	out, err := h.progression.GetQuizSummary(c.Request.Context(), progression.GetQuizSummaryInput{
		UserID:    userID,
		SummaryID: summaryID,
	})
	if err != nil {
		respondProgressionError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"summary": out.Summary})
}

func (h *QuizHandler) SubmitIntroQuiz(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	courseID, ok := courseIDParam(c)
	if !ok {
		return
	}
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := h.progression.SubmitIntroQuiz(c.Request.Context(), progression.SubmitIntroQuizInput{
		UserID:     userID,
		CourseID:   courseID,
		Selections: req.Selections,
	})
	if err != nil {
		respondProgressionError(c, h.log, err)
		return
	}
	response.RespondOK(c, submitResponse(out))
}

func (h *QuizHandler) SubmitLessonQuiz(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	courseID, ok := courseIDParam(c)
	if !ok {
		return
	}
	lessonID, err := uuid.Parse(c.Param("lessonID"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_lesson_id", err)
		return
	}
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := h.progression.SubmitLessonQuiz(c.Request.Context(), progression.SubmitLessonQuizInput{
		UserID:     userID,
		CourseID:   courseID,
		LessonID:   lessonID,
		Selections: req.Selections,
	})
	if err != nil {
		respondProgressionError(c, h.log, err)
		return
	}
	response.RespondOK(c, submitResponse(out))
}

func (h *QuizHandler) SubmitFinalQuiz(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	courseID, ok := courseIDParam(c)
	if !ok {
		return
	}
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := h.progression.SubmitFinalQuiz(c.Request.Context(), progression.SubmitFinalQuizInput{
		UserID:     userID,
		CourseID:   courseID,
		Selections: req.Selections,
	})
	if err != nil {
		respondProgressionError(c, h.log, err)
		return
	}
	response.RespondOK(c, submitResponse(out))
}
