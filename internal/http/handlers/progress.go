package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillforge/skillforge-backend/internal/http/response"
	"github.com/skillforge/skillforge-backend/internal/modules/progression"
	"github.com/skillforge/skillforge-backend/internal/platform/logger"
)

type ProgressHandler struct {
	log         *logger.Logger
	progression progression.Usecases
}

func NewProgressHandler(log *logger.Logger, uc progression.Usecases) *ProgressHandler {
	return &ProgressHandler{
		log:         log.With("handler", "ProgressHandler"),
		progression: uc,
	}
}

func (h *ProgressHandler) Enroll(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	courseID, ok := courseIDParam(c)
	if !ok {
		return
	}
	out, err := h.progression.Enroll(c.Request.Context(), progression.EnrollInput{
		UserID:   userID,
		CourseID: courseID,
	})
	if err != nil {
		respondProgressionError(c, h.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"enrollment": out.Enrollment})
}

// ListEnrollments returns the caller's enrollments, optionally filtered by
// status (enrolled, in_progress, completed).
func (h *ProgressHandler) ListEnrollments(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	out, err := h.progression.ListEnrollments(c.Request.Context(), progression.ListEnrollmentsInput{
		UserID: userID,
		Status: c.Query("status"),
	})
	if err != nil {
		respondProgressionError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"enrollments": out.Enrollments})
}

func (h *ProgressHandler) GetProgress(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	courseID, ok := courseIDParam(c)
	if !ok {
		return
	}
	out, err := h.progression.GetProgress(c.Request.Context(), progression.GetProgressInput{
		UserID:   userID,
		CourseID: courseID,
	})
	if err != nil {
		respondProgressionError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": out.Progress})
}

func (h *ProgressHandler) OpenLesson(c *gin.Context) {
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
	out, err := h.progression.OpenLesson(c.Request.Context(), progression.OpenLessonInput{
		UserID:   userID,
		CourseID: courseID,
		LessonID: lessonID,
	})
	if err != nil {
		respondProgressionError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{
		"lesson": out.Lesson,
		"state":  out.State,
	})
}

func (h *ProgressHandler) GetCertificate(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	courseID, ok := courseIDParam(c)
	if !ok {
		return
	}
	out, err := h.progression.GetCertificate(c.Request.Context(), progression.GetCertificateInput{
		UserID:   userID,
		CourseID: courseID,
	})
	if err != nil {
		respondProgressionError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"certificate": out.Certificate})
}
