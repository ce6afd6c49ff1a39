package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"github.com/suke199800/tree/internal/ctxutil"
	"github.com/suke199800/tree/internal/export"
	"github.com/suke199800/tree/internal/logging"
	"github.com/suke199800/tree/internal/metrics"
	"github.com/suke199800/tree/internal/models"
	"github.com/suke199800/tree/internal/observability"
	"github.com/suke199800/tree/internal/store"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Catalog: всё, что хендлерам нужно от хранилища.
type Catalog interface {
	Schools() []models.School
	Posts(schoolID int) ([]models.PraisePost, error)
	AddPost(schoolID int, author, content string) (store.AddResult, error)
}

// StageNotifier получает событие роста дерева. Может быть nil.
type StageNotifier interface {
	NotifyStageUp(ctx context.Context, school models.School, prevStage int) error
}

type SchoolHandler struct {
	cat      Catalog
	notifier StageNotifier
	log      *zap.SugaredLogger
	now      func() time.Time
}

func NewSchoolHandler(cat Catalog, notifier StageNotifier, log *zap.SugaredLogger) *SchoolHandler {
	if log == nil {
		log = logging.Nop().Sugar
	}
	return &SchoolHandler{cat: cat, notifier: notifier, log: log, now: time.Now}
}

type addPostRequest struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

type addPostResponse struct {
	Message       string        `json:"message"`
	PostID        int64         `json:"post_id"`
	NewPoints     int           `json:"new_points"`
	NewStage      int           `json:"new_stage"`
	UpdatedSchool models.School `json:"updated_school"`
}

func (h *SchoolHandler) ListSchools(c *gin.Context) {
	c.JSON(http.StatusOK, h.cat.Schools())
}

func (h *SchoolHandler) ListPosts(c *gin.Context) {
	id, ok := schoolID(c)
	if !ok {
		schoolNotFound(c)
		return
	}
	c.Request = c.Request.WithContext(ctxutil.WithOp(ctxutil.WithSchoolID(c.Request.Context(), id), "list_posts"))
	posts, err := h.cat.Posts(id)
	if err != nil {
		if errors.Is(err, store.ErrSchoolNotFound) {
			schoolNotFound(c)
			return
		}
		h.internalError(c, "Failed to load praise posts", err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *SchoolHandler) AddPost(c *gin.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			h.internalError(c, "Failed to add praise post", fmt.Errorf("panic: %v", rec))
		}
	}()

	var req addPostRequest
	if err := bindPostBody(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON data"})
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}
	id, ok := schoolID(c)
	if !ok {
		schoolNotFound(c)
		return
	}

	ctx := ctxutil.WithOp(ctxutil.WithSchoolID(c.Request.Context(), id), "add_post")
	c.Request = c.Request.WithContext(ctx)
	res, err := h.cat.AddPost(id, req.Author, req.Content)
	switch {
	case errors.Is(err, store.ErrContentRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	case errors.Is(err, store.ErrSchoolNotFound):
		schoolNotFound(c)
		return
	case err != nil:
		h.internalError(c, "Failed to add praise post", err)
		return
	}

	metrics.PraisePosts.Inc()
	h.log.Infow("praise post added",
		"school_id", id, "post_id", res.Post.ID,
		"points", res.School.PraisePoints, "stage", res.School.TreeGrowthStage)
	if res.StageChanged() {
		metrics.ObserveStageUp(res.School.TreeGrowthStage)
		h.notifyStageUp(ctx, res)
	}

	c.JSON(http.StatusCreated, addPostResponse{
		Message:       "Praise post added successfully",
		PostID:        res.Post.ID,
		NewPoints:     res.School.PraisePoints,
		NewStage:      res.School.TreeGrowthStage,
		UpdatedSchool: res.School,
	})
}

func (h *SchoolHandler) ExportLeaderboard(c *gin.Context) {
	f, err := export.NewLeaderboardWorkbook(h.cat.Schools())
	if err != nil {
		h.internalError(c, "Failed to build export", err)
		return
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		h.internalError(c, "Failed to build export", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.BuildLeaderboardFilename(h.now())))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// уведомление уходит после ответа клиенту и не зависит от его отмены
func (h *SchoolHandler) notifyStageUp(ctx context.Context, res store.AddResult) {
	if h.notifier == nil {
		return
	}
	nctx, cancel := ctxutil.Detached(ctx, ctxutil.DefaultNotifyTimeout)
	go func() {
		defer cancel()
		if err := h.notifier.NotifyStageUp(nctx, res.School, res.PrevStage); err != nil {
			h.log.Warnw("stage-up notify failed", "school_id", res.School.ID, "err", err)
		}
	}()
}

func (h *SchoolHandler) internalError(c *gin.Context, msg string, err error) {
	metrics.HandlerErrors.Inc()
	h.log.Errorw(msg, "path", c.Request.URL.Path, "err", err)
	observability.CaptureErrCtx(c.Request.Context(), err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg, "details": err.Error()})
}

var errEmptyBody = errors.New("empty JSON body")

// bindPostBody: пустое тело и литерал null считаются отсутствующим JSON.
func bindPostBody(c *gin.Context, req *addPostRequest) error {
	body, err := c.GetRawData()
	if err != nil {
		return err
	}
	if t := bytes.TrimSpace(body); len(t) == 0 || bytes.Equal(t, []byte("null")) {
		return errEmptyBody
	}
	return binding.JSON.BindBody(body, req)
}

func schoolID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, false
	}
	return id, true
}

func schoolNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "School not found"})
}
