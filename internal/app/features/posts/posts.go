// internal/app/features/posts/posts.go
package posts

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dawitfm/famhub/internal/app/system/htmlsanitize"
	"github.com/dawitfm/famhub/internal/app/system/httpjson"
	"github.com/dawitfm/famhub/internal/app/system/normalize"
	"github.com/dawitfm/famhub/internal/app/system/timeouts"
	"github.com/dawitfm/famhub/internal/domain/models"
)

type createRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	AuthorID string `json:"authorId"`
}

// HandleCreate handles POST /posts. The body is sanitized before storage;
// new posts always start pending.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}

	title := normalize.Name(req.Title)
	if title == "" {
		httpjson.BadRequest(w, "title is required")
		return
	}
	if req.Body == "" {
		httpjson.BadRequest(w, "body is required")
		return
	}
	authorID, err := primitive.ObjectIDFromHex(req.AuthorID)
	if err != nil {
		httpjson.BadRequest(w, "invalid author id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Posts.Create(ctx, models.Post{
		Title:    title,
		Body:     htmlsanitize.Sanitize(req.Body),
		AuthorID: authorID,
	})
	if err != nil {
		h.Log.Error("posts: create failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	h.Log.Info("post created",
		zap.String("post_id", created.ID.Hex()),
		zap.String("author_id", authorID.Hex()))
	httpjson.Write(w, http.StatusCreated, created)
}

// HandleList handles GET /posts with an optional status filter
// (default pending, the moderation queue).
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	status := normalize.Token(r.URL.Query().Get("status"))
	if status == "" {
		status = models.PostPending
	}
	if status != models.PostPending && status != models.PostApproved && status != models.PostRejected {
		httpjson.BadRequest(w, "status must be pending, approved or rejected")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Posts.ListByStatus(ctx, status)
	if err != nil {
		h.Log.Error("posts: list failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	if list == nil {
		list = []models.Post{}
	}
	httpjson.Write(w, http.StatusOK, list)
}

// HandleGet handles GET /posts/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid post id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	post, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "post not found")
			return
		}
		h.Log.Error("posts: get failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.Write(w, http.StatusOK, post)
}

type reviewRequest struct {
	Note string `json:"note,omitempty"`
}

// HandleApprove handles POST /posts/{id}/approve.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, models.PostApproved)
}

// HandleReject handles POST /posts/{id}/reject.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, models.PostRejected)
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request, status string) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid post id")
		return
	}

	var req reviewRequest
	if r.ContentLength > 0 {
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.BadRequest(w, err.Error())
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Posts.SetStatus(ctx, id, status, normalize.Name(req.Note)); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "post not found")
			return
		}
		h.Log.Error("posts: review failed", zap.Error(err), zap.String("status", status))
		httpjson.ServerError(w)
		return
	}

	h.Log.Info("post reviewed", zap.String("post_id", id.Hex()), zap.String("status", status))
	post, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		h.Log.Error("posts: reload after review failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.Write(w, http.StatusOK, post)
}
