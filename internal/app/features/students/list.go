// internal/app/features/students/list.go
package students

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/dawitfm/famhub/internal/app/system/httpjson"
	"github.com/dawitfm/famhub/internal/app/system/paging"
	"github.com/dawitfm/famhub/internal/app/system/timeouts"
	"github.com/dawitfm/famhub/internal/domain/models"
)

type listResponse struct {
	Students []models.Student `json:"students"`
	HasPrev  bool             `json:"hasPrev"`
	HasNext  bool             `json:"hasNext"`
	Prev     string           `json:"prev,omitempty"`
	Next     string           `json:"next,omitempty"`
}

// HandleList handles GET /students with keyset pagination over
// (name_ci, _id). Supported query parameters: search (name prefix),
// batch, status, after, before.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	q := r.URL.Query()
	search := strings.TrimSpace(q.Get("search"))
	batch := strings.TrimSpace(q.Get("batch"))
	status := strings.TrimSpace(q.Get("status"))
	after := strings.TrimSpace(q.Get("after"))
	before := strings.TrimSpace(q.Get("before"))

	filter := bson.M{}
	if batch != "" {
		filter["batch"] = batch
	}
	if status != "" {
		filter["status"] = status
	}
	if search != "" {
		filter["name_ci"] = bson.M{"$regex": "^" + regexp.QuoteMeta(text.Fold(search))}
	}

	keyset := paging.ConfigureKeyset(before, after)
	if window := keyset.KeysetWindow("name_ci"); window != nil {
		filter = bson.M{"$and": bson.A{filter, window}}
	}

	find := options.Find()
	keyset.ApplyToFind(find, "name_ci")

	cur, err := h.Students.Collection().Find(ctx, filter, find)
	if err != nil {
		h.Log.Error("students: list query failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	var rows []models.Student
	if err := cur.All(ctx, &rows); err != nil {
		h.Log.Error("students: list decode failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	page := paging.TrimPage(&rows, before, after)
	if keyset.Backward {
		paging.Reverse(rows)
	}

	resp := listResponse{
		Students: rows,
		HasPrev:  page.HasPrev,
		HasNext:  page.HasNext,
	}
	if resp.Students == nil {
		resp.Students = []models.Student{}
	}
	prev, next := paging.BuildCursors(rows,
		func(s models.Student) string { return s.NameCI },
		func(s models.Student) primitive.ObjectID { return s.ID })
	if page.HasPrev {
		resp.Prev = prev
	}
	if page.HasNext {
		resp.Next = next
	}
	httpjson.Write(w, http.StatusOK, resp)
}
