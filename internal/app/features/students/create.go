// internal/app/features/students/create.go
package students

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dawitfm/famhub/internal/app/system/httpjson"
	"github.com/dawitfm/famhub/internal/app/system/normalize"
	"github.com/dawitfm/famhub/internal/app/system/timeouts"
	"github.com/dawitfm/famhub/internal/domain/models"
)

// birthDateLayout is the wire format for birth dates.
const birthDateLayout = "2006-01-02"

type studentInput struct {
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName,omitempty"`
	LastName   string `json:"lastName"`
	Gender     string `json:"gender"`
	Batch      string `json:"batch"`
	Region     string `json:"region,omitempty"`
	Zone       string `json:"zone,omitempty"`
	Wereda     string `json:"wereda,omitempty"`
	Kebele     string `json:"kebele,omitempty"`
	BirthDate  string `json:"birthDate,omitempty"`
	Status     string `json:"status,omitempty"`
}

func (in studentInput) toStudent() (models.Student, error) {
	st := models.Student{
		FirstName:  normalize.Name(in.FirstName),
		MiddleName: normalize.Name(in.MiddleName),
		LastName:   normalize.Name(in.LastName),
		Gender:     normalize.Gender(in.Gender),
		Batch:      normalize.Token(in.Batch),
		Region:     normalize.Place(in.Region),
		Zone:       normalize.Place(in.Zone),
		Wereda:     normalize.Place(in.Wereda),
		Kebele:     normalize.Place(in.Kebele),
		Status:     normalize.Token(in.Status),
	}
	if st.FirstName == "" {
		return models.Student{}, errors.New("firstName is required")
	}
	if st.LastName == "" {
		return models.Student{}, errors.New("lastName is required")
	}
	if st.Gender != models.GenderMale && st.Gender != models.GenderFemale {
		return models.Student{}, errors.New("gender must be male or female")
	}
	if st.Batch == "" {
		return models.Student{}, errors.New("batch is required")
	}
	if in.BirthDate != "" {
		born, err := time.Parse(birthDateLayout, in.BirthDate)
		if err != nil {
			return models.Student{}, errors.New("birthDate must be formatted YYYY-MM-DD")
		}
		st.BirthDate = &born
	}
	return st, nil
}

// HandleCreate handles POST /students.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in studentInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}
	st, err := in.toStudent()
	if err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Students.Create(ctx, st)
	if err != nil {
		h.Log.Error("students: create failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	h.Log.Info("student created",
		zap.String("student_id", created.ID.Hex()),
		zap.String("batch", created.Batch))
	httpjson.Write(w, http.StatusCreated, created)
}

// HandleUpdate handles PUT /students/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid student id")
		return
	}

	var in studentInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}
	st, err := in.toStudent()
	if err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Students.Update(ctx, id, st); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "student not found")
			return
		}
		h.Log.Error("students: update failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	st.ID = id
	httpjson.Write(w, http.StatusOK, st)
}
