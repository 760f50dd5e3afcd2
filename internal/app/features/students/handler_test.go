package students_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/dawitfm/famhub/internal/app/features/students"
	"github.com/dawitfm/famhub/internal/domain/models"
	"github.com/dawitfm/famhub/internal/testutil"
)

func TestHandleCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := students.NewHandler(db, zap.NewNop())

	body := map[string]any{
		"firstName": "Samuel",
		"lastName":  "Bekele",
		"gender":    "male",
		"batch":     "2024",
		"region":    "Amhara",
		"zone":      "North Shewa",
		"wereda":    "Debre Berhan",
		"kebele":    "Kebele 04",
		"birthDate": "2004-05-20",
	}
	req := testutil.NewJSONRequest(t, "POST", "/students", body)
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var created models.Student
	testutil.DecodeJSON(t, rec, &created)
	if created.ID.IsZero() {
		t.Error("created student has no id")
	}
	if created.Status != "active" {
		t.Errorf("status = %q, want active", created.Status)
	}
	if created.NameCI != "samuel bekele" {
		t.Errorf("name_ci = %q, want %q", created.NameCI, "samuel bekele")
	}
	if created.BirthDate == nil {
		t.Error("birth date not stored")
	}
}

func TestHandleCreate_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := students.NewHandler(db, zap.NewNop())

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing first name", map[string]any{"lastName": "Bekele", "gender": "male", "batch": "2024"}},
		{"missing last name", map[string]any{"firstName": "Samuel", "gender": "male", "batch": "2024"}},
		{"bad gender", map[string]any{"firstName": "Samuel", "lastName": "Bekele", "gender": "other", "batch": "2024"}},
		{"missing batch", map[string]any{"firstName": "Samuel", "lastName": "Bekele", "gender": "male"}},
		{"bad birth date", map[string]any{"firstName": "Samuel", "lastName": "Bekele", "gender": "male", "batch": "2024", "birthDate": "20/05/2004"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewJSONRequest(t, "POST", "/students", tt.body)
			rec := httptest.NewRecorder()
			h.HandleCreate(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestHandleList_FiltersAndPaging(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := students.NewHandler(db, zap.NewNop())
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateStudent(ctx, "Abel", models.GenderMale, "2024", testutil.DefaultAddress)
	fx.CreateStudent(ctx, "Hana", models.GenderFemale, "2024", testutil.DefaultAddress)
	fx.CreateStudent(ctx, "Samuel", models.GenderMale, "2023", testutil.DefaultAddress)

	req := httptest.NewRequest("GET", "/students?batch=2024", nil)
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Students []models.Student `json:"students"`
		HasNext  bool             `json:"hasNext"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if len(resp.Students) != 2 {
		t.Fatalf("students = %d, want 2", len(resp.Students))
	}
	// Sorted by folded name: Abel before Hana.
	if resp.Students[0].FirstName != "Abel" {
		t.Errorf("first student = %q, want Abel", resp.Students[0].FirstName)
	}
	if resp.HasNext {
		t.Error("hasNext = true for a single page")
	}

	// Name prefix search.
	req = httptest.NewRequest("GET", "/students?search=sam", nil)
	rec = httptest.NewRecorder()
	h.HandleList(rec, req)
	testutil.DecodeJSON(t, rec, &resp)
	if len(resp.Students) != 1 || resp.Students[0].FirstName != "Samuel" {
		t.Errorf("search returned %d students, want just Samuel", len(resp.Students))
	}
}

func TestHandleGetUpdateDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := students.NewHandler(db, zap.NewNop())
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	st := fx.CreateStudent(ctx, "Abel", models.GenderMale, "2024", testutil.DefaultAddress)

	// GET
	req := testutil.WithChiURLParam(httptest.NewRequest("GET", "/students/"+st.ID.Hex(), nil), "id", st.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleGet(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	// UPDATE
	body := map[string]any{
		"firstName": "Abel", "lastName": "Girma", "gender": "male", "batch": "2025",
	}
	req = testutil.WithChiURLParam(testutil.NewJSONRequest(t, "PUT", "/students/"+st.ID.Hex(), body), "id", st.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleUpdate(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", rec.Code, rec.Body.String())
	}
	var updated models.Student
	testutil.DecodeJSON(t, rec, &updated)
	if updated.LastName != "Girma" || updated.Batch != "2025" {
		t.Errorf("updated student = %+v", updated)
	}

	// DELETE
	req = testutil.WithChiURLParam(httptest.NewRequest("DELETE", "/students/"+st.ID.Hex(), nil), "id", st.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleDelete(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	// GET after delete is a 404.
	req = testutil.WithChiURLParam(httptest.NewRequest("GET", "/students/"+st.ID.Hex(), nil), "id", st.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleGet(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestHandleGet_UnknownID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := students.NewHandler(db, zap.NewNop())

	req := testutil.WithChiURLParam(httptest.NewRequest("GET", "/students/64a000000000000000000001", nil), "id", "64a000000000000000000001")
	rec := httptest.NewRecorder()
	h.HandleGet(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
