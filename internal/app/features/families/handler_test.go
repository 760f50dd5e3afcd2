package families_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/dawitfm/famhub/internal/app/assign"
	"github.com/dawitfm/famhub/internal/app/features/families"
	"github.com/dawitfm/famhub/internal/domain/models"
	"github.com/dawitfm/famhub/internal/testutil"
)

func TestHandleCreate_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := families.NewHandler(db, zap.NewNop())

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"missing name", map[string]any{"batch": "2024"}, http.StatusBadRequest},
		{"missing batch", map[string]any{"name": "Abraham Family"}, http.StatusBadRequest},
		{"bad leader id", map[string]any{"name": "Abraham Family", "batch": "2024", "leaderId": "nope"}, http.StatusBadRequest},
		{
			"pair missing mother",
			map[string]any{
				"name": "Abraham Family", "batch": "2024",
				"grandParents": []map[string]any{
					{"title": "G1", "parentPairs": []map[string]any{{"fatherId": "64a000000000000000000001"}}},
				},
			},
			http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewJSONRequest(t, "POST", "/families", tt.body)
			rec := httptest.NewRecorder()
			h.HandleCreate(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestHandleGet_InvalidID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := families.NewHandler(db, zap.NewNop())

	req := testutil.WithChiURLParam(httptest.NewRequest("GET", "/families/abc", nil), "id", "abc")
	rec := httptest.NewRecorder()
	h.HandleGet(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestAutoAssignPreviewAndExecute(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := families.NewHandler(db, zap.NewNop())
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	pair, _, _ := fx.CreateParentPair(ctx, "2024", testutil.DefaultAddress)
	fam := fx.CreateFamily(ctx, "Abraham Family", "2024", pair)

	fx.CreateStudent(ctx, "Samuel", models.GenderMale, "2024", testutil.DefaultAddress)
	fx.CreateStudent(ctx, "Ruth", models.GenderFemale, "2024", testutil.DefaultAddress)

	// Preview.
	previewBody := map[string]any{"mode": "homogeneous", "targetBatch": "2024", "maxChildrenPerFamily": 4}
	req := testutil.NewJSONRequest(t, "POST", "/families/auto-assign-children", previewBody)
	rec := httptest.NewRecorder()
	h.HandleAutoAssignPreview(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("preview status = %d: %s", rec.Code, rec.Body.String())
	}

	var preview assign.PreviewResult
	testutil.DecodeJSON(t, rec, &preview)
	if len(preview.Assignments) != 2 {
		t.Fatalf("assignments = %d, want 2", len(preview.Assignments))
	}
	if preview.Statistics.TotalAssigned != 2 || preview.Statistics.FamiliesAffected != 1 {
		t.Errorf("stats = %+v, want 2 assigned in 1 family", preview.Statistics)
	}
	for _, a := range preview.Assignments {
		if a.FamilyID != fam.ID {
			t.Errorf("assignment family = %s, want %s", a.FamilyID.Hex(), fam.ID.Hex())
		}
		if a.Score < 100 {
			t.Errorf("score = %v, want exact-match score", a.Score)
		}
	}

	// Nothing written by the preview.
	var stored models.Family
	if err := db.Collection("families").FindOne(ctx, bson.M{"_id": fam.ID}).Decode(&stored); err != nil {
		t.Fatalf("reload family: %v", err)
	}
	if n := len(stored.GrandParents[0].ParentPairs[0].Children); n != 0 {
		t.Fatalf("children after preview = %d, want 0", n)
	}

	// Execute.
	req = testutil.NewJSONRequest(t, "POST", "/families/execute-auto-assign", map[string]any{"assignments": preview.Assignments})
	rec = httptest.NewRecorder()
	h.HandleExecuteAutoAssign(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("execute status = %d: %s", rec.Code, rec.Body.String())
	}

	if err := db.Collection("families").FindOne(ctx, bson.M{"_id": fam.ID}).Decode(&stored); err != nil {
		t.Fatalf("reload family: %v", err)
	}
	children := stored.GrandParents[0].ParentPairs[0].Children
	if len(children) != 2 {
		t.Fatalf("children after execute = %d, want 2", len(children))
	}
	if children[0].BirthOrder != 1 || children[1].BirthOrder != 2 {
		t.Errorf("birth orders = %d, %d, want 1, 2", children[0].BirthOrder, children[1].BirthOrder)
	}

	// Replaying the same batch must conflict and write nothing more.
	req = testutil.NewJSONRequest(t, "POST", "/families/execute-auto-assign", map[string]any{"assignments": preview.Assignments})
	rec = httptest.NewRecorder()
	h.HandleExecuteAutoAssign(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("replay status = %d, want %d: %s", rec.Code, http.StatusConflict, rec.Body.String())
	}
	if err := db.Collection("families").FindOne(ctx, bson.M{"_id": fam.ID}).Decode(&stored); err != nil {
		t.Fatalf("reload family: %v", err)
	}
	if n := len(stored.GrandParents[0].ParentPairs[0].Children); n != 2 {
		t.Errorf("children after replay = %d, want 2", n)
	}
}

func TestAutoAssignPreview_NoEligibleFamilies(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := families.NewHandler(db, zap.NewNop())
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// A family with no parent pairs and one candidate.
	fx.CreateFamily(ctx, "Empty Family", "2024")
	fx.CreateStudent(ctx, "Samuel", models.GenderMale, "2024", testutil.DefaultAddress)

	req := testutil.NewJSONRequest(t, "POST", "/families/auto-assign-children",
		map[string]any{"mode": "homogeneous", "targetBatch": "2024"})
	rec := httptest.NewRecorder()
	h.HandleAutoAssignPreview(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusBadRequest, rec.Body.String())
	}
}

func TestHandleAddChild(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := families.NewHandler(db, zap.NewNop())
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	pair, _, _ := fx.CreateParentPair(ctx, "2024", testutil.DefaultAddress)
	fam := fx.CreateFamily(ctx, "Abraham Family", "2024", pair)
	student := fx.CreateStudent(ctx, "Ruth", models.GenderFemale, "2024", testutil.DefaultAddress)

	body := map[string]any{"grandParentIndex": 0, "parentPairIndex": 0, "studentId": student.ID.Hex()}
	req := testutil.WithChiURLParam(
		testutil.NewJSONRequest(t, "POST", "/families/"+fam.ID.Hex()+"/children", body),
		"id", fam.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleAddChild(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var result assign.CommitResult
	testutil.DecodeJSON(t, rec, &result)
	if result.Relationship != models.RelationshipDaughter {
		t.Errorf("relationship = %q, want daughter", result.Relationship)
	}
	if result.BirthOrder != 1 {
		t.Errorf("birth order = %d, want 1", result.BirthOrder)
	}

	// Adding the same student again conflicts.
	req = testutil.WithChiURLParam(
		testutil.NewJSONRequest(t, "POST", "/families/"+fam.ID.Hex()+"/children", body),
		"id", fam.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleAddChild(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate add status = %d, want %d", rec.Code, http.StatusConflict)
	}
}
