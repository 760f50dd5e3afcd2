// internal/app/assign/allocator_test.go
package assign

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dawitfm/famhub/internal/domain/models"
)

func TestAllocateRespectsCapacityAndUniqueness(t *testing.T) {
	father1 := testStudent(models.GenderMale, "2024", "Amhara", "North Shewa", "Debre Berhan", "Kebele 04")
	mother1 := testStudent(models.GenderFemale, "2024", "Amhara", "North Shewa", "Debre Berhan", "Kebele 04")
	father2 := testStudent(models.GenderMale, "2024", "Amhara", "North Shewa", "Debre Berhan", "Kebele 04")
	mother2 := testStudent(models.GenderFemale, "2024", "Amhara", "North Shewa", "Debre Berhan", "Kebele 04")
	cfg := Config{Mode: ModeHomogeneous, TargetBatch: "2024", MaxChildrenPerFamily: 2}

	var candidates []models.Student
	for i := 0; i < 6; i++ {
		g := models.GenderMale
		if i%2 == 1 {
			g = models.GenderFemale
		}
		candidates = append(candidates, testStudent(g, "2024", "Amhara", "North Shewa", "Debre Berhan", "Kebele 04"))
	}

	build := func() []*Slot {
		fam1, students := testFamily("Family A", false, pairOf(father1, mother1))
		fam2, _ := testFamily("Family B", false, pairOf(father2, mother2))
		for _, s := range []models.Student{father1, mother1, father2, mother2} {
			students[s.ID] = s
		}
		slots, _ := buildSlots([]models.Family{fam1, fam2}, students, cfg)
		return slots
	}

	assignments, failures := allocate(build(), candidates, cfg, testNow)
	if len(failures) != 0 {
		t.Fatalf("failures = %d, want 0", len(failures))
	}
	if len(assignments) != 4 {
		t.Fatalf("assignments = %d, want 4 (2 slots x capacity 2)", len(assignments))
	}

	perSlot := make(map[primitive.ObjectID]int)
	seenStudents := make(map[primitive.ObjectID]bool)
	for _, a := range assignments {
		perSlot[a.FamilyID]++
		if seenStudents[a.StudentID] {
			t.Errorf("student %s assigned twice", a.StudentID.Hex())
		}
		seenStudents[a.StudentID] = true
		if a.ID == "" {
			t.Error("assignment missing an id")
		}
	}
	for famID, n := range perSlot {
		if n > cfg.MaxChildrenPerFamily {
			t.Errorf("family %s got %d children, cap is %d", famID.Hex(), n, cfg.MaxChildrenPerFamily)
		}
	}
}

func TestAllocateIsDeterministic(t *testing.T) {
	father := testStudent(models.GenderMale, "2024", "Amhara", "North Shewa", "Debre Berhan", "Kebele 04")
	mother := testStudent(models.GenderFemale, "2024", "Amhara", "North Shewa", "Debre Berhan", "Kebele 04")
	cfg := Config{Mode: ModeHomogeneous, TargetBatch: "2024", MaxChildrenPerFamily: 3}

	var candidates []models.Student
	for i := 0; i < 5; i++ {
		candidates = append(candidates, testStudent(models.GenderMale, "2024", "Amhara", "North Shewa", "Debre Berhan", "Kebele 04"))
	}

	run := func() []primitive.ObjectID {
		fam, students := testFamily("Family A", false, pairOf(father, mother))
		students[father.ID] = father
		students[mother.ID] = mother
		slots, _ := buildSlots([]models.Family{fam}, students, cfg)
		assignments, _ := allocate(slots, candidates, cfg, testNow)
		out := make([]primitive.ObjectID, len(assignments))
		for i, a := range assignments {
			out[i] = a.StudentID
		}
		return out
	}

	first := run()
	for i := 0; i < 3; i++ {
		if got := run(); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d picked %v, first run picked %v", i+2, got, first)
		}
	}
}

func TestAllocateFillsEmptiestSlotFirst(t *testing.T) {
	fatherA := testStudent(models.GenderMale, "2024", "Amhara", "North Shewa", "Debre Berhan", "Kebele 04")
	motherA := testStudent(models.GenderFemale, "2024", "Amhara", "North Shewa", "Debre Berhan", "Kebele 04")
	fatherB := testStudent(models.GenderMale, "2024", "Amhara", "North Shewa", "Debre Berhan", "Kebele 04")
	motherB := testStudent(models.GenderFemale, "2024", "Amhara", "North Shewa", "Debre Berhan", "Kebele 04")
	cfg := Config{Mode: ModeHomogeneous, TargetBatch: "2024", MaxChildrenPerFamily: 2}

	kid := models.Child{StudentID: primitive.NewObjectID(), Relationship: models.RelationshipSon, BirthOrder: 1}
	famA, students := testFamily("Family A", false, pairOf(fatherA, motherA, kid))
	famB, _ := testFamily("Family B", false, pairOf(fatherB, motherB))
	for _, s := range []models.Student{fatherA, motherA, fatherB, motherB} {
		students[s.ID] = s
	}
	slots, _ := buildSlots([]models.Family{famA, famB}, students, cfg)

	// One candidate: the empty family must receive it.
	candidates := []models.Student{
		testStudent(models.GenderMale, "2024", "Amhara", "North Shewa", "Debre Berhan", "Kebele 04"),
	}
	assignments, _ := allocate(slots, candidates, cfg, testNow)
	if len(assignments) != 1 {
		t.Fatalf("assignments = %d, want 1", len(assignments))
	}
	if assignments[0].FamilyID != famB.ID {
		t.Errorf("candidate went to %s, want the empty family", assignments[0].FamilyName)
	}
}

func TestAllocateBirthOrderContinues(t *testing.T) {
	father := testStudent(models.GenderMale, "2024", "Amhara", "North Shewa", "Debre Berhan", "Kebele 04")
	mother := testStudent(models.GenderFemale, "2024", "Amhara", "North Shewa", "Debre Berhan", "Kebele 04")
	cfg := Config{Mode: ModeHomogeneous, TargetBatch: "2024", MaxChildrenPerFamily: 4}

	kids := []models.Child{
		{StudentID: primitive.NewObjectID(), Relationship: models.RelationshipSon, BirthOrder: 1},
		{StudentID: primitive.NewObjectID(), Relationship: models.RelationshipDaughter, BirthOrder: 2},
	}
	fam, students := testFamily("Family A", false, pairOf(father, mother, kids...))
	students[father.ID] = father
	students[mother.ID] = mother
	slots, _ := buildSlots([]models.Family{fam}, students, cfg)

	candidates := []models.Student{
		testStudent(models.GenderMale, "2024", "Amhara", "North Shewa", "Debre Berhan", "Kebele 04"),
		testStudent(models.GenderFemale, "2024", "Amhara", "North Shewa", "Debre Berhan", "Kebele 04"),
	}
	assignments, _ := allocate(slots, candidates, cfg, testNow)
	if len(assignments) != 2 {
		t.Fatalf("assignments = %d, want 2", len(assignments))
	}
	if assignments[0].BirthOrder != 3 || assignments[1].BirthOrder != 4 {
		t.Errorf("birth orders = %d, %d, want 3, 4", assignments[0].BirthOrder, assignments[1].BirthOrder)
	}
}

func TestAllocateSkipsExistingFamilyMembers(t *testing.T) {
	father := testStudent(models.GenderMale, "2024", "Amhara", "North Shewa", "Debre Berhan", "Kebele 04")
	mother := testStudent(models.GenderFemale, "2024", "Amhara", "North Shewa", "Debre Berhan", "Kebele 04")
	cfg := Config{Mode: ModeHomogeneous, TargetBatch: "2024", MaxChildrenPerFamily: 2}

	fam, students := testFamily("Family A", false, pairOf(father, mother))
	students[father.ID] = father
	students[mother.ID] = mother
	slots, _ := buildSlots([]models.Family{fam}, students, cfg)

	// The father himself shows up in the candidate pool.
	assignments, failures := allocate(slots, []models.Student{father}, cfg, testNow)
	if len(assignments) != 0 {
		t.Errorf("assignments = %d, want 0 (parent must not become his own child)", len(assignments))
	}
	if len(failures) != 1 {
		t.Errorf("failures = %d, want 1", len(failures))
	}
}

func TestAllocateRecordsFailures(t *testing.T) {
	father := testStudent(models.GenderMale, "2024", "Amhara", "North Shewa", "Debre Berhan", "Kebele 04")
	mother := testStudent(models.GenderFemale, "2024", "Amhara", "North Shewa", "Debre Berhan", "Kebele 04")
	cfg := Config{Mode: ModeHomogeneous, TargetBatch: "2024", MaxChildrenPerFamily: 3}

	fam, students := testFamily("Family A", false, pairOf(father, mother))
	students[father.ID] = father
	students[mother.ID] = mother
	slots, _ := buildSlots([]models.Family{fam}, students, cfg)

	candidates := []models.Student{
		testStudent(models.GenderMale, "2024", "Amhara", "North Shewa", "Debre Berhan", "Kebele 04"),
	}
	assignments, failures := allocate(slots, candidates, cfg, testNow)
	if len(assignments) != 1 {
		t.Fatalf("assignments = %d, want 1", len(assignments))
	}
	if len(failures) != 1 {
		t.Fatalf("failures = %d, want 1", len(failures))
	}
	f := failures[0]
	if f.RemainingCapacity != 2 {
		t.Errorf("remaining capacity = %d, want 2", f.RemainingCapacity)
	}
	if f.FamilyID != fam.ID {
		t.Errorf("failure family = %s, want %s", f.FamilyID.Hex(), fam.ID.Hex())
	}
}

func TestAllocateRelationshipFollowsGender(t *testing.T) {
	father := testStudent(models.GenderMale, "2024", "Amhara", "North Shewa", "Debre Berhan", "Kebele 04")
	mother := testStudent(models.GenderFemale, "2024", "Amhara", "North Shewa", "Debre Berhan", "Kebele 04")
	cfg := Config{Mode: ModeHomogeneous, TargetBatch: "2024", MaxChildrenPerFamily: 2}

	fam, students := testFamily("Family A", false, pairOf(father, mother))
	students[father.ID] = father
	students[mother.ID] = mother
	slots, _ := buildSlots([]models.Family{fam}, students, cfg)

	boy := testStudent(models.GenderMale, "2024", "Amhara", "North Shewa", "Debre Berhan", "Kebele 04")
	girl := testStudent(models.GenderFemale, "2024", "Amhara", "North Shewa", "Debre Berhan", "Kebele 04")
	assignments, _ := allocate(slots, []models.Student{boy, girl}, cfg, testNow)
	if len(assignments) != 2 {
		t.Fatalf("assignments = %d, want 2", len(assignments))
	}
	byStudent := make(map[primitive.ObjectID]string)
	for _, a := range assignments {
		byStudent[a.StudentID] = a.Relationship
	}
	if byStudent[boy.ID] != models.RelationshipSon {
		t.Errorf("boy relationship = %q, want son", byStudent[boy.ID])
	}
	if byStudent[girl.ID] != models.RelationshipDaughter {
		t.Errorf("girl relationship = %q, want daughter", byStudent[girl.ID])
	}
}

func TestComputeStatistics(t *testing.T) {
	famA := primitive.NewObjectID()
	famB := primitive.NewObjectID()
	assignments := []Assignment{
		{FamilyID: famA, StudentID: primitive.NewObjectID(), Relationship: models.RelationshipSon, Score: 100},
		{FamilyID: famA, StudentID: primitive.NewObjectID(), Relationship: models.RelationshipDaughter, Score: 50},
		{FamilyID: famB, StudentID: primitive.NewObjectID(), Relationship: models.RelationshipSon, Score: 30},
	}
	cfg := Config{Mode: ModeHomogeneous}

	stats := computeStatistics(assignments, cfg)
	if stats.TotalAssigned != 3 || stats.UniqueStudentsAssigned != 3 {
		t.Errorf("total/unique = %d/%d, want 3/3", stats.TotalAssigned, stats.UniqueStudentsAssigned)
	}
	if stats.FamiliesAffected != 2 {
		t.Errorf("families = %d, want 2", stats.FamiliesAffected)
	}
	if stats.Sons != 2 || stats.Daughters != 1 {
		t.Errorf("sons/daughters = %d/%d, want 2/1", stats.Sons, stats.Daughters)
	}
	if stats.AverageMatchQuality != 60 {
		t.Errorf("avg match quality = %v, want 60", stats.AverageMatchQuality)
	}

	het := Config{Mode: ModeHeterogeneous}
	hetAssignments := []Assignment{
		{FamilyID: famA, StudentID: primitive.NewObjectID(), Relationship: models.RelationshipSon, DiversityScore: 4},
		{FamilyID: famA, StudentID: primitive.NewObjectID(), Relationship: models.RelationshipSon, DiversityScore: 2},
	}
	stats = computeStatistics(hetAssignments, het)
	if stats.AverageDiversityScore != 3 {
		t.Errorf("avg diversity = %v, want 3", stats.AverageDiversityScore)
	}
	if stats.AverageMatchQuality != 0 {
		t.Errorf("avg match quality = %v, want 0 in heterogeneous mode", stats.AverageMatchQuality)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid homogeneous", Config{Mode: ModeHomogeneous, TargetBatch: "2024"}, false},
		{"valid heterogeneous", Config{Mode: ModeHeterogeneous, TargetBatch: "2024"}, false},
		{"missing mode", Config{TargetBatch: "2024"}, true},
		{"unknown mode", Config{Mode: "random", TargetBatch: "2024"}, true},
		{"missing batch", Config{Mode: ModeHomogeneous}, true},
		{"negative cap", Config{Mode: ModeHomogeneous, TargetBatch: "2024", MaxChildrenPerFamily: -1}, true},
		{"bad address level", Config{Mode: ModeHomogeneous, TargetBatch: "2024", AddressLevel: "village"}, true},
		{"good address level", Config{Mode: ModeHomogeneous, TargetBatch: "2024", AddressLevel: LevelZone}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := cfg.validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsValidation(err) {
				t.Errorf("error %v is not a validation error", err)
			}
			if err == nil && cfg.MaxChildrenPerFamily == 0 {
				t.Error("validate did not default MaxChildrenPerFamily")
			}
		})
	}
}

func TestCommitInputValidation(t *testing.T) {
	e := &Engine{log: zap.NewNop()}

	if _, err := e.Commit(nil, nil); !IsValidation(err) {
		t.Errorf("empty batch: error = %v, want validation error", err)
	}

	dup := primitive.NewObjectID()
	batch := []Assignment{
		{FamilyID: primitive.NewObjectID(), StudentID: dup},
		{FamilyID: primitive.NewObjectID(), StudentID: dup},
	}
	if _, err := e.Commit(nil, batch); !IsValidation(err) {
		t.Errorf("duplicate student: error = %v, want validation error", err)
	}

	missing := []Assignment{{StudentID: primitive.NewObjectID()}}
	if _, err := e.Commit(nil, missing); !IsValidation(err) {
		t.Errorf("zero family id: error = %v, want validation error", err)
	}
}
