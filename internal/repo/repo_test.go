package repo

import (
	"errors"
	"testing"
	"time"

	"teportal/internal/models"
	"teportal/internal/store"
	"teportal/internal/validation"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()
	s := store.NewMemory()
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time {
		now = now.Add(time.Second)
		return now
	})
	return s
}

func validAllocation(createdBy string) *models.Allocation {
	return &models.Allocation{
		TrialID:          "NN1234",
		System:           "INFORM",
		TestEngineerName: "Jane Doe",
		Role:             "TE1",
		TrialCategory:    "Build",
		TherapeuticArea:  "Obesity",
		Activity:         "Forms testing",
		StartDate:        "2026-03-01",
		EndDate:          "2026-03-31",
		CreatedBy:        createdBy,
	}
}

func TestCreateAssignsIDAndTimestamps(t *testing.T) {
	r := NewAllocations(testStore(t))

	created, err := r.Create(validAllocation("jane"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" {
		t.Error("expected assigned id")
	}
	if created.CreatedAt == "" || created.UpdatedAt == "" {
		t.Error("expected timestamps set")
	}
	if created.TrialCategoryType != "Build" {
		t.Errorf("expected derived category type, got %q", created.TrialCategoryType)
	}

	all, err := r.All()
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 record, got %d", len(all))
	}
}

func TestCreateValidationFailureWritesNothing(t *testing.T) {
	r := NewAllocations(testStore(t))

	bad := validAllocation("jane")
	bad.TrialID = ""
	bad.System = "NOT_A_SYSTEM"
	if _, err := r.Create(bad); err == nil {
		t.Fatal("expected validation error")
	} else {
		var ve *validation.ValidationErrors
		if !errors.As(err, &ve) {
			t.Fatalf("expected ValidationErrors, got %T", err)
		}
		if len(ve.Errors) < 2 {
			t.Errorf("expected all violations reported together, got %+v", ve.Errors)
		}
	}

	all, err := r.All()
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("validation failure must not write, found %d records", len(all))
	}
}

func TestUpdateMergesPartialPatch(t *testing.T) {
	r := NewAllocations(testStore(t))
	created, err := r.Create(validAllocation("jane"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := r.Update(created.ID, map[string]any{"activity": "Editchecks testing"}, "admin")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Activity != "Editchecks testing" {
		t.Errorf("patched field not applied: %q", updated.Activity)
	}
	if updated.TrialID != "NN1234" || updated.TestEngineerName != "Jane Doe" {
		t.Error("unpatched fields must survive the merge")
	}
	if updated.UpdatedBy != "admin" {
		t.Errorf("expected updated_by stamp, got %q", updated.UpdatedBy)
	}
	if updated.CreatedBy != "jane" || updated.CreatedAt != created.CreatedAt {
		t.Error("created_by/created_at must not change on update")
	}
	if updated.UpdatedAt == created.UpdatedAt {
		t.Error("expected updated_at to advance")
	}
}

func TestUpdateEmptyPatchTouchesOnlyUpdatedAt(t *testing.T) {
	r := NewAllocations(testStore(t))
	created, err := r.Create(validAllocation("jane"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	before := *created

	updated, err := r.Update(created.ID, map[string]any{}, "")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.UpdatedAt == before.UpdatedAt {
		t.Error("expected updated_at to advance")
	}
	updated.UpdatedAt = before.UpdatedAt
	if *updated != before {
		t.Errorf("empty patch changed more than updated_at:\nbefore %+v\nafter  %+v", before, *updated)
	}
}

func TestUpdateLeavesCallerPatchUntouched(t *testing.T) {
	r := NewAllocations(testStore(t))
	created, err := r.Create(validAllocation("jane"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	patch := map[string]any{"activity": "Editchecks testing"}
	if _, err := r.Update(created.ID, patch, "admin"); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if len(patch) != 1 {
		t.Errorf("caller's patch map was mutated: %+v", patch)
	}
	if _, ok := patch["updated_by"]; ok {
		t.Error("updated_by stamp leaked into the caller's map")
	}
}

func TestUpdateProtectsIdentityFields(t *testing.T) {
	r := NewAllocations(testStore(t))
	created, err := r.Create(validAllocation("jane"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := r.Update(created.ID, map[string]any{
		"id":         "hijacked",
		"created_by": "mallory",
		"created_at": "1999-01-01 00:00:00",
	}, "mallory")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.ID != created.ID || updated.CreatedBy != "jane" || updated.CreatedAt != created.CreatedAt {
		t.Errorf("protected fields were overwritten: %+v", updated)
	}
}

func TestUpdateRevalidatesMergedRecord(t *testing.T) {
	r := NewAllocations(testStore(t))
	created, err := r.Create(validAllocation("jane"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := r.Update(created.ID, map[string]any{"system": "BOGUS"}, "jane"); err == nil {
		t.Fatal("expected validation error on merged record")
	}

	// The stored record must be unchanged.
	stored, err := r.GetByID(created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.System != "INFORM" {
		t.Errorf("failed update must not persist, got system %q", stored.System)
	}
}

func TestUpdateNotFound(t *testing.T) {
	r := NewAllocations(testStore(t))
	if _, err := r.Update("nonexistent-id", map[string]any{"activity": "x"}, "jane"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteNonexistentLeavesCollectionUnchanged(t *testing.T) {
	r := NewAllocations(testStore(t))
	if _, err := r.Create(validAllocation("jane")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err := r.Delete("nonexistent-id")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err.Error() != "record not found" {
		t.Errorf("unexpected message: %q", err.Error())
	}

	all, _ := r.All()
	if len(all) != 1 {
		t.Errorf("collection length changed on failed delete: %d", len(all))
	}
}

func TestDeleteRemovesRecord(t *testing.T) {
	r := NewAllocations(testStore(t))
	created, err := r.Create(validAllocation("jane"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := r.Delete(created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := r.GetByID(created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestScopedListStandardRoleSeesOwnOnly(t *testing.T) {
	r := NewAllocations(testStore(t))
	if _, err := r.Create(validAllocation("jane")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := r.Create(validAllocation("bob")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	own, err := r.ScopedList("user", "jane", nil)
	if err != nil {
		t.Fatalf("ScopedList failed: %v", err)
	}
	if len(own) != 1 || own[0].CreatedBy != "jane" {
		t.Errorf("standard role should see own records only: %+v", own)
	}

	for _, role := range []string{"superuser", "admin", "manager"} {
		all, err := r.ScopedList(role, "jane", nil)
		if err != nil {
			t.Fatalf("ScopedList(%s) failed: %v", role, err)
		}
		if len(all) != 2 {
			t.Errorf("role %s should see all records, got %d", role, len(all))
		}
	}
}

func TestQualityRecordFailureInvariant(t *testing.T) {
	r := NewQualityRecords(testStore(t))

	rec := &models.QualityRecord{
		TrialID:           "NN1234",
		Phase:             "UAT",
		NoOfUATPlans:      1,
		NoOfRounds:        3,
		TypeOfRequirement: "Forms",
		CurrentRound:      1,
		TotalRequirements: 10,
		TotalFailures:     15,
		CreatedBy:         "jane",
	}
	if _, err := r.Create(rec); err == nil {
		t.Fatal("expected validation error when failures exceed requirements")
	}

	all, _ := r.All()
	if len(all) != 0 {
		t.Errorf("invalid record must not be written, found %d", len(all))
	}
}

func TestQualityRecordDerivesDefectDensity(t *testing.T) {
	r := NewQualityRecords(testStore(t))

	created, err := r.Create(&models.QualityRecord{
		TrialID:           "NN1234",
		Phase:             "UAT",
		NoOfUATPlans:      1,
		NoOfRounds:        1,
		TypeOfRequirement: "Forms",
		CurrentRound:      1,
		TotalRequirements: 20,
		TotalFailures:     5,
		DefectDensity:     99, // client value is ignored
		CreatedBy:         "jane",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.DefectDensity != 25 {
		t.Errorf("expected derived density 25, got %v", created.DefectDensity)
	}
}

func TestUATActualDatesStayNull(t *testing.T) {
	s := testStore(t)
	r := NewUATRecords(s)

	created, err := r.Create(&models.UATRecord{
		TrialID:          "NN1234",
		UATRound:         "Round 1",
		Category:         "Build",
		PlannedStartDate: "2026-03-01",
		PlannedEndDate:   "2026-03-10",
		CreatedBy:        "jane",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ActualStartDate != nil || created.ActualEndDate != nil {
		t.Error("absent actual dates must stay nil")
	}

	// Read back through the raw collection: the JSON must carry null,
	// never "".
	reread, err := r.GetByID(created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if reread.ActualStartDate != nil || reread.ActualEndDate != nil {
		t.Error("actual dates must read back as null")
	}

	// An empty string patch normalizes back to null.
	updated, err := r.Update(created.ID, map[string]any{"actual_start_date": ""}, "jane")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.ActualStartDate != nil {
		t.Errorf("empty actual date should normalize to nil, got %q", *updated.ActualStartDate)
	}
}

func TestTrailDocumentApprovalVariants(t *testing.T) {
	r := NewTrailDocuments(testStore(t))

	te1 := "2026-03-01"
	ctdm := "2026-03-02"
	created, err := r.Create(&models.TrailDocument{
		Trail:            "NN1234",
		Category:         "Build",
		TE1:              "Jane",
		TE2:              "Bob",
		DocumentName:     "UAT Summary",
		TEDocument:       "Yes",
		UATRound:         "Round 1",
		TMFVaultID:       "TMF-001",
		TE1ApprovalDate:  &te1,
		CTDMApprovalDate: &ctdm, // inapplicable for the TE variant
		GoLiveDate:       "2026-04-01",
		CreatedBy:        "jane",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.CTDMApprovalDate != nil {
		t.Error("TE document must clear the CTDM approval date")
	}
	if created.TE1ApprovalDate == nil || *created.TE1ApprovalDate != te1 {
		t.Error("TE1 approval date lost")
	}

	// Change Request category requires a CR number.
	_, err = r.Create(&models.TrailDocument{
		Trail:        "NN1234",
		Category:     "Change Request",
		DocumentName: "CR Doc",
		TEDocument:   "No",
		UATRound:     "Round 1",
		CreatedBy:    "jane",
	})
	if err == nil {
		t.Fatal("expected cr_number requirement for Change Request category")
	}
}

func TestUsersSeedAndGuard(t *testing.T) {
	s := testStore(t)
	u := NewUsers(s)

	if err := u.SeedDefault("hashed"); err != nil {
		t.Fatalf("SeedDefault failed: %v", err)
	}
	admin, err := u.Get(DefaultSuperuser)
	if err != nil {
		t.Fatalf("Get superuser failed: %v", err)
	}
	if admin.Role != "superuser" || admin.Status != "active" {
		t.Errorf("unexpected seeded account: %+v", admin)
	}

	// Seeding twice must not overwrite.
	if err := u.SeedDefault("other-hash"); err != nil {
		t.Fatalf("second SeedDefault failed: %v", err)
	}
	again, _ := u.Get(DefaultSuperuser)
	if again.Password != "hashed" {
		t.Error("reseed overwrote existing superuser")
	}

	if err := u.Delete(DefaultSuperuser); !errors.Is(err, ErrSuperuserProtected) {
		t.Errorf("expected superuser delete guard, got %v", err)
	}
}

func TestUsersCreateDuplicate(t *testing.T) {
	u := NewUsers(testStore(t))

	acct := models.User{Password: "hash", Email: "jane@example.com", Role: "user"}
	if err := u.Create("jane", acct); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := u.Create("jane", acct); err == nil {
		t.Fatal("expected duplicate username rejection")
	}
}

func TestPendingUsersLifecycle(t *testing.T) {
	p := NewPendingUsers(testStore(t))

	reg := models.PendingUser{
		Username:      "newbie",
		Password:      "hash",
		Email:         "newbie@example.com",
		RequestedRole: "user",
	}
	if err := p.Add(reg); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := p.Add(reg); err == nil {
		t.Fatal("expected duplicate pending registration rejection")
	}

	got, err := p.Get("newbie")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != "pending" || got.RequestedAt == "" {
		t.Errorf("unexpected pending defaults: %+v", got)
	}

	if err := p.Remove("newbie"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := p.Remove("newbie"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second remove, got %v", err)
	}
}

func TestAuditLogsAppendOnly(t *testing.T) {
	a := NewAuditLogs(testStore(t))

	first, err := a.Append("jane", "CREATE", "allocations", "Created allocation", map[string]any{"record_id": "x"})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	second, err := a.Append("jane", "DELETE", "allocations", "Deleted allocation", nil)
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if first.ID == second.ID {
		t.Error("audit ids must be unique")
	}
	if first.Timestamp == "" {
		t.Error("expected timestamp on audit entry")
	}

	entries, err := a.List(nil)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 || entries[0].Action != "CREATE" || entries[1].Action != "DELETE" {
		t.Errorf("expected append order preserved, got %+v", entries)
	}
}
