package workout

import (
	"errors"
	"reflect"
	"testing"
)

// TestResolveQuotas verifies quota maps are resolved into catalog area order
// so map iteration order never leaks into allocation.
func TestResolveQuotas(t *testing.T) {
	cat := testCatalog(t, planRecords())

	quotas, err := resolveQuotas(cat, map[string]int{"Upper": 1, "Abs": 3, "Legs": 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []AreaQuota{{Area: "Abs", Count: 3}, {Area: "Legs", Count: 2}, {Area: "Upper", Count: 1}}
	if !reflect.DeepEqual(quotas, want) {
		t.Errorf("quotas = %v, want %v", quotas, want)
	}
}

// TestResolveQuotasSubset verifies areas absent from the map are simply
// skipped.
func TestResolveQuotasSubset(t *testing.T) {
	cat := testCatalog(t, planRecords())

	quotas, err := resolveQuotas(cat, map[string]int{"Legs": 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []AreaQuota{{Area: "Legs", Count: 4}}
	if !reflect.DeepEqual(quotas, want) {
		t.Errorf("quotas = %v, want %v", quotas, want)
	}
}

// TestResolveQuotasUnknownArea verifies an unknown key is rejected up front.
func TestResolveQuotasUnknownArea(t *testing.T) {
	cat := testCatalog(t, planRecords())

	_, err := resolveQuotas(cat, map[string]int{"Arms": 2})
	var uae *UnknownAreaError
	if !errors.As(err, &uae) {
		t.Fatalf("error = %v, want UnknownAreaError", err)
	}
	if uae.Area != "Arms" {
		t.Errorf("UnknownAreaError.Area = %q, want Arms", uae.Area)
	}
}

// TestPlanRowRoundTrip verifies the storage row conversion preserves a plan
// record.
func TestPlanRowRoundTrip(t *testing.T) {
	rec := &PlanRecord{
		Coverage: true,
		Plan: &Plan{
			Labels: []string{"mean", "Legs", "Abs"},
			Days: []Day{
				{Level: 3, Mean: 3.5, Status: StatusSatisfied, Exercises: []string{"Squats", "Crunches"}},
				{Level: 4, Mean: 4, Status: StatusRelaxed, Exercises: []string{"Lunges", "Plank"}},
			},
		},
	}

	row := planToRow(rec)
	got := rowToPlan(&row)
	if !reflect.DeepEqual(got, rec) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, rec)
	}
}
