package config

import "testing"

func TestPlanLimits(t *testing.T) {
	tests := []struct {
		plan  Plan
		limit int64
	}{
		{PlanPro, 44_000},
		{PlanMax5, 88_000},
		{PlanMax20, 220_000},
	}
	for _, tt := range tests {
		if got := tt.plan.Limit(); got != tt.limit {
			t.Errorf("%s limit = %d, want %d", tt.plan, got, tt.limit)
		}
	}
}

func TestPlanCycleOrder(t *testing.T) {
	if PlanPro.Next() != PlanMax5 || PlanMax5.Next() != PlanMax20 || PlanMax20.Next() != PlanPro {
		t.Error("plan cycle order broken")
	}
	// Unknown plans restart the cycle.
	if Plan("bogus").Next() != PlanPro {
		t.Error("unknown plan should cycle to the first plan")
	}
}

func TestSetPlan_Persists(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if _, err := SetPlan("max5"); err != nil {
		t.Fatalf("SetPlan: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ActivePlan(cfg) != PlanMax5 {
		t.Errorf("active plan = %s, want max5", ActivePlan(cfg))
	}
}

func TestSetPlan_RejectsUnknown(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if _, err := SetPlan("max5"); err != nil {
		t.Fatalf("SetPlan: %v", err)
	}
	if _, err := SetPlan("enterprise"); err == nil {
		t.Fatal("expected error for unknown plan")
	}

	// The stored value must be untouched by the rejected write.
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ActivePlan(cfg) != PlanMax5 {
		t.Errorf("active plan = %s, want max5 after rejected write", ActivePlan(cfg))
	}
}

func TestCyclePlan(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	// Default is pro; one cycle lands on max5.
	plan, err := CyclePlan()
	if err != nil {
		t.Fatalf("CyclePlan: %v", err)
	}
	if plan != PlanMax5 {
		t.Errorf("cycled to %s, want max5", plan)
	}

	plan, err = CyclePlan()
	if err != nil {
		t.Fatalf("CyclePlan: %v", err)
	}
	if plan != PlanMax20 {
		t.Errorf("cycled to %s, want max20", plan)
	}
}

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ActivePlan(cfg) != PlanPro {
		t.Errorf("default plan = %s, want pro", ActivePlan(cfg))
	}
	if cfg.General.SessionLimit != 200 {
		t.Errorf("default session limit = %d, want 200", cfg.General.SessionLimit)
	}
}
