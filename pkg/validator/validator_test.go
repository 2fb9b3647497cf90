package validator

import "testing"

type slotRequest struct {
	Date     string `json:"date" validate:"required,isodate"`
	Start    string `json:"start_time" validate:"required,hhmm"`
	Timezone string `json:"timezone" validate:"omitempty,timezone"`
}

func TestCustomTags(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name  string
		req   slotRequest
		field string
	}{
		{name: "valid", req: slotRequest{Date: "2026-02-02", Start: "09:00", Timezone: "Europe/Paris"}},
		{name: "end of day", req: slotRequest{Date: "2026-02-02", Start: "24:00"}},
		{name: "bad date", req: slotRequest{Date: "2026-02-30", Start: "09:00"}, field: "date"},
		{name: "bad clock", req: slotRequest{Date: "2026-02-02", Start: "9:00"}, field: "start_time"},
		{name: "clock out of range", req: slotRequest{Date: "2026-02-02", Start: "24:30"}, field: "start_time"},
		{name: "bad timezone", req: slotRequest{Date: "2026-02-02", Start: "09:00", Timezone: "Mars/Olympus"}, field: "timezone"},
		{name: "local timezone rejected", req: slotRequest{Date: "2026-02-02", Start: "09:00", Timezone: "Local"}, field: "timezone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.req)
			if tt.field == "" {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error on %s", tt.field)
			}
			errs := v.FormatValidationErrors(err)
			if _, ok := errs[tt.field]; !ok {
				t.Fatalf("expected error keyed by %s, got %v", tt.field, errs)
			}
		})
	}
}

func TestVar(t *testing.T) {
	v := NewValidator()
	if err := v.Var("20:30", "hhmm"); err != nil {
		t.Fatalf("expected valid clock: %v", err)
	}
	if err := v.Var("20:61", "hhmm"); err == nil {
		t.Fatal("expected invalid clock")
	}
}
