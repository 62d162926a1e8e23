package domain

import (
	"reflect"
	"testing"
)

func slotErrCode(t *testing.T, err error) ErrorCode {
	t.Helper()
	if err == nil {
		t.Fatal("Expected a domain error, got nil")
	}
	de, ok := err.(*Error)
	if !ok {
		t.Fatalf("Expected *domain.Error, got %T: %v", err, err)
	}
	return de.Code
}

func TestValidateSlots_Valid(t *testing.T) {
	slots := []SlotInput{
		{DayOfWeek: 0, StartTime: "09:00", EndTime: "10:00"},
		{DayOfWeek: 0, StartTime: "10:00", EndTime: "11:00"},
		{DayOfWeek: 3, StartTime: "18:30", EndTime: "20:00"},
	}

	out, err := ValidateSlots(slots)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !reflect.DeepEqual(out, slots) {
		t.Errorf("Expected output to equal input, got %v", out)
	}
}

func TestValidateSlots_Idempotent(t *testing.T) {
	slots := []SlotInput{
		{DayOfWeek: 2, StartTime: "12:00", EndTime: "13:30"},
		{DayOfWeek: 2, StartTime: "14:00", EndTime: "15:00"},
	}

	first, err := ValidateSlots(slots)
	if err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	second, err := ValidateSlots(first)
	if err != nil {
		t.Fatalf("Re-validating validator output failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Validator is not idempotent: %v != %v", first, second)
	}
}

func TestValidateSlots_Empty(t *testing.T) {
	out, err := ValidateSlots(nil)
	if err != nil {
		t.Fatalf("Expected no error for empty input, got %v", err)
	}
	if out != nil {
		t.Errorf("Expected nil output for empty input, got %v", out)
	}
}

func TestValidateSlots_Errors(t *testing.T) {
	tests := []struct {
		name  string
		slots []SlotInput
		code  ErrorCode
	}{
		{
			name:  "day below range",
			slots: []SlotInput{{DayOfWeek: -1, StartTime: "09:00", EndTime: "10:00"}},
			code:  CodeInvalidSlotRange,
		},
		{
			name:  "weekend day rejected",
			slots: []SlotInput{{DayOfWeek: 5, StartTime: "09:00", EndTime: "10:00"}},
			code:  CodeInvalidSlotRange,
		},
		{
			name:  "start equals end",
			slots: []SlotInput{{DayOfWeek: 1, StartTime: "09:00", EndTime: "09:00"}},
			code:  CodeInvalidSlotOrder,
		},
		{
			name:  "start after end",
			slots: []SlotInput{{DayOfWeek: 1, StartTime: "11:00", EndTime: "10:00"}},
			code:  CodeInvalidSlotOrder,
		},
		{
			name:  "unparseable time",
			slots: []SlotInput{{DayOfWeek: 1, StartTime: "late", EndTime: "10:00"}},
			code:  CodeInvalidSlotOrder,
		},
		{
			name: "exact duplicate",
			slots: []SlotInput{
				{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"},
				{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"},
			},
			code: CodeDuplicateSlot,
		},
		{
			name: "overlap on same day",
			slots: []SlotInput{
				{DayOfWeek: 0, StartTime: "09:00", EndTime: "10:30"},
				{DayOfWeek: 0, StartTime: "10:00", EndTime: "11:00"},
			},
			code: CodeOverlappingSlot,
		},
		{
			name: "overlap detected regardless of submission order",
			slots: []SlotInput{
				{DayOfWeek: 0, StartTime: "10:00", EndTime: "11:00"},
				{DayOfWeek: 0, StartTime: "09:00", EndTime: "10:30"},
			},
			code: CodeOverlappingSlot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateSlots(tt.slots)
			if got := slotErrCode(t, err); got != tt.code {
				t.Errorf("Expected code %s, got %s", tt.code, got)
			}
		})
	}
}

func TestValidateSlots_TouchingBoundariesAllowed(t *testing.T) {
	slots := []SlotInput{
		{DayOfWeek: 0, StartTime: "09:00", EndTime: "10:00"},
		{DayOfWeek: 0, StartTime: "10:00", EndTime: "11:00"},
	}
	if _, err := ValidateSlots(slots); err != nil {
		t.Errorf("Touching boundaries must not count as overlap, got %v", err)
	}

	// Same windows on different days never interact
	slots = []SlotInput{
		{DayOfWeek: 0, StartTime: "09:00", EndTime: "10:30"},
		{DayOfWeek: 1, StartTime: "10:00", EndTime: "11:00"},
	}
	if _, err := ValidateSlots(slots); err != nil {
		t.Errorf("Slots on different days must not overlap, got %v", err)
	}
}
