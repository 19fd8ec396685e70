package domain

import "testing"

func TestFormMode_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode FormMode
		want string
		open bool
	}{
		{FormNone, "none", false},
		{FormCreate, "create", true},
		{FormUpdate, "update", true},
		{FormMode(42), "none", false},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("FormMode(%d).String() = %q, want %q", tt.mode, got, tt.want)
		}
		if got := tt.mode.IsOpen(); got != tt.open {
			t.Errorf("FormMode(%d).IsOpen() = %v, want %v", tt.mode, got, tt.open)
		}
	}
}

func TestMemberRole_IsValid(t *testing.T) {
	t.Parallel()

	for _, r := range MemberRoles() {
		if !r.IsValid() {
			t.Errorf("%s should be valid", r)
		}
	}
	if MemberRole("GUEST").IsValid() {
		t.Error("GUEST should not be valid")
	}
}

func TestOrderStatus_Approvable(t *testing.T) {
	t.Parallel()

	if !OrderStatusDraft.Approvable() {
		t.Error("DRAFT orders are approvable")
	}
	if OrderStatusFixed.Approvable() {
		t.Error("FIXED orders are not approvable")
	}
}
