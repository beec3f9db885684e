package errors

import (
	"fmt"
	"testing"

	"github.com/flowday/flowday/internal/api"
	"github.com/flowday/flowday/internal/validation"
)

func TestFormat(t *testing.T) {
	if got := Format(nil); got != "" {
		t.Errorf("Format(nil) = %q", got)
	}
	if got := Format(fmt.Errorf("boom")); got != "Error: boom" {
		t.Errorf("Format = %q", got)
	}
	if got := Formatf("meal %s missing", "m1"); got != "Error: meal m1 missing" {
		t.Errorf("Formatf = %q", got)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{
			name: "remote message verbatim",
			err:  fmt.Errorf("create habit: %w", &api.RemoteError{StatusCode: 409, Message: "Habit already exists for this meal"}),
			want: "Habit already exists for this meal",
		},
		{
			name: "remote without message",
			err:  &api.RemoteError{StatusCode: 500},
			want: "Request failed with status 500",
		},
		{
			name: "network",
			err:  &api.NetworkError{Op: "GET /api/meals", Err: fmt.Errorf("connection refused")},
			want: NetworkMessage,
		},
		{
			name: "unauthorized without server response",
			err:  fmt.Errorf("%w: no token", api.ErrUnauthorized),
			want: "Not signed in. Run 'flowday auth login <token>' first.",
		},
		{
			name: "validation",
			err: &validation.Error{Conflicts: []validation.Conflict{
				{Type: validation.ConflictInvalidWeekday, Field: "targetWeekday", Description: "invalid weekday \"someday\""},
			}},
			want: `invalid habit: targetWeekday: invalid weekday "someday"`,
		},
		{"plain", fmt.Errorf("something else"), "something else"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
