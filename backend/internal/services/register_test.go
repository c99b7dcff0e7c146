package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Nienta-PK/taskmanager/backend/internal/clock"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		valid    bool
	}{
		{"Str0ng!pass", true},
		{"Sh0rt!", false},
		{"nosymbol1A", false},
		{"NOLOWER1!", false},
		{"noupper1!", false},
		{"NoDigits!!", false},
		{"Percent%1a", false},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestRegisterUser(t *testing.T) {
	store := newFakeUserStore()
	svc := NewRegisterService(store, clock.Fixed(testNow))

	user, err := svc.RegisterUser(context.Background(), RegistrationRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "Str0ng!pass",
	})
	if err != nil {
		t.Fatalf("RegisterUser() error: %v", err)
	}

	if user.UserID == 0 || !user.IsActive || user.IsAdmin {
		t.Errorf("unexpected user: %+v", user)
	}
	if user.Password == "Str0ng!pass" || !VerifyPassword(user.Password, "Str0ng!pass") {
		t.Error("password must be stored as a bcrypt hash")
	}
	if !user.CreatedAt.Equal(testNow) {
		t.Errorf("created_at = %v, want %v", user.CreatedAt, testNow)
	}
}

func TestRegisterUser_Rejections(t *testing.T) {
	store := newFakeUserStore(user(1, "alice", testNow, false))
	svc := NewRegisterService(store, clock.Fixed(testNow))

	tests := []struct {
		name    string
		req     RegistrationRequest
		wantErr error
	}{
		{"duplicate email", RegistrationRequest{"alice2", "alice@example.com", "Str0ng!pass"}, ErrConflict},
		{"duplicate username", RegistrationRequest{"alice", "other@example.com", "Str0ng!pass"}, ErrConflict},
		{"weak password", RegistrationRequest{"bob", "bob@example.com", "weakpass"}, ErrValidation},
		{"bad email", RegistrationRequest{"bob", "bob@", "Str0ng!pass"}, ErrValidation},
		{"short username", RegistrationRequest{"bo", "bob@example.com", "Str0ng!pass"}, ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.RegisterUser(context.Background(), tt.req); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
