package store

import (
	"context"
	"errors"
	"testing"
)

func TestCreateUserRejectsDuplicateUsername(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, "alice", "hash1"); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	_, err := s.CreateUser(ctx, "alice", "hash2")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("duplicate CreateUser() error = %v, want ErrUsernameTaken", err)
	}
}

func TestSaveOnboardingSetsFlagAndProfileTogether(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "bob", "hash")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if user.HasOnboarded {
		t.Fatalf("new user must not be onboarded")
	}
	if _, err := s.Profile(ctx, user.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Profile() before onboarding error = %v, want ErrNotFound", err)
	}

	err = s.SaveOnboarding(ctx, ProfileRecord{
		UserID:   user.ID,
		FullName: "Bob Example",
		Analysis: "<h2>Summary</h2>",
	})
	if err != nil {
		t.Fatalf("SaveOnboarding() error = %v", err)
	}

	got, err := s.UserByUsername(ctx, "bob")
	if err != nil {
		t.Fatalf("UserByUsername() error = %v", err)
	}
	if !got.HasOnboarded {
		t.Fatalf("HasOnboarded = false after SaveOnboarding")
	}

	profile, err := s.Profile(ctx, user.ID)
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if profile.Analysis != "<h2>Summary</h2>" {
		t.Fatalf("Analysis = %q, want persisted analysis", profile.Analysis)
	}
}

func TestSaveOnboardingUnknownUser(t *testing.T) {
	s := NewInMemoryStore()
	err := s.SaveOnboarding(context.Background(), ProfileRecord{UserID: "ghost"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("SaveOnboarding() error = %v, want ErrNotFound", err)
	}
}

func TestUpdateProfileTouchesEditableSubsetOnly(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "carol", "hash")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if err := s.SaveOnboarding(ctx, ProfileRecord{
		UserID:     user.ID,
		FullName:   "Carol",
		SoftSkills: "empathy",
		Analysis:   "analysis",
	}); err != nil {
		t.Fatalf("SaveOnboarding() error = %v", err)
	}

	err = s.UpdateProfile(ctx, user.ID, ProfileUpdate{
		FullName:    "Carol Q.",
		Age:         31,
		Education:   "MSc",
		CurrentRole: "Data Engineer",
		HardSkills:  "Go, SQL",
		DreamGoal:   "Staff engineer",
	})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}

	p, err := s.Profile(ctx, user.ID)
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if p.FullName != "Carol Q." || p.Age != 31 || p.HardSkills != "Go, SQL" {
		t.Fatalf("updated fields not applied: %+v", p)
	}
	if p.SoftSkills != "empathy" || p.Analysis != "analysis" {
		t.Fatalf("non-editable fields must be preserved: %+v", p)
	}
}

func TestUpdateProfileWithoutOnboarding(t *testing.T) {
	s := NewInMemoryStore()
	err := s.UpdateProfile(context.Background(), "ghost", ProfileUpdate{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdateProfile() error = %v, want ErrNotFound", err)
	}
}
