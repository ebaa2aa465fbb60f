package auth

import (
	"testing"
	"time"
)

func testUser() *User {
	return &User{ID: "u1", Email: "jane@example.com", Name: "Jane", Role: "doctor"}
}

func TestIssuer_AccessRoundTrip(t *testing.T) {
	issuer := NewIssuer("test-secret", 30*time.Minute)
	token, err := issuer.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := issuer.VerifyAccess(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Subject != "jane@example.com" || claims.UserID != "u1" || claims.Role != "doctor" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestIssuer_RefreshIsNotAccess(t *testing.T) {
	issuer := NewIssuer("test-secret", 30*time.Minute)
	refresh, err := issuer.IssueRefresh(testUser())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := issuer.VerifyAccess(refresh); err == nil {
		t.Error("refresh token must not pass access verification")
	}
	if _, err := issuer.VerifyRefresh(refresh); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestIssuer_RejectsExpired(t *testing.T) {
	issuer := NewIssuer("test-secret", -time.Minute)
	token, err := issuer.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := issuer.VerifyAccess(token); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestIssuer_RejectsWrongSecret(t *testing.T) {
	token, err := NewIssuer("secret-a", 30*time.Minute).IssueAccess(testUser())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewIssuer("secret-b", 30*time.Minute).VerifyAccess(token); err == nil {
		t.Error("expected token signed with other secret to be rejected")
	}
}

func TestIssuer_RejectsGarbage(t *testing.T) {
	issuer := NewIssuer("test-secret", 30*time.Minute)
	if _, err := issuer.VerifyAccess("not.a.token"); err == nil {
		t.Error("expected parse error")
	}
}

func TestIssuer_CarriesPatientLinkage(t *testing.T) {
	issuer := NewIssuer("test-secret", 30*time.Minute)
	u := &User{ID: "u2", Email: "pat@example.com", Name: "Pat", Role: "patient", PatientID: DemoPatientRecordID}

	token, err := issuer.IssueAccess(u)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := issuer.VerifyAccess(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.PatientID != DemoPatientRecordID {
		t.Errorf("expected patient id %s, got %s", DemoPatientRecordID, claims.PatientID)
	}
}
