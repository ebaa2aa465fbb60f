package auth

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is an authenticated account. Demo deployments seed a fixed set; no
// user table exists.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Specialty string    `json:"specialty,omitempty"`
	PatientID string    `json:"patient_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	passwordHash []byte
}

// DemoPatientRecordID is the patient record owned by the seeded demo
// patient account.
const DemoPatientRecordID = "00000000-0000-0000-0000-000000000001"

// ValidRoles lists the roles accounts can hold.
var ValidRoles = []string{"patient", "doctor", "nurse", "admin"}

func validRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// UserStore holds accounts in memory, keyed by email.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]*User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]*User)}
}

// NewDemoStore returns a store seeded with the demo accounts.
func NewDemoStore() *UserStore {
	s := NewUserStore()
	seeded := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	demo := []struct {
		id, email, name, password, role, specialty, patientID string
	}{
		{"demo-patient-001", "demo@mediclinic.com", "Demo Patient", "demo123", "patient", "", DemoPatientRecordID},
		{"demo-doctor-001", "doctor@mediclinic.com", "Dr. Smith", "doctor123", "doctor", "Endocrinology", ""},
		{"demo-admin-001", "admin@mediclinic.com", "Administrator", "admin123", "admin", "", ""},
	}
	for _, d := range demo {
		hash, err := bcrypt.GenerateFromPassword([]byte(d.password), bcrypt.DefaultCost)
		if err != nil {
			panic(err)
		}
		s.users[d.email] = &User{
			ID:           d.id,
			Email:        d.email,
			Name:         d.name,
			Role:         d.role,
			Specialty:    d.specialty,
			PatientID:    d.patientID,
			CreatedAt:    seeded,
			passwordHash: hash,
		}
	}
	return s
}

// Authenticate verifies credentials and returns the matching user.
func (s *UserStore) Authenticate(email, password string) (*User, error) {
	s.mu.RLock()
	u, ok := s.users[email]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	cp := *u
	return &cp, nil
}

// Get returns the user with the given email.
func (s *UserStore) Get(email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[email]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	cp := *u
	return &cp, nil
}

// Register adds a new account. Demo-grade: accounts live only as long as
// the process.
func (s *UserStore) Register(email, password, name, role, specialty string) (*User, error) {
	if email == "" || password == "" || name == "" {
		return nil, fmt.Errorf("email, password and name are required")
	}
	if role == "" {
		role = "patient"
	}
	if !validRole(role) {
		return nil, fmt.Errorf("invalid role: %s", role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[email]; exists {
		return nil, fmt.Errorf("user already exists")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &User{
		ID:           fmt.Sprintf("user-%s", uuid.New().String()),
		Email:        email,
		Name:         name,
		Role:         role,
		CreatedAt:    time.Now(),
		passwordHash: hash,
	}
	if role == "doctor" && specialty != "" {
		u.Specialty = specialty
	}
	if role == "patient" {
		u.PatientID = uuid.New().String()
	}
	s.users[email] = u
	cp := *u
	return &cp, nil
}
