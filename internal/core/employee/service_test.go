// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package employee_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/staffhub/internal/core/employee"
	"github.com/taibuivan/staffhub/internal/platform/apperr"
)

type fakeEmployeeRepo struct {
	records map[int]*employee.Employee
	nextID  int
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{records: map[int]*employee.Employee{}, nextID: 1}
}

func (r *fakeEmployeeRepo) List(_ context.Context, f employee.Filter, _ string, _, _ int) ([]*employee.Employee, int, error) {
	result := make([]*employee.Employee, 0, len(r.records))
	for _, record := range r.records {
		if f.Department != "" && record.Department != f.Department {
			continue
		}
		if f.Query != "" && !strings.Contains(record.FullName, f.Query) && !strings.Contains(record.Email, f.Query) {
			continue
		}
		copied := *record
		result = append(result, &copied)
	}
	return result, len(result), nil
}

func (r *fakeEmployeeRepo) Get(_ context.Context, id int) (*employee.Employee, error) {
	record, ok := r.records[id]
	if !ok {
		return nil, apperr.NotFound("Employee")
	}
	copied := *record
	return &copied, nil
}

func (r *fakeEmployeeRepo) FindByUserID(_ context.Context, userID int) (*employee.Employee, error) {
	for _, record := range r.records {
		if record.UserID != nil && *record.UserID == userID {
			copied := *record
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Employee")
}

func (r *fakeEmployeeRepo) Create(_ context.Context, e *employee.Employee) error {
	for _, record := range r.records {
		if record.Email == e.Email {
			return apperr.Conflict("An employee record with this email already exists")
		}
	}
	e.ID = r.nextID
	r.nextID++
	e.CreatedAt = time.Now()
	copied := *e
	r.records[e.ID] = &copied
	return nil
}

func (r *fakeEmployeeRepo) Update(_ context.Context, e *employee.Employee) error {
	if _, ok := r.records[e.ID]; !ok {
		return apperr.NotFound("Employee")
	}
	copied := *e
	r.records[e.ID] = &copied
	return nil
}

func (r *fakeEmployeeRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.records[id]; !ok {
		return apperr.NotFound("Employee")
	}
	delete(r.records, id)
	return nil
}

func (r *fakeEmployeeRepo) ClaimByEmail(_ context.Context, userID int, email string) (*employee.Employee, error) {
	for _, record := range r.records {
		if record.Email == email && record.UserID == nil {
			record.UserID = &userID
			copied := *record
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Employee")
}

func (r *fakeEmployeeRepo) Provision(_ context.Context, e *employee.Employee) error {
	if e.UserID != nil {
		if existing, err := r.FindByUserID(context.Background(), *e.UserID); err == nil {
			*e = *existing
			return nil
		}
	}
	return r.Create(context.Background(), e)
}

func newEmployeeService(repo employee.Repository) *employee.Service {
	return employee.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

/*
TestResolveOwned_ExistingLink returns the already-linked record untouched.
*/
func TestResolveOwned_ExistingLink(t *testing.T) {
	repo := newFakeEmployeeRepo()
	service := newEmployeeService(repo)

	userID := 5
	require.NoError(t, repo.Create(context.Background(), &employee.Employee{
		UserID:   &userID,
		Email:    "linked@staffhub.app",
		FullName: "Linked Person",
	}))

	record, err := service.ResolveOwned(context.Background(), 5, "linked@staffhub.app")
	require.NoError(t, err)
	assert.Equal(t, "Linked Person", record.FullName)
	require.NotNil(t, record.UserID)
	assert.Equal(t, 5, *record.UserID)
}

/*
TestResolveOwned_ClaimsByEmail links an unowned record whose email matches
the account instead of creating a duplicate.
*/
func TestResolveOwned_ClaimsByEmail(t *testing.T) {
	repo := newFakeEmployeeRepo()
	service := newEmployeeService(repo)

	require.NoError(t, repo.Create(context.Background(), &employee.Employee{
		Email:    "unowned@staffhub.app",
		FullName: "Pre-seeded Record",
	}))

	record, err := service.ResolveOwned(context.Background(), 9, "unowned@staffhub.app")
	require.NoError(t, err)
	assert.Equal(t, "Pre-seeded Record", record.FullName)
	require.NotNil(t, record.UserID)
	assert.Equal(t, 9, *record.UserID)
	assert.Len(t, repo.records, 1, "claim must not create a second record")
}

/*
TestResolveOwned_Provisions creates a minimal record when neither a link nor
a claimable email match exists, and is stable across repeated calls.
*/
func TestResolveOwned_Provisions(t *testing.T) {
	repo := newFakeEmployeeRepo()
	service := newEmployeeService(repo)

	first, err := service.ResolveOwned(context.Background(), 3, "new@staffhub.app")
	require.NoError(t, err)
	assert.Equal(t, "new@staffhub.app", first.Email)
	assert.Equal(t, "new@staffhub.app", first.FullName, "full name defaults to the email")

	second, err := service.ResolveOwned(context.Background(), 3, "new@staffhub.app")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.records, 1)
}

/*
TestResolveOwned_OwnedRecordConflicts verifies a record already owned by
someone else is never stolen via email match, and that resolution surfaces a
conflict instead of provisioning a duplicate of the email.
*/
func TestResolveOwned_OwnedRecordConflicts(t *testing.T) {
	repo := newFakeEmployeeRepo()
	service := newEmployeeService(repo)

	otherUser := 1
	require.NoError(t, repo.Create(context.Background(), &employee.Employee{
		UserID:   &otherUser,
		Email:    "shared@staffhub.app",
		FullName: "First Owner",
	}))

	_, err := service.ResolveOwned(context.Background(), 2, "shared@staffhub.app")
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
	assert.Equal(t, "An employee record with this email is linked to another account", apperr.As(err).Message)

	// The original owner keeps the record, and nothing new was written.
	assert.Len(t, repo.records, 1)
	record, err := repo.FindByUserID(context.Background(), otherUser)
	require.NoError(t, err)
	assert.Equal(t, "shared@staffhub.app", record.Email)
}

/*
TestUpdateOwned restricts self-service edits to contact fields.
*/
func TestUpdateOwned(t *testing.T) {
	repo := newFakeEmployeeRepo()
	service := newEmployeeService(repo)

	userID := 4
	require.NoError(t, repo.Create(context.Background(), &employee.Employee{
		UserID:     &userID,
		Email:      "self@staffhub.app",
		FullName:   "Old Name",
		Position:   "Engineer",
		Department: "Platform",
	}))

	phone := "+81-90-0000-0000"
	updated, err := service.UpdateOwned(context.Background(), 4, "self@staffhub.app", &employee.Employee{
		FullName:   "New Name",
		Phone:      &phone,
		Position:   "CEO",     // ignored
		Department: "Finance", // ignored
	})
	require.NoError(t, err)

	assert.Equal(t, "New Name", updated.FullName)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)
	assert.Equal(t, "Engineer", updated.Position)
	assert.Equal(t, "Platform", updated.Department)

	// FullName stays mandatory.
	_, err = service.UpdateOwned(context.Background(), 4, "self@staffhub.app", &employee.Employee{})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

/*
TestCreateEmployee_Validation checks the mandatory fields and formats.
*/
func TestCreateEmployee_Validation(t *testing.T) {
	service := newEmployeeService(newFakeEmployeeRepo())

	badDate := "03/15/2026"
	tests := []struct {
		name  string
		input *employee.Employee
	}{
		{"missing_email", &employee.Employee{FullName: "No Email"}},
		{"bad_email", &employee.Employee{Email: "nope", FullName: "Bad Email"}},
		{"missing_name", &employee.Employee{Email: "ok@staffhub.app"}},
		{"bad_hire_date", &employee.Employee{Email: "ok@staffhub.app", FullName: "Bad Date", HireDate: &badDate}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.CreateEmployee(context.Background(), tt.input)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		})
	}

	hireDate := "2026-03-15"
	err := service.CreateEmployee(context.Background(), &employee.Employee{
		Email:    "ok@staffhub.app",
		FullName: "Valid Person",
		HireDate: &hireDate,
	})
	assert.NoError(t, err)
}

/*
TestOwnerUserID distinguishes claimed and unclaimed records.
*/
func TestOwnerUserID(t *testing.T) {
	repo := newFakeEmployeeRepo()
	service := newEmployeeService(repo)

	userID := 8
	require.NoError(t, repo.Create(context.Background(), &employee.Employee{
		UserID: &userID, Email: "owned@staffhub.app", FullName: "Owned",
	}))
	require.NoError(t, repo.Create(context.Background(), &employee.Employee{
		Email: "free@staffhub.app", FullName: "Unowned",
	}))

	owner, err := service.OwnerUserID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, owner)
	assert.Equal(t, 8, *owner)

	owner, err = service.OwnerUserID(context.Background(), 2)
	require.NoError(t, err)
	assert.Nil(t, owner)

	_, err = service.OwnerUserID(context.Background(), 99)
	assert.Error(t, err)
}
