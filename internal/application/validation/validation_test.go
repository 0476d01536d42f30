package validation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storerating-api/internal/application/dto"
	"github.com/jhoicas/storerating-api/internal/application/validation"
	"github.com/jhoicas/storerating-api/internal/domain"
)

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var verrs *validation.Errors
	require.True(t, errors.As(err, &verrs), "expected *validation.Errors, got %v", err)
	out := map[string]string{}
	for _, f := range verrs.Fields {
		out[f.Field] = f.Message
	}
	return out
}

func TestStruct_ValidSignupIsNormalized(t *testing.T) {
	in := &dto.SignupRequest{Name: "  Alice Doe ", Email: " Alice@Example.COM ", Password: "Secret#123", Address: "Main St"}

	require.NoError(t, validation.Struct(in))
	assert.Equal(t, "Alice Doe", in.Name)
	assert.Equal(t, "alice@example.com", in.Email)
}

func TestStruct_SignupFieldErrors(t *testing.T) {
	in := &dto.SignupRequest{Name: "A", Email: "not-an-email", Password: "short"}

	err := validation.Struct(in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	fields := fieldsOf(t, err)
	assert.Equal(t, "name must be at least 2 characters", fields["name"])
	assert.Equal(t, "Invalid email format", fields["email"])
	assert.Equal(t, "Password must be 8-16 characters long", fields["password"])
}

func TestPasswordProblem(t *testing.T) {
	cases := map[string]string{
		"Secret#123":          "",
		"secret#123":          "Password must contain at least one uppercase letter",
		"Secret1234":          "Password must contain at least one special character",
		"S#1":                 "Password must be 8-16 characters long",
		"Secret#1234567890ab": "Password must be 8-16 characters long",
	}
	for pw, want := range cases {
		assert.Equal(t, want, validation.PasswordProblem(pw), pw)
	}
}

func TestStruct_RatingBounds(t *testing.T) {
	storeID := "7f1c2c2e-4f53-4f0e-9a43-1b1f1a6e3c11"

	require.NoError(t, validation.Struct(&dto.SubmitRatingRequest{Rating: 5, StoreID: storeID}))

	fields := fieldsOf(t, validation.Struct(&dto.SubmitRatingRequest{Rating: 6, StoreID: storeID}))
	assert.Equal(t, "rating must be at most 5", fields["rating"])

	fields = fieldsOf(t, validation.Struct(&dto.SubmitRatingRequest{Rating: 0, StoreID: "x"}))
	assert.Contains(t, fields, "rating")
	assert.Contains(t, fields, "storeId")
}

func TestStruct_FilterDefaultsAndLimits(t *testing.T) {
	f := &dto.UserFilter{}
	require.NoError(t, validation.Struct(f))
	assert.Equal(t, "createdAt", f.SortBy)
	assert.Equal(t, "desc", f.SortOrder)

	fields := fieldsOf(t, validation.Struct(&dto.StoreFilter{SortOrder: "up", PageQuery: dto.PageQuery{Limit: 101}}))
	assert.Equal(t, "sortOrder must be asc or desc", fields["sortOrder"])
	assert.Equal(t, "limit must be at most 100", fields["limit"])
}

func TestStruct_RoleAndSearch(t *testing.T) {
	fields := fieldsOf(t, validation.Struct(&dto.UpdateRoleRequest{Role: "ROOT"}))
	assert.Equal(t, "Invalid role", fields["role"])

	fields = fieldsOf(t, validation.Struct(&dto.StoreSearchQuery{Query: "  a  "}))
	assert.Equal(t, "query must be at least 2 characters", fields["query"])
}

func TestStruct_PartialUpdateSkipsNil(t *testing.T) {
	require.NoError(t, validation.Struct(&dto.UpdateProfileRequest{}))

	short := "B"
	fields := fieldsOf(t, validation.Struct(&dto.UpdateProfileRequest{Name: &short}))
	assert.Contains(t, fields, "name")
}
