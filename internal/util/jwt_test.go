package util

import (
	"testing"
	"time"

	"clever_backend/internal/grading"
	"clever_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	group := uint(3)
	user := &model.User{Email: "s@example.com", Role: model.Student, GroupID: &group}
	user.ID = 11

	token, err := GenerateJWT(user, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(11), claims.UserID)
	assert.Equal(t, model.Student, claims.Role)
	assert.NotEmpty(t, claims.ID)

	p := claims.Principal()
	assert.Equal(t, grading.RoleStudent, p.Role)
	require.NotNil(t, p.GroupID)
	assert.Equal(t, group, *p.GroupID)
}

func TestParseJWT_Rejects(t *testing.T) {
	user := &model.User{Email: "t@example.com", Role: model.Teacher}
	user.ID = 1

	token, err := GenerateJWT(user, "secret", time.Hour)
	require.NoError(t, err)
	_, err = ParseJWT(token, "other-secret")
	assert.Error(t, err)

	expired, err := GenerateJWT(user, "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired, "secret")
	assert.Error(t, err)
}
