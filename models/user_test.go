package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	for _, s := range []string{"student", "teacher", "director"} {
		got, err := ParseRole(s)
		assert.NoError(t, err)
		assert.Equal(t, Role(s), got)
	}

	_, err := ParseRole("admin")
	assert.Error(t, err)
}

func TestRoleIsStaff(t *testing.T) {
	assert.False(t, RoleStudent.IsStaff())
	assert.True(t, RoleTeacher.IsStaff())
	assert.True(t, RoleDirector.IsStaff())
}

func TestParseJournalType(t *testing.T) {
	for _, s := range []string{"teacher", "student"} {
		got, err := ParseJournalType(s)
		assert.NoError(t, err)
		assert.Equal(t, JournalType(s), got)
	}

	_, err := ParseJournalType("parent")
	assert.Error(t, err)
}
