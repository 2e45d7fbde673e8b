package helper

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type entryReq struct {
	StudentID string `json:"student_id" validate:"required"`
	Status    string `json:"status" validate:"oneof=present absent"`
}

type batchReq struct {
	Date    string     `json:"date" validate:"required,datetime=2006-01-02"`
	Entries []entryReq `json:"entries" validate:"required,min=1,dive"`
}

func TestValidationErrorMap_UsesJSONNames(t *testing.T) {
	v := NewValidator()
	err := v.Struct(&batchReq{
		Date:    "15-07-2024",
		Entries: []entryReq{{StudentID: "", Status: "sleep"}},
	})
	m := ValidationErrorMap(err)

	assert.Equal(t, []string{"format harus 2006-01-02"}, m["date"])
	assert.Equal(t, []string{"wajib diisi"}, m["entries[0].student_id"])
	assert.Equal(t, []string{"harus salah satu dari: present absent"}, m["entries[0].status"])
}

func TestValidationErrorMap_NonValidatorError(t *testing.T) {
	m := ValidationErrorMap(errors.New("boom"))
	assert.Equal(t, map[string][]string{"_": {"boom"}}, m)
}

func TestUniqueAndCheckViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(errors.New(`ERROR: duplicate key value violates unique constraint "uq" (SQLSTATE 23505)`)))
	assert.False(t, IsUniqueViolation(nil))
	assert.True(t, IsCheckViolation(errors.New(`new row violates check constraint "ck_student_classes_counter" (SQLSTATE 23514)`)))
	assert.False(t, IsCheckViolation(errors.New("timeout")))
}
