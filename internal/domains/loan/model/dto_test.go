package model_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"library-backend/internal/domains/loan/model"
)

func TestCreateLoanRequestValidate(t *testing.T) {
	t.Run("book id is required", func(t *testing.T) {
		assert.Error(t, model.CreateLoanRequest{}.Validate())
	})

	t.Run("minimal request is valid", func(t *testing.T) {
		req := model.CreateLoanRequest{BookID: uuid.New()}
		assert.NoError(t, req.Validate())
	})

	t.Run("negative period is accepted", func(t *testing.T) {
		period := -1
		req := model.CreateLoanRequest{BookID: uuid.New(), PeriodDays: &period}
		assert.NoError(t, req.Validate())
	})
}

func TestExtendLoanRequestValidate(t *testing.T) {
	assert.NoError(t, model.ExtendLoanRequest{}.Validate())

	good := 7
	assert.NoError(t, model.ExtendLoanRequest{Days: &good}.Validate())

	bad := 0
	assert.Error(t, model.ExtendLoanRequest{Days: &bad}.Validate())

	negative := -3
	assert.Error(t, model.ExtendLoanRequest{Days: &negative}.Validate())
}
