package service

import (
	"context"
	"testing"

	"diamondtrade/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyService_GetAndUpsert(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	empty, err := env.company.GetCompany(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty.Name)

	first, err := env.company.UpdateCompany(ctx, UpdateCompanyRequest{
		Name:     "Surat Diamond Traders",
		IFSCCode: "hdfc0001234",
		UPIID:    "sdt@hdfcbank",
	})
	require.NoError(t, err)
	assert.Equal(t, "HDFC0001234", first.IFSCCode)
	assert.True(t, first.HasBankDetails())

	second, err := env.company.UpdateCompany(ctx, UpdateCompanyRequest{Name: "Surat Diamond Traders LLP"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, env.db.Model(&model.CompanyDetails{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	got, err := env.company.GetCompany(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Surat Diamond Traders LLP", got.Name)
	assert.False(t, got.HasBankDetails())

	_, err = env.company.UpdateCompany(ctx, UpdateCompanyRequest{Name: ""})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
