package service

import (
	"context"
	"testing"

	"diamondtrade/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditService_RecordsActor(t *testing.T) {
	env := newTestEnv(t)

	env.createClient(t, "Mehta Diamonds")
	_, err := env.diamonds.CreateDiamond(WithActor(context.Background(), "ravi"), CreateDiamondRequest{
		KapanID: "K-1", Category: "4P Plus", WeightInKarats: decPtr("1"), Rate: decPtr("10"),
	})
	require.NoError(t, err)

	logs, total, err := env.audit.GetAuditLogs(context.Background(), AuditQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, logs, 2)

	byAction := map[string]AuditLogResponse{}
	for _, l := range logs {
		byAction[l.Action] = l
	}
	assert.Equal(t, model.SystemActor, byAction[model.ActionCreateClient].Actor)
	assert.Equal(t, "ravi", byAction[model.ActionCreateDiamond].Actor)
	assert.Equal(t, "K-1", byAction[model.ActionCreateDiamond].EntityName)
	assert.Contains(t, byAction[model.ActionCreateDiamond].Details, `"kapan_id":"K-1"`)
}

func TestAuditService_FiltersHistory(t *testing.T) {
	env := newTestEnv(t)

	env.createClient(t, "Mehta Diamonds")
	first, err := env.diamonds.CreateDiamond(WithActor(context.Background(), "ravi"), CreateDiamondRequest{
		KapanID: "K-1", Category: "4P Plus", WeightInKarats: decPtr("1"), Rate: decPtr("10"),
	})
	require.NoError(t, err)
	_, err = env.diamonds.CreateDiamond(context.Background(), CreateDiamondRequest{
		KapanID: "K-2", Category: "4P Minus", NumberOfDiamonds: intPtr(5), Rate: decPtr("10"),
	})
	require.NoError(t, err)

	logs, total, err := env.audit.GetAuditLogs(context.Background(), AuditQuery{EntityID: first.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, logs, 1)
	assert.Equal(t, "K-1", logs[0].EntityName)

	logs, total, err = env.audit.GetAuditLogs(context.Background(), AuditQuery{Actor: " system ", Action: "create_diamond"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, logs, 1)
	assert.Equal(t, "K-2", logs[0].EntityName)

	logs, total, err = env.audit.GetAuditLogs(context.Background(), AuditQuery{Actor: "nobody"})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, logs)
}
