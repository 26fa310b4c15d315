package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drtc/licensing/internal/apperrors"
)

func TestAuditTrail(t *testing.T) {
	e := newEnv(t)
	_, request := e.registerDriver(t)
	e.enableRequest(t, request.ID)

	entries, err := e.audit.List(e.director, 100, 0)
	require.NoError(t, err)
	// register, review, approve, pay, confirm, enable
	require.Len(t, entries, 6)
	// Newest first
	assert.Equal(t, "request.enable", entries[0].Action)
	assert.Equal(t, "driver.register", entries[len(entries)-1].Action)

	// Pagination
	page, err := e.audit.List(e.director, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "payment.confirm", page[0].Action)
}

func TestAuditGuarded(t *testing.T) {
	e := newEnv(t)
	_, err := e.audit.List(e.operator, 10, 0)
	assert.True(t, apperrors.Is(err, apperrors.KindPermissionDenied))

	_, err = e.audit.List(e.deputy, 10, 0)
	assert.True(t, apperrors.Is(err, apperrors.KindPermissionDenied))
}
