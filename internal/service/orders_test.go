package service

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bazaarwale-backend/internal/apperror"
	"bazaarwale-backend/internal/models"
)

func TestCaptureGuard(t *testing.T) {
	t.Run("pending orders may capture", func(t *testing.T) {
		alreadyPaid, err := captureGuard(models.PaymentPending)
		require.NoError(t, err)
		assert.False(t, alreadyPaid)
	})

	t.Run("replay against a paid order is acked without side effects", func(t *testing.T) {
		alreadyPaid, err := captureGuard(models.PaymentPaid)
		require.NoError(t, err)
		assert.True(t, alreadyPaid)
	})

	t.Run("failed and refunded orders reject capture", func(t *testing.T) {
		for _, status := range []models.PaymentStatus{models.PaymentFailed, models.PaymentRefunded} {
			alreadyPaid, err := captureGuard(status)
			assert.False(t, alreadyPaid)
			require.Error(t, err)
			assert.Equal(t, http.StatusConflict, apperror.StatusOf(err))
		}
	})
}
