package booking

import (
	"context"
	"testing"

	"shortlet/models"
	"shortlet/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUpdateBookingClientEmail(t *testing.T) {
	env := newTestEnv(testNow)
	result, err := env.svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)

	b, err := env.svc.UpdateBooking(context.Background(), result.Booking.ID,
		UpdateBookingPatch{ClientEmail: strPtr("new@example.com")},
		&Actor{ID: "agent-1", Role: "agent"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", b.ClientEmail)
	// Money untouched by a non-financial edit.
	assert.Equal(t, 220.0, b.TotalAmount)

	_, err = env.svc.UpdateBooking(context.Background(), result.Booking.ID,
		UpdateBookingPatch{ClientEmail: strPtr("")}, nil)
	require.Error(t, err)
	assert.True(t, utils.HasCode(err, utils.CodeValidation))
}

func TestUpdateBookingDatesRecomputesWithOriginalRate(t *testing.T) {
	env := newTestEnv(testNow)
	result, err := env.svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)
	require.Equal(t, 5.0, result.Booking.CommissionRate)

	// The property's rate changes after creation; the edit must not pick
	// it up.
	env.props.properties["prop-1"].CommissionRate = 20

	b, err := env.svc.UpdateBooking(context.Background(), result.Booking.ID,
		UpdateBookingPatch{CheckOut: strPtr("2025-06-14")},
		&Actor{ID: "agent-1", Role: "agent"})
	require.NoError(t, err)

	assert.Equal(t, 4, b.Nights)
	assert.Equal(t, 420.0, b.TotalAmount)
	assert.Equal(t, 5.0, b.CommissionRate)
	assert.Equal(t, 21.0, b.CommissionAmount)

	// The linked commission moved in lockstep.
	assert.Equal(t, 21.0, env.repo.commissions[b.ID].Amount)

	// Occupancy now covers the extended stay.
	assert.Equal(t, b.ID, env.repo.occupancy[occKey("prop-1", "2025-06-14")])
}

func TestUpdateBookingDateConflict(t *testing.T) {
	env := newTestEnv(testNow)
	first, err := env.svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.CheckIn = "2025-06-20"
	req.CheckOut = "2025-06-22"
	second, err := env.svc.CreateBooking(context.Background(), req)
	require.NoError(t, err)

	// Stretching the second booking onto the first one's days conflicts.
	_, err = env.svc.UpdateBooking(context.Background(), second.Booking.ID,
		UpdateBookingPatch{CheckIn: strPtr("2025-06-12")}, nil)
	require.Error(t, err)
	assert.True(t, utils.HasCode(err, utils.CodeConflict))

	// Shrinking a booking against itself is fine.
	b, err := env.svc.UpdateBooking(context.Background(), first.Booking.ID,
		UpdateBookingPatch{CheckOut: strPtr("2025-06-11")}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, b.Nights)
}

func TestUpdateBookingAuthorizationAndState(t *testing.T) {
	env := newTestEnv(testNow)
	result, err := env.svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)
	id := result.Booking.ID

	_, err = env.svc.UpdateBooking(context.Background(), id,
		UpdateBookingPatch{ClientEmail: strPtr("x@example.com")},
		&Actor{ID: "agent-2", Role: "agent"})
	require.Error(t, err)
	assert.True(t, utils.HasCode(err, utils.CodeForbidden))

	_, err = env.svc.CancelBooking(context.Background(), id, nil)
	require.NoError(t, err)

	_, err = env.svc.UpdateBooking(context.Background(), id,
		UpdateBookingPatch{ClientEmail: strPtr("x@example.com")}, nil)
	require.Error(t, err)
	assert.True(t, utils.HasCode(err, utils.CodeConflict))
}

func TestUpdateBookingBlockedByHold(t *testing.T) {
	env := newTestEnv(testNow)
	result, err := env.svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)

	env.blocked.holds = append(env.blocked.holds, models.Blocked{
		ID: "h1", PropertyID: "prop-1", Start: "2025-06-14", End: "2025-06-14",
	})

	_, err = env.svc.UpdateBooking(context.Background(), result.Booking.ID,
		UpdateBookingPatch{CheckOut: strPtr("2025-06-14")}, nil)
	require.Error(t, err)
	assert.True(t, utils.HasCode(err, utils.CodeConflict))
}
