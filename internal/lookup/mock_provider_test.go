package lookup

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestMockProvider_Record(t *testing.T) {
	now := time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)
	p := NewMockProvider(0, WithClock(fixedClock(now)), WithRand(rand.New(rand.NewPCG(1, 2))))

	rec, err := p.Lookup(context.Background(), "29AADCB2230M1Z2")
	require.NoError(t, err)

	assert.Equal(t, "29AADCB2230M1Z2", rec.GSTIN)
	assert.Equal(t, "29", rec.StateCode)
	assert.Equal(t, "Active", rec.Status)
	require.NotNil(t, rec.DueDate)
	assert.Equal(t, "2026-10-20", rec.DueDate.String())
	require.NotNil(t, rec.LastFiled)
	assert.Equal(t, "2026-09-25", rec.LastFiled.String())
	require.NotNil(t, rec.ComplianceScore)
	assert.GreaterOrEqual(t, *rec.ComplianceScore, 70)
	assert.Less(t, *rec.ComplianceScore, 100)
}

func TestMockProvider_RandomisesFilingFlag(t *testing.T) {
	p := NewMockProvider(0, WithRand(rand.New(rand.NewPCG(7, 7))))

	filed, pending := 0, 0
	for i := 0; i < 200; i++ {
		rec, err := p.Lookup(context.Background(), "29AADCB2230M1Z2")
		require.NoError(t, err)
		if rec.IsFiled {
			filed++
		} else {
			pending++
		}
	}
	assert.Positive(t, filed)
	assert.Positive(t, pending)
}

func TestMockProvider_DelayHonoursContext(t *testing.T) {
	p := NewMockProvider(time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := p.Lookup(ctx, "29AADCB2230M1Z2")
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
}

func TestNextDueDate(t *testing.T) {
	tests := []struct {
		now  time.Time
		want string
	}{
		{time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC), "2026-10-20"},
		{time.Date(2026, time.October, 20, 23, 0, 0, 0, time.UTC), "2026-10-20"},
		{time.Date(2026, time.October, 21, 0, 0, 0, 0, time.UTC), "2026-11-20"},
		{time.Date(2026, time.December, 25, 0, 0, 0, 0, time.UTC), "2027-01-20"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, nextDueDate(tt.now).String(), tt.now.String())
	}
}

func TestLastFiledDate_NeverInFuture(t *testing.T) {
	tests := []struct {
		now  time.Time
		want string
	}{
		{time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC), "2026-09-25"},
		{time.Date(2026, time.October, 22, 9, 0, 0, 0, time.UTC), "2026-10-22"},
		{time.Date(2026, time.October, 25, 9, 0, 0, 0, time.UTC), "2026-10-25"},
		{time.Date(2026, time.October, 28, 9, 0, 0, 0, time.UTC), "2026-10-25"},
	}
	for _, tt := range tests {
		got := lastFiledDate(nextDueDate(tt.now), tt.now)
		assert.Equal(t, tt.want, got.String(), tt.now.String())
		assert.False(t, got.After(tt.now), tt.now.String())
	}
}
