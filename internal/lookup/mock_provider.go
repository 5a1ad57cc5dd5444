package lookup

import (
	"context"
	"math/rand/v2"
	"time"

	"gstrelay/internal/gstin"
)

const (
	filedProbability   = 0.7
	minComplianceScore = 70
	complianceSpread   = 30
	returnDueDay       = 20
)

// MockProvider stands in for a real status service. It always answers after a
// fixed delay with a sample record whose filing flag and compliance score are random.
type MockProvider struct {
	delay     time.Duration
	now       func() time.Time
	randFloat func() float64
	randIntN  func(n int) int
}

type MockOption func(*MockProvider)

func WithClock(now func() time.Time) MockOption {
	return func(p *MockProvider) {
		p.now = now
	}
}

func WithRand(r *rand.Rand) MockOption {
	return func(p *MockProvider) {
		p.randFloat = r.Float64
		p.randIntN = r.IntN
	}
}

func NewMockProvider(delay time.Duration, opts ...MockOption) *MockProvider {
	p := &MockProvider{
		delay:     delay,
		now:       time.Now,
		randFloat: rand.Float64,
		randIntN:  rand.IntN,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *MockProvider) Lookup(ctx context.Context, id string) (*StatusRecord, error) {
	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, unavailable(id, ctx.Err())
		case <-timer.C:
		}
	}

	now := p.now()
	due := nextDueDate(now)
	lastFiled := lastFiledDate(due, now)
	registered := NewDate(2022, time.May, 15)
	score := minComplianceScore + p.randIntN(complianceSpread)

	return &StatusRecord{
		GSTIN:            id,
		BusinessName:     "SAMPLE BUSINESS PRIVATE LIMITED",
		LegalName:        "Sample Business Pvt Ltd",
		StateCode:        gstin.StateCode(id),
		RegistrationDate: &registered,
		BusinessType:     "Regular",
		Status:           "Active",
		IsFiled:          p.randFloat() < filedProbability,
		LastFiled:        &lastFiled,
		DueDate:          &due,
		Address:          "123 Business Street, Mumbai, Maharashtra 400001",
		Contact:          "9876543210",
		Turnover:         "₹5.2 Cr (2023-24)",
		ComplianceScore:  &score,
	}, nil
}

// nextDueDate returns the monthly return due day on or after now (UTC).
func nextDueDate(now time.Time) Date {
	y, m, d := now.UTC().Date()
	if d > returnDueDay {
		m++
	}
	return NewDate(y, m, returnDueDay)
}

// lastFiledDate is five days after the previous due day, but never later than today.
func lastFiledDate(due Date, now time.Time) Date {
	last := Date{Time: due.AddDate(0, -1, 5)}
	y, m, d := now.UTC().Date()
	if today := NewDate(y, m, d); last.After(today.Time) {
		return today
	}
	return last
}
