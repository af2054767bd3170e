package health

import "context"

type AuthorizationStatus string

const (
	AuthAuthorized    AuthorizationStatus = "authorized"
	AuthDenied        AuthorizationStatus = "denied"
	AuthNotDetermined AuthorizationStatus = "not_determined"
)

// Provider exposes read-only daily metrics from a device health source.
// Each metric is queried independently so one failure never blocks another.
type Provider interface {
	AuthorizationStatus(ctx context.Context) (AuthorizationStatus, error)
	Steps(ctx context.Context, date string) (int, error)
	ActiveEnergyKcal(ctx context.Context, date string) (float64, error)
	DistanceKm(ctx context.Context, date string) (float64, error)
	RestingHeartRateBpm(ctx context.Context, date string) (int, error)
	HeartRateVariabilityMs(ctx context.Context, date string) (float64, error)
	SleepHours(ctx context.Context, date string) (float64, error)
}

// Metrics is a day's aggregated snapshot. Nil fields were unavailable.
type Metrics struct {
	Steps                  *int
	ActiveEnergyKcal       *float64
	DistanceKm             *float64
	RestingHeartRateBpm    *int
	HeartRateVariabilityMs *float64
	SleepHours             *float64
}

// Empty reports whether no metric was available at all.
func (m Metrics) Empty() bool {
	return m.Steps == nil && m.ActiveEnergyKcal == nil && m.DistanceKm == nil &&
		m.RestingHeartRateBpm == nil && m.HeartRateVariabilityMs == nil && m.SleepHours == nil
}

// Aggregate fetches every metric for a date, keeping partial successes.
func Aggregate(ctx context.Context, p Provider, date string) Metrics {
	var m Metrics
	if v, err := p.Steps(ctx, date); err == nil {
		m.Steps = &v
	}
	if v, err := p.ActiveEnergyKcal(ctx, date); err == nil {
		m.ActiveEnergyKcal = &v
	}
	if v, err := p.DistanceKm(ctx, date); err == nil {
		m.DistanceKm = &v
	}
	if v, err := p.RestingHeartRateBpm(ctx, date); err == nil {
		m.RestingHeartRateBpm = &v
	}
	if v, err := p.HeartRateVariabilityMs(ctx, date); err == nil {
		m.HeartRateVariabilityMs = &v
	}
	if v, err := p.SleepHours(ctx, date); err == nil {
		m.SleepHours = &v
	}
	return m
}
