package health

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// FileProvider serves metrics from a JSON file keyed by date, the format
// companion sync tools drop into the config directory:
//
//	{"2026-08-23": {"steps": 8200, "activeEnergyKcal": 430, ...}}
type FileProvider struct {
	Path string
}

type fileDay struct {
	Steps                  *int     `json:"steps"`
	ActiveEnergyKcal       *float64 `json:"activeEnergyKcal"`
	DistanceKm             *float64 `json:"distanceKm"`
	RestingHeartRateBpm    *int     `json:"restingHeartRateBpm"`
	HeartRateVariabilityMs *float64 `json:"heartRateVariabilityMs"`
	SleepHours             *float64 `json:"sleepHours"`
}

func (f *FileProvider) AuthorizationStatus(_ context.Context) (AuthorizationStatus, error) {
	if _, err := os.Stat(f.Path); err != nil {
		return AuthNotDetermined, nil
	}
	return AuthAuthorized, nil
}

func (f *FileProvider) day(date string) (fileDay, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return fileDay{}, fmt.Errorf("read health file: %w", err)
	}
	var days map[string]fileDay
	if err := json.Unmarshal(data, &days); err != nil {
		return fileDay{}, fmt.Errorf("decode health file: %w", err)
	}
	d, ok := days[date]
	if !ok {
		return fileDay{}, fmt.Errorf("no health data for %s", date)
	}
	return d, nil
}

func (f *FileProvider) Steps(_ context.Context, date string) (int, error) {
	d, err := f.day(date)
	if err != nil {
		return 0, err
	}
	if d.Steps == nil {
		return 0, fmt.Errorf("steps missing for %s", date)
	}
	return *d.Steps, nil
}

func (f *FileProvider) ActiveEnergyKcal(_ context.Context, date string) (float64, error) {
	d, err := f.day(date)
	if err != nil {
		return 0, err
	}
	if d.ActiveEnergyKcal == nil {
		return 0, fmt.Errorf("active energy missing for %s", date)
	}
	return *d.ActiveEnergyKcal, nil
}

func (f *FileProvider) DistanceKm(_ context.Context, date string) (float64, error) {
	d, err := f.day(date)
	if err != nil {
		return 0, err
	}
	if d.DistanceKm == nil {
		return 0, fmt.Errorf("distance missing for %s", date)
	}
	return *d.DistanceKm, nil
}

func (f *FileProvider) RestingHeartRateBpm(_ context.Context, date string) (int, error) {
	d, err := f.day(date)
	if err != nil {
		return 0, err
	}
	if d.RestingHeartRateBpm == nil {
		return 0, fmt.Errorf("resting heart rate missing for %s", date)
	}
	return *d.RestingHeartRateBpm, nil
}

func (f *FileProvider) HeartRateVariabilityMs(_ context.Context, date string) (float64, error) {
	d, err := f.day(date)
	if err != nil {
		return 0, err
	}
	if d.HeartRateVariabilityMs == nil {
		return 0, fmt.Errorf("hrv missing for %s", date)
	}
	return *d.HeartRateVariabilityMs, nil
}

func (f *FileProvider) SleepHours(_ context.Context, date string) (float64, error) {
	d, err := f.day(date)
	if err != nil {
		return 0, err
	}
	if d.SleepHours == nil {
		return 0, fmt.Errorf("sleep missing for %s", date)
	}
	return *d.SleepHours, nil
}
