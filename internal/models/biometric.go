// ABOUTME: BiometricDay model for externally synced daily Garmin metrics.
// ABOUTME: One row per calendar date; all metric fields optional.
package models

import "time"

// BiometricDay holds one day of aggregated metrics from the Garmin sync.
// Every metric field is optional: the source does not report all fields
// for all days. The application only reads these rows; the sync adapter
// owns writes.
type BiometricDay struct {
	Day            time.Time `json:"day" yaml:"day"`
	Steps          *int      `json:"steps,omitempty" yaml:"steps,omitempty"`
	RestingHR      *float64  `json:"resting_hr,omitempty" yaml:"resting_hr,omitempty"`
	AvgHR          *float64  `json:"avg_hr,omitempty" yaml:"avg_hr,omitempty"`
	StressAvg      *int      `json:"stress_avg,omitempty" yaml:"stress_avg,omitempty"`
	SleepTotalSec  *int      `json:"sleep_total_sec,omitempty" yaml:"sleep_total_sec,omitempty"`
	SleepRemSec    *int      `json:"sleep_rem_sec,omitempty" yaml:"sleep_rem_sec,omitempty"`
	ActiveCalories *int      `json:"active_calories,omitempty" yaml:"active_calories,omitempty"`
	SyncedAt       time.Time `json:"synced_at" yaml:"synced_at"`
}

// NewBiometricDay creates a BiometricDay for the given date with the
// current sync time. The day is truncated to its UTC calendar date.
func NewBiometricDay(day time.Time) *BiometricDay {
	return &BiometricDay{
		Day:      DayOf(day),
		SyncedAt: time.Now().UTC(),
	}
}

// SleepTotal returns the total sleep as a duration, or zero if unset.
func (b *BiometricDay) SleepTotal() time.Duration {
	if b.SleepTotalSec == nil {
		return 0
	}
	return time.Duration(*b.SleepTotalSec) * time.Second
}

// SleepRem returns the REM sleep as a duration, or zero if unset.
func (b *BiometricDay) SleepRem() time.Duration {
	if b.SleepRemSec == nil {
		return 0
	}
	return time.Duration(*b.SleepRemSec) * time.Second
}

// EventBiometrics pairs an event with the biometric row for its day.
// Biometrics is nil when no row exists for that date; the event is
// never dropped from correlation output.
type EventBiometrics struct {
	Event      *Event        `json:"event" yaml:"event"`
	Biometrics *BiometricDay `json:"biometrics,omitempty" yaml:"biometrics,omitempty"`
}
