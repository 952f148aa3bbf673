package util

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetTimeProvider() {
	mu.Lock()
	globalTimeProvider = nil
	mu.Unlock()
}

func TestInitializeTimeProvider(t *testing.T) {
	resetTimeProvider()
	defer resetTimeProvider()

	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "local timezone", timezone: "Local"},
		{name: "UTC timezone", timezone: "UTC"},
		{name: "named timezone", timezone: "Asia/Shanghai"},
		{name: "empty defaults to Local", timezone: ""},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := InitializeTimeProvider(tt.timezone)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid timezone 'Invalid/Timezone'")
				assert.Contains(t, err.Error(), "Valid examples:")
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, GetTimeProvider())
		})
	}
}

func TestInitializeTimeProviderKeepsPreviousOnError(t *testing.T) {
	resetTimeProvider()
	defer resetTimeProvider()

	require.NoError(t, InitializeTimeProvider("UTC"))
	require.Error(t, InitializeTimeProvider("Not/A/Zone"))
	assert.Equal(t, "UTC", GetTimeProvider().Location().String())
}

func TestGetTimeProviderDefaultsToLocal(t *testing.T) {
	resetTimeProvider()
	defer resetTimeProvider()

	provider := GetTimeProvider()
	assert.Equal(t, time.Local, provider.Location())
	assert.Same(t, provider, GetTimeProvider())
}

func TestTimeProvider_In(t *testing.T) {
	provider := &TimeProvider{}
	require.NoError(t, provider.SetTimezone("Asia/Shanghai"))

	utcTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	shanghaiTime := provider.In(utcTime)

	assert.True(t, utcTime.Equal(shanghaiTime))
	assert.Equal(t, 20, shanghaiTime.Hour())
}

func TestTimeProvider_FormatNs(t *testing.T) {
	provider := &TimeProvider{}
	require.NoError(t, provider.SetTimezone("UTC"))

	ns := time.Date(2024, 3, 15, 14, 30, 45, 123456789, time.UTC).UnixNano()

	tests := []struct {
		name     string
		layout   string
		expected string
	}{
		{name: "24h clock", layout: ClockLayout("24h"), expected: "14:30:45.123456789"},
		{name: "12h clock", layout: ClockLayout("12h"), expected: "02:30:45.123456789 PM"},
		{name: "unknown preference", layout: ClockLayout("metric"), expected: "14:30:45.123456789"},
		{name: "date", layout: "2006-01-02", expected: "2024-03-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, provider.FormatNs(ns, tt.layout))
		})
	}
}

func TestTimeProvider_Concurrency(t *testing.T) {
	provider := &TimeProvider{}
	require.NoError(t, provider.SetTimezone("UTC"))

	var wg sync.WaitGroup
	timezones := []string{"UTC", "Asia/Shanghai", "America/New_York", "Europe/London"}
	for i := 0; i < 40; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = provider.Now()
			_ = provider.FormatNs(time.Now().UnixNano(), time.RFC3339)
		}()
		go func(idx int) {
			defer wg.Done()
			assert.NoError(t, provider.SetTimezone(timezones[idx%len(timezones)]))
		}(i)
	}
	wg.Wait()
}
