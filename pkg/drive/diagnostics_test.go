package drive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/roboclaw.go/pkg/l0/roboclaw"
)

func TestStatusLevel(t *testing.T) {
	testCases := []struct {
		status roboclaw.ErrorStatus
		level  Level
	}{
		{0, LevelOK},
		{roboclaw.StatusM1Home, LevelOK},
		{roboclaw.ErrM1OverCurrent, LevelWarn},
		{roboclaw.WarnMainBatteryLow | roboclaw.StatusM2Home, LevelWarn},
		{roboclaw.ErrEStop, LevelError},
		{roboclaw.ErrM2DriverFault | roboclaw.ErrLogicBatteryLow, LevelError},
	}
	for _, tc := range testCases {
		t.Run(tc.status.String(), func(t *testing.T) {
			require.Equal(t, tc.level, StatusLevel(tc.status))
		})
	}
}

func TestReadDiagnostics(t *testing.T) {
	now := time.Unix(10, 0)
	m := &fakeMotors{status: roboclaw.ErrTemperature | roboclaw.WarnTemperature2}
	diag, err := ReadDiagnostics(m, now)
	require.NoError(t, err)
	require.Equal(t, &Diagnostics{
		Time:         now,
		Level:        LevelError,
		Status:       roboclaw.ErrTemperature | roboclaw.WarnTemperature2,
		Message:      "Temperature1, Temperature2",
		MainBattery:  12.3,
		LogicBattery: 5,
		Temperature:  30.5,
		Temperature2: 31,
	}, diag)
	require.Equal(t, "ERROR Temperature1, Temperature2 main=12.3V logic=5.0V temp=30.5C temp2=31.0C", diag.String())
}

func TestReadDiagnosticsPartial(t *testing.T) {
	m := &fakeMotors{battErr: errNoReply}
	diag, err := ReadDiagnostics(m, time.Unix(10, 0))
	require.ErrorIs(t, err, errNoReply)
	require.NotNil(t, diag)
	require.Equal(t, "Normal", diag.Message)
	require.Zero(t, diag.MainBattery)
	require.Equal(t, 5.0, diag.LogicBattery)

	m = &fakeMotors{statusErr: errNoReply}
	diag, err = ReadDiagnostics(m, time.Unix(10, 0))
	require.ErrorIs(t, err, errNoReply)
	require.Nil(t, diag)
}

func TestLevelString(t *testing.T) {
	require.Equal(t, "WARN", LevelWarn.String())
	require.Equal(t, "Level(7)", Level(7).String())
}
