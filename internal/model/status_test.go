package model

import "testing"

func TestRunStatus_String(t *testing.T) {
	status := RunStatusDownloading
	expected := "Downloading"
	result := status.String()

	if result != expected {
		t.Errorf("RunStatus.String() = %s, expected %s", result, expected)
	}
}

func TestItemStatus_IsReported(t *testing.T) {
	tests := []struct {
		status   ItemStatus
		expected bool
	}{
		{ItemStatusProgress, true},
		{ItemStatusSkipped, true},
		{ItemStatusError, true},
		{ItemStatusOther, false},
	}

	for _, test := range tests {
		if got := test.status.IsReported(); got != test.expected {
			t.Errorf("ItemStatus(%s).IsReported() = %v, expected %v", test.status, got, test.expected)
		}
	}
}
