package cli

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateCadence(t *testing.T) {
	t.Parallel()

	wall := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		opts    CadenceOptions
		want    cadenceOutput
		wantErr bool
	}{
		{
			name: "never posted, window open",
			opts: CadenceOptions{Joined: "2025-01-01T00:00:00Z", Now: "2025-03-01T00:00:00Z"},
			want: cadenceOutput{
				CanPost:        true,
				State:          "eligible",
				Anchor:         "2025-01-01T00:00:00Z",
				NextEligibleAt: "2025-01-31T00:00:00Z",
				Threshold:      "one_day",
			},
		},
		{
			name: "posted yesterday",
			opts: CadenceOptions{
				Joined: "2025-01-01T00:00:00Z",
				Latest: "2025-03-09T12:00:00Z",
			},
			want: cadenceOutput{
				DaysUntilNextPost: 29,
				State:             "waiting",
				Anchor:            "2025-03-09T12:00:00Z",
				NextEligibleAt:    "2025-04-08T12:00:00Z",
			},
		},
		{
			name: "ten days left",
			opts: CadenceOptions{
				Joined: "2025-01-01T00:00:00Z",
				Latest: "2025-02-18T12:00:00Z",
			},
			want: cadenceOutput{
				DaysUntilNextPost: 10,
				State:             "waiting",
				Anchor:            "2025-02-18T12:00:00Z",
				NextEligibleAt:    "2025-03-20T12:00:00Z",
				Threshold:         "ten_day",
			},
		},
		{
			name: "post before join is reported",
			opts: CadenceOptions{
				Joined: "2025-02-01T00:00:00Z",
				Latest: "2025-01-01T00:00:00Z",
				Now:    "2025-02-05T00:00:00Z",
			},
			want: cadenceOutput{
				DaysUntilNextPost: 26,
				State:             "waiting",
				Anchor:            "2025-02-01T00:00:00Z",
				NextEligibleAt:    "2025-03-03T00:00:00Z",
				Warning:           "latest post is before joined at",
			},
		},
		{
			name:    "bad joined",
			opts:    CadenceOptions{Joined: "yesterday"},
			wantErr: true,
		},
		{
			name:    "bad latest",
			opts:    CadenceOptions{Joined: "2025-01-01T00:00:00Z", Latest: "2025-13-01"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := evaluateCadence(&tt.opts, wall)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCadenceCommand(t *testing.T) {
	cmd := NewRootCommand(BuildInfo{Version: "test"})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{
		"cadence",
		"--env-file", "testdata-missing.env",
		"--joined", "2025-01-01T00:00:00Z",
		"--now", "2025-01-31T00:00:00Z",
	})

	require.NoError(t, cmd.Execute())

	var got cadenceOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.True(t, got.CanPost)
	assert.Equal(t, 0, got.DaysUntilNextPost)
}

func TestCadenceCommand_RequiresJoined(t *testing.T) {
	cmd := NewRootCommand(BuildInfo{Version: "test"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"cadence"})

	assert.Error(t, cmd.Execute())
}
