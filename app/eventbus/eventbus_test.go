package eventbus

import (
	"context"
	"testing"

	"github.com/Black-And-White-Club/lastman/app/shared/attr"
	"github.com/nats-io/nkeys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNatsOptions(t *testing.T) {
	user, err := nkeys.CreateUser()
	require.NoError(t, err)
	seed, err := user.Seed()
	require.NoError(t, err)

	tests := []struct {
		name    string
		seed    string
		wantLen int
		wantErr bool
	}{
		{name: "no seed", wantLen: 3},
		{name: "user seed", seed: string(seed), wantLen: 4},
		{name: "bad seed", seed: "SUNOTASEED", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := natsOptions(Options{URL: "nats://localhost:4222", NKeySeed: tt.seed})
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "failed to parse NATS nkey seed")
				return
			}
			require.NoError(t, err)
			assert.Len(t, opts, tt.wantLen)
		})
	}
}

func TestMergeSubjects(t *testing.T) {
	merged, changed := mergeSubjects([]string{"lastman.>"}, []string{"lastman.>"})
	assert.False(t, changed)
	assert.Equal(t, []string{"lastman.>"}, merged)

	existing := []string{"legacy.>"}
	merged, changed = mergeSubjects(existing, []string{"lastman.>", "legacy.>"})
	assert.True(t, changed)
	assert.Equal(t, []string{"legacy.>", "lastman.>"}, merged)
	assert.Equal(t, []string{"legacy.>"}, existing, "input is not modified")
}

func TestNotificationTopic(t *testing.T) {
	assert.Equal(t, "lastman.notification.league_winner.v1", NotificationTopic("LEAGUE_WINNER"))
	assert.Equal(t, "lastman.notification.eliminated.v1", NotificationTopic("ELIMINATED"))
}

func TestMessageCorrelation(t *testing.T) {
	ctx := attr.WithCorrelationID(context.Background(), "req-42")
	msg, err := NewMessage(ctx, map[string]int{"homeScore": 2})
	require.NoError(t, err)

	assert.NotEmpty(t, msg.UUID)
	assert.JSONEq(t, `{"homeScore":2}`, string(msg.Payload))
	assert.Equal(t, "req-42", msg.Metadata.Get(CorrelationIDKey))
	assert.Equal(t, "req-42", attr.CorrelationID(MessageContext(context.Background(), msg)))

	bare, err := NewMessage(context.Background(), struct{}{})
	require.NoError(t, err)
	assert.Empty(t, bare.Metadata.Get(CorrelationIDKey))
}
