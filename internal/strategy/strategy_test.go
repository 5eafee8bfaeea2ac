package strategy

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrs "pushgate/internal/domain/errors"
	"pushgate/internal/domain/entity"
	"pushgate/internal/errors"
)

func TestLookup(t *testing.T) {
	t.Parallel()

	for _, id := range []string{"APNS", "APNS_SANDBOX", "GCM"} {
		s, err := Lookup(id)
		require.NoError(t, err)
		assert.Equal(t, id, s.ID())
	}

	_, err := Lookup("WNS")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrs.ErrPlatformNotSupported))
}

type fakeStrategy struct{}

func (fakeStrategy) ID() string          { return "GCM" }
func (fakeStrategy) ServiceName() string { return "Fake Messaging" }
func (fakeStrategy) OSKind() string      { return "android" }
func (fakeStrategy) FormatPayload(*entity.PushMessage) (Fragment, error) {
	return Fragment{"GCM": "{}"}, nil
}

func TestRegisterOverridesBuiltin(t *testing.T) {
	registryMu.Lock()
	saved := custom
	registryMu.Unlock()
	t.Cleanup(func() {
		registryMu.Lock()
		custom = saved
		registryMu.Unlock()
	})

	Register(func() Strategy { return fakeStrategy{} })

	s, err := Lookup("GCM")
	require.NoError(t, err)
	assert.Equal(t, "Fake Messaging", s.ServiceName())
}

func TestTrimMessage(t *testing.T) {
	t.Parallel()

	short := strings.Repeat("a", 130)
	assert.Equal(t, short, TrimMessage(short))

	long := strings.Repeat("b", 500)
	trimmed := TrimMessage(long)
	assert.LessOrEqual(t, len(trimmed), 140)
	assert.True(t, strings.HasSuffix(trimmed, "..."))

	// Re-applying to an already trimmed message is a no-op.
	assert.Equal(t, trimmed, TrimMessage(trimmed))

	// Multi-byte text is trimmed on rune boundaries.
	wide := strings.Repeat("日", 200)
	wideTrimmed := TrimMessage(wide)
	assert.LessOrEqual(t, len(wideTrimmed), 140)
	assert.True(t, strings.HasSuffix(wideTrimmed, "..."))
}

func TestAPNSFormatPayload(t *testing.T) {
	t.Parallel()

	sound := "chime.aiff"
	msg := entity.NewPushMessage("dinner is ready")
	msg.Sound = &sound
	msg.BadgeCount = 3
	msg.ExtraPayload = map[string]any{"deep_link": "app://orders/42"}

	frag, err := NewAPNS().FormatPayload(msg)
	require.NoError(t, err)
	require.Contains(t, frag, "APNS")

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(frag["APNS"]), &payload))

	aps, ok := payload["aps"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, aps["content-available"])
	assert.Equal(t, float64(3), aps["badge"])
	assert.Equal(t, "dinner is ready", aps["alert"])
	assert.Equal(t, "chime.aiff", aps["sound"])
	assert.Equal(t, "default", payload["ctx"])
	assert.Equal(t, "none", payload["id"])
	assert.Equal(t, "app://orders/42", payload["deep_link"])
}

func TestAPNSDefaultBadgeClearsIcon(t *testing.T) {
	t.Parallel()

	msg := entity.NewPushMessage("hello")
	require.Equal(t, 0, msg.BadgeCount)

	frag, err := NewAPNS().FormatPayload(msg)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(frag["APNS"]), &payload))

	aps, ok := payload["aps"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(0), aps["badge"])
	assert.Equal(t, "hello", aps["alert"])
}

func TestAPNSSilentPush(t *testing.T) {
	t.Parallel()

	msg := entity.NewPushMessage("")
	msg.HasNewContent = true
	msg.BadgeCount = -1

	frag, err := NewAPNSSandbox().FormatPayload(msg)
	require.NoError(t, err)
	require.Contains(t, frag, "APNS_SANDBOX")

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(frag["APNS_SANDBOX"]), &payload))

	aps, ok := payload["aps"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, aps["content-available"])
	assert.NotContains(t, aps, "alert")
	assert.NotContains(t, aps, "sound")
	assert.NotContains(t, aps, "badge")
}

func TestGCMCollapseKey(t *testing.T) {
	t.Parallel()

	first := entity.NewPushMessage("hello")
	second := entity.NewPushMessage("hello")
	second.ID = first.ID
	second.CreatedAt = first.CreatedAt

	fragA, err := NewGCM().FormatPayload(first)
	require.NoError(t, err)
	fragB, err := NewGCM().FormatPayload(second)
	require.NoError(t, err)

	keyA := collapseKeyOf(t, fragA["GCM"])
	keyB := collapseKeyOf(t, fragB["GCM"])
	assert.Equal(t, keyA, keyB)

	second.Context = "orders"
	fragC, err := NewGCM().FormatPayload(second)
	require.NoError(t, err)
	assert.NotEqual(t, keyA, collapseKeyOf(t, fragC["GCM"]))
}

func TestGCMDataIncludesExtraPayload(t *testing.T) {
	t.Parallel()

	msg := entity.NewPushMessage("hello")
	msg.ExtraPayload = map[string]any{"order_id": "42"}

	frag, err := NewGCM().FormatPayload(msg)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(frag["GCM"]), &payload))

	data, ok := payload["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "hello", data["message"])
	assert.Equal(t, "42", data["order_id"])
}

func TestMergeFragments(t *testing.T) {
	t.Parallel()

	envelope := MergeFragments("plain text",
		Fragment{"APNS": `{"aps":{}}`},
		Fragment{"GCM": `{"data":{}}`},
	)

	assert.Equal(t, "plain text", envelope["default"])
	assert.Equal(t, `{"aps":{}}`, envelope["APNS"])
	assert.Equal(t, `{"data":{}}`, envelope["GCM"])
}

func collapseKeyOf(t *testing.T, body string) string {
	t.Helper()

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &payload))

	key, ok := payload["collapse_key"].(string)
	require.True(t, ok)

	return key
}
