package strategy

import (
	"encoding/json"
	"hash/fnv"
	"strconv"

	"pushgate/internal/domain/constants"
	"pushgate/internal/domain/entity"
	"pushgate/internal/errors"
)

type gcmStrategy struct{}

// NewGCM returns the strategy for the Google push service.
func NewGCM() Strategy {
	return &gcmStrategy{}
}

func (s *gcmStrategy) ID() string {
	return "GCM"
}

func (s *gcmStrategy) ServiceName() string {
	return "Google Cloud Messaging"
}

func (s *gcmStrategy) OSKind() string {
	return constants.OSKindAndroid
}

// FormatPayload ships the full field set under "data" together with a
// collapse key the broker uses to coalesce redundant notifications.
func (s *gcmStrategy) FormatPayload(msg *entity.PushMessage) (Fragment, error) {
	data := msg.AsDict()

	key, err := collapseKey(data)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]any{
		"collapse_key": key,
		"data":         data,
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal gcm payload")
	}

	return Fragment{s.ID(): string(body)}, nil
}

// collapseKey hashes the canonical JSON encoding of the message fields with
// FNV-64a. Map keys are sorted during encoding, so equal field sets always
// produce the same key.
func collapseKey(data map[string]any) (string, error) {
	canonical, err := json.Marshal(data)
	if err != nil {
		return "", errors.Wrap(err, "marshal collapse key input")
	}

	h := fnv.New64a()
	h.Write(canonical)

	return strconv.FormatUint(h.Sum64(), 10), nil
}
