//go:build unit || e2e

package testutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// BodyMutator edits a request body before it is sent.
type BodyMutator func(map[string]any)

// BodyMap renders v as a JSON object so tests can send payloads the DTO type cannot express.
func BodyMap(t *testing.T, v any, muts ...BodyMutator) map[string]any {
	t.Helper()

	raw, err := json.Marshal(v)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	for _, mutate := range muts {
		mutate(m)
	}
	return m
}

func Set(key string, value any) BodyMutator {
	return func(m map[string]any) { m[key] = value }
}

func Unset(key string) BodyMutator {
	return func(m map[string]any) { delete(m, key) }
}
