package service_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmcp/internal/service"
)

func TestOptional_UnmarshalDistinguishesAbsentNullAndEmpty(t *testing.T) {
	var in struct {
		A service.Optional[string] `json:"a"`
		B service.Optional[string] `json:"b"`
		C service.Optional[string] `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"b": null, "c": ""}`), &in))

	assert.False(t, in.A.Set, "absent field must stay unset")
	assert.False(t, in.B.Set, "null must be treated as not supplied")
	assert.True(t, in.C.Set, "empty string is a supplied value")
	assert.Equal(t, "", in.C.Value)
}

func TestOptional_Marshal(t *testing.T) {
	data, err := json.Marshal(struct {
		A service.Optional[string] `json:"a"`
		B service.Optional[string] `json:"b"`
	}{B: service.Some("x")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": null, "b": "x"}`, string(data))
}

func TestUpdate_IsEmpty(t *testing.T) {
	assert.True(t, service.Update{}.IsEmpty())
	assert.False(t, service.Update{Description: service.Some("")}.IsEmpty())
}

func TestTask_IsPending(t *testing.T) {
	assert.True(t, service.Task{Status: service.StatusPending}.IsPending())
	assert.False(t, service.Task{Status: "in-progress"}.IsPending())
}
