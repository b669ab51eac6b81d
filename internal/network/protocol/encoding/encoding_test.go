package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kapi-hub/exploding-kittens/internal/network/protocol"
)

func TestEncodeDecode(t *testing.T) {
	msg := MustNewMessage(protocol.MsgPlayMove, protocol.PlayMovePayload{
		Cards:  []string{"TACOCAT", "TACOCAT"},
		Target: "Alice",
	})

	data, err := Encode(msg)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, protocol.MsgPlayMove, decoded.Type)

	payload, err := ParsePayload[protocol.PlayMovePayload](decoded)
	require.NoError(t, err)
	assert.Equal(t, []string{"TACOCAT", "TACOCAT"}, payload.Cards)
	assert.Equal(t, "Alice", payload.Target)
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode([]byte("not json"))
	assert.Error(t, err)
}

func TestDecodeEmptyPayload(t *testing.T) {
	decoded, err := Decode([]byte(`{"type":"draw"}`))
	require.NoError(t, err)
	assert.Equal(t, protocol.MsgDraw, decoded.Type)

	payload, err := ParsePayload[protocol.PlayMovePayload](decoded)
	require.NoError(t, err)
	assert.Empty(t, payload.Cards)
}

func TestNewErrorMessage(t *testing.T) {
	msg := NewErrorMessage(protocol.ErrCodeNotYourTurn)
	payload, err := ParsePayload[protocol.ErrorPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeNotYourTurn, payload.Code)
	assert.Equal(t, protocol.ErrorMessages[protocol.ErrCodeNotYourTurn], payload.Message)
}

func TestMessagePoolReset(t *testing.T) {
	msg := GetMessage()
	msg.Type = protocol.MsgChat
	msg.Payload = []byte(`{}`)
	PutMessage(msg)

	reused := GetMessage()
	assert.Empty(t, reused.Type)
	assert.Nil(t, reused.Payload)
	PutMessage(reused)
}
