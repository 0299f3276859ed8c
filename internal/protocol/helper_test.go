package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_EncodeDecode(t *testing.T) {
	t.Parallel()

	msg, err := NewMessage(MsgPlaceBet, PlaceBetPayload{Amount: 9, WithoutTrump: true})
	require.NoError(t, err)

	data, err := msg.Encode()
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, MsgPlaceBet, decoded.Type)

	payload, err := ParsePayload[PlaceBetPayload](decoded)
	require.NoError(t, err)
	assert.Equal(t, 9, payload.Amount)
	assert.True(t, payload.WithoutTrump)
}

func TestNewMessage_NilPayload(t *testing.T) {
	t.Parallel()

	msg, err := NewMessage(MsgSkipBet, nil)
	require.NoError(t, err)
	assert.Nil(t, msg.Payload)

	data, err := msg.Encode()
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, MsgSkipBet, decoded.Type)
}

func TestDecode_InvalidJSON(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte("{not json"))
	assert.Error(t, err)
}

func TestParsePayload_TypeMismatch(t *testing.T) {
	t.Parallel()

	msg := MustNewMessage(MsgPlaceBet, PlaceBetPayload{Amount: 8})
	// Pointer fields absorb missing keys, scalar mismatch must fail
	msg.Payload = []byte(`{"amount": "eight"}`)

	_, err := ParsePayload[PlaceBetPayload](msg)
	assert.Error(t, err)
}

func TestNewErrorMessage(t *testing.T) {
	t.Parallel()

	msg := NewErrorMessage(ErrCodeRoomFull)
	require.Equal(t, MsgError, msg.Type)

	payload, err := ParsePayload[ErrorPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, ErrCodeRoomFull, payload.Code)
	assert.Equal(t, ErrorMessages[ErrCodeRoomFull], payload.Message)
}

func TestNewErrorMessageWithText(t *testing.T) {
	t.Parallel()

	msg := NewErrorMessageWithText(ErrCodeInvalidPlay, "必须跟随首出颜色")

	payload, err := ParsePayload[ErrorPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, ErrCodeInvalidPlay, payload.Code)
	assert.Equal(t, "必须跟随首出颜色", payload.Message)
}
