package codec

import (
	"encoding/json"

	gogoproto "github.com/cosmos/gogoproto/proto"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	connectiontypes "github.com/cosmos/ibc-go/v8/modules/core/03-connection/types"
	transfertypes "github.com/cosmos/ibc-go/v8/modules/apps/transfer/types"
)

// ibcSubDecoder tries to unmarshal raw bytes into one concrete IBC message
// type. ok is false when the bytes don't look like that message (either the
// unmarshal failed or it produced an empty/nonsensical value).
type ibcSubDecoder struct {
	subKind string
	decode  func(raw []byte) (json.RawMessage, bool)
}

// ibcCascade lists every IBC sub-message decoder in the fixed order spec
// requires; the first one that successfully parses wins.
var ibcCascade = []ibcSubDecoder{
	{"client_open", decodeProto(func() gogoproto.Message { return &clienttypes.MsgCreateClient{} })},
	{"client_update", decodeProto(func() gogoproto.Message { return &clienttypes.MsgUpdateClient{} })},
	{"client_misbehaviour", decodeProto(func() gogoproto.Message { return &clienttypes.MsgSubmitMisbehaviour{} })},
	{"client_upgrade", decodeProto(func() gogoproto.Message { return &clienttypes.MsgUpgradeClient{} })},
	{"connection_init", decodeProto(func() gogoproto.Message { return &connectiontypes.MsgConnectionOpenInit{} })},
	{"connection_try", decodeProto(func() gogoproto.Message { return &connectiontypes.MsgConnectionOpenTry{} })},
	{"connection_ack", decodeProto(func() gogoproto.Message { return &connectiontypes.MsgConnectionOpenAck{} })},
	{"connection_confirm", decodeProto(func() gogoproto.Message { return &connectiontypes.MsgConnectionOpenConfirm{} })},
	{"channel_init", decodeProto(func() gogoproto.Message { return &channeltypes.MsgChannelOpenInit{} })},
	{"channel_try", decodeProto(func() gogoproto.Message { return &channeltypes.MsgChannelOpenTry{} })},
	{"channel_ack", decodeProto(func() gogoproto.Message { return &channeltypes.MsgChannelOpenAck{} })},
	{"channel_confirm", decodeProto(func() gogoproto.Message { return &channeltypes.MsgChannelOpenConfirm{} })},
	{"channel_close_init", decodeProto(func() gogoproto.Message { return &channeltypes.MsgChannelCloseInit{} })},
	{"channel_close_confirm", decodeProto(func() gogoproto.Message { return &channeltypes.MsgChannelCloseConfirm{} })},
	{"recv_packet", decodeProto(func() gogoproto.Message { return &channeltypes.MsgRecvPacket{} })},
	{"ack_packet", decodeProto(func() gogoproto.Message { return &channeltypes.MsgAcknowledgement{} })},
	{"timeout_packet", decodeProto(func() gogoproto.Message { return &channeltypes.MsgTimeout{} })},
	{"timeout_on_close", decodeProto(func() gogoproto.Message { return &channeltypes.MsgTimeoutOnClose{} })},
	{"transfer", decodeProto(func() gogoproto.Message { return &transfertypes.MsgTransfer{} })},
	{"shielded_transfer", decodeShieldedTransfer},
}

// decodeIBC tries each sub-decoder in order, returning the first successful
// sub-kind and its JSON value. ok is false when the whole cascade fails,
// which the caller treats as log-only, not an error.
func decodeIBC(payload []byte) (subKind string, value json.RawMessage, ok bool) {
	for _, d := range ibcCascade {
		if v, matched := d.decode(payload); matched {
			return d.subKind, v, true
		}
	}
	return "", nil, false
}

// decodeProto builds an ibcSubDecoder.decode function for a gogoproto
// message type: unmarshal succeeds and the message round-trips to JSON.
func decodeProto(newMsg func() gogoproto.Message) func([]byte) (json.RawMessage, bool) {
	return func(raw []byte) (json.RawMessage, bool) {
		msg := newMsg()
		if err := gogoproto.Unmarshal(raw, msg); err != nil {
			return nil, false
		}
		out, err := json.Marshal(msg)
		if err != nil {
			return nil, false
		}
		return out, true
	}
}

// shieldedTransferPayload is Namada's MASP-aware transfer extension; no
// upstream ibc-go type models it, so it is our own typed stand-in.
type shieldedTransferPayload struct {
	SourcePort    string `json:"source_port"`
	SourceChannel string `json:"source_channel"`
	ShieldedData  string `json:"shielded_data"`
}

func decodeShieldedTransfer(raw []byte) (json.RawMessage, bool) {
	v, err := decodeJSON[shieldedTransferPayload](raw)
	if err != nil {
		return nil, false
	}
	if v.SourcePort == "" && v.SourceChannel == "" && v.ShieldedData == "" {
		return nil, false
	}
	out, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	return out, true
}
