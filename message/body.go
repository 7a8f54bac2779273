package message

import "github.com/fiddotdev/hub-go/protocol"

// BodyMessageTypes returns the message types that may carry body. Reaction
// and link bodies serve both their add and remove types.
func BodyMessageTypes(body protocol.Body) []protocol.MessageType {
	if !protocol.BodyIsSet(body) {
		return nil
	}
	switch body.(type) {
	case *protocol.CastAddBody:
		return []protocol.MessageType{protocol.MessageTypeCastAdd}
	case *protocol.CastRemoveBody:
		return []protocol.MessageType{protocol.MessageTypeCastRemove}
	case *protocol.ReactionBody:
		return []protocol.MessageType{protocol.MessageTypeReactionAdd, protocol.MessageTypeReactionRemove}
	case *protocol.VerificationAddEthAddressBody:
		return []protocol.MessageType{protocol.MessageTypeVerificationAddEthAddress}
	case *protocol.VerificationRemoveBody:
		return []protocol.MessageType{protocol.MessageTypeVerificationRemove}
	case *protocol.SignerAddBody:
		return []protocol.MessageType{protocol.MessageTypeSignerAdd}
	case *protocol.SignerRemoveBody:
		return []protocol.MessageType{protocol.MessageTypeSignerRemove}
	case *protocol.UserDataBody:
		return []protocol.MessageType{protocol.MessageTypeUserDataAdd}
	case *protocol.LinkBody:
		return []protocol.MessageType{protocol.MessageTypeLinkAdd, protocol.MessageTypeLinkRemove}
	case *protocol.UserNameProof:
		return []protocol.MessageType{protocol.MessageTypeUsernameProof}
	}
	return nil
}

// BodyMatchesType reports whether data's body variant agrees with its type tag.
//
// Neither MakeMessageData nor ValidateMessageData enforce this; callers that
// accept envelopes from untrusted builders can apply it on top.
func BodyMatchesType(data *protocol.MessageData) bool {
	if data == nil {
		return false
	}
	for _, t := range BodyMessageTypes(data.Body) {
		if t == data.Type {
			return true
		}
	}
	return false
}
