package message

import "github.com/fiddotdev/hub-go/protocol"

func makeSigned(body protocol.Body, t protocol.MessageType, opts MessageDataOptions, signer Signer) (*protocol.Message, error) {
	data, err := MakeMessageData(body, t, opts)
	if err != nil {
		return nil, err
	}
	return MakeMessage(data, signer)
}

func MakeCastAdd(body *protocol.CastAddBody, opts MessageDataOptions, signer Signer) (*protocol.Message, error) {
	return makeSigned(body, protocol.MessageTypeCastAdd, opts, signer)
}

func MakeCastRemove(body *protocol.CastRemoveBody, opts MessageDataOptions, signer Signer) (*protocol.Message, error) {
	return makeSigned(body, protocol.MessageTypeCastRemove, opts, signer)
}

func MakeReactionAdd(body *protocol.ReactionBody, opts MessageDataOptions, signer Signer) (*protocol.Message, error) {
	return makeSigned(body, protocol.MessageTypeReactionAdd, opts, signer)
}

func MakeReactionRemove(body *protocol.ReactionBody, opts MessageDataOptions, signer Signer) (*protocol.Message, error) {
	return makeSigned(body, protocol.MessageTypeReactionRemove, opts, signer)
}

// MakeLinkAdd builds a link (e.g. "follow") from opts.FID to body.TargetFID.
func MakeLinkAdd(body *protocol.LinkBody, opts MessageDataOptions, signer Signer) (*protocol.Message, error) {
	return makeSigned(body, protocol.MessageTypeLinkAdd, opts, signer)
}

func MakeLinkRemove(body *protocol.LinkBody, opts MessageDataOptions, signer Signer) (*protocol.Message, error) {
	return makeSigned(body, protocol.MessageTypeLinkRemove, opts, signer)
}

// MakeVerificationAddEthAddress does not check the Ethereum claim signature;
// hubs do.
func MakeVerificationAddEthAddress(body *protocol.VerificationAddEthAddressBody, opts MessageDataOptions, signer Signer) (*protocol.Message, error) {
	return makeSigned(body, protocol.MessageTypeVerificationAddEthAddress, opts, signer)
}

func MakeVerificationRemove(body *protocol.VerificationRemoveBody, opts MessageDataOptions, signer Signer) (*protocol.Message, error) {
	return makeSigned(body, protocol.MessageTypeVerificationRemove, opts, signer)
}

func MakeSignerAdd(body *protocol.SignerAddBody, opts MessageDataOptions, signer Signer) (*protocol.Message, error) {
	return makeSigned(body, protocol.MessageTypeSignerAdd, opts, signer)
}

func MakeSignerRemove(body *protocol.SignerRemoveBody, opts MessageDataOptions, signer Signer) (*protocol.Message, error) {
	return makeSigned(body, protocol.MessageTypeSignerRemove, opts, signer)
}

func MakeUserDataAdd(body *protocol.UserDataBody, opts MessageDataOptions, signer Signer) (*protocol.Message, error) {
	return makeSigned(body, protocol.MessageTypeUserDataAdd, opts, signer)
}

func MakeUsernameProof(body *protocol.UserNameProof, opts MessageDataOptions, signer Signer) (*protocol.Message, error) {
	return makeSigned(body, protocol.MessageTypeUsernameProof, opts, signer)
}
