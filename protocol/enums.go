package protocol

import (
	"fmt"
	"strings"
)

// MessageType identifies the action a message performs. It is stored on the
// wire independently of the body so hubs can dispatch without decoding it.
type MessageType int32

const (
	MessageTypeNone                      MessageType = 0
	MessageTypeCastAdd                   MessageType = 1
	MessageTypeCastRemove                MessageType = 2
	MessageTypeReactionAdd               MessageType = 3
	MessageTypeReactionRemove            MessageType = 4
	MessageTypeLinkAdd                   MessageType = 5
	MessageTypeLinkRemove                MessageType = 6
	MessageTypeVerificationAddEthAddress MessageType = 7
	MessageTypeVerificationRemove        MessageType = 8
	MessageTypeSignerAdd                 MessageType = 9
	MessageTypeSignerRemove              MessageType = 10
	MessageTypeUserDataAdd               MessageType = 11
	MessageTypeUsernameProof             MessageType = 12
)

var messageTypeNames = map[MessageType]string{
	MessageTypeNone:                      "MESSAGE_TYPE_NONE",
	MessageTypeCastAdd:                   "MESSAGE_TYPE_CAST_ADD",
	MessageTypeCastRemove:                "MESSAGE_TYPE_CAST_REMOVE",
	MessageTypeReactionAdd:               "MESSAGE_TYPE_REACTION_ADD",
	MessageTypeReactionRemove:            "MESSAGE_TYPE_REACTION_REMOVE",
	MessageTypeLinkAdd:                   "MESSAGE_TYPE_LINK_ADD",
	MessageTypeLinkRemove:                "MESSAGE_TYPE_LINK_REMOVE",
	MessageTypeVerificationAddEthAddress: "MESSAGE_TYPE_VERIFICATION_ADD_ETH_ADDRESS",
	MessageTypeVerificationRemove:        "MESSAGE_TYPE_VERIFICATION_REMOVE",
	MessageTypeSignerAdd:                 "MESSAGE_TYPE_SIGNER_ADD",
	MessageTypeSignerRemove:              "MESSAGE_TYPE_SIGNER_REMOVE",
	MessageTypeUserDataAdd:               "MESSAGE_TYPE_USER_DATA_ADD",
	MessageTypeUsernameProof:             "MESSAGE_TYPE_USERNAME_PROOF",
}

func (t MessageType) String() string {
	if s, ok := messageTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("MessageType(%d)", int32(t))
}

// IsValid reports whether t is a defined enumerator (NONE included).
func (t MessageType) IsValid() bool {
	_, ok := messageTypeNames[t]
	return ok
}

// Network is the FarcasterNetwork enum.
type Network int32

const (
	NetworkNone    Network = 0
	NetworkMainnet Network = 1
	NetworkTestnet Network = 2
	NetworkDevnet  Network = 3
)

var networkNames = map[Network]string{
	NetworkNone:    "FARCASTER_NETWORK_NONE",
	NetworkMainnet: "FARCASTER_NETWORK_MAINNET",
	NetworkTestnet: "FARCASTER_NETWORK_TESTNET",
	NetworkDevnet:  "FARCASTER_NETWORK_DEVNET",
}

func (n Network) String() string {
	if s, ok := networkNames[n]; ok {
		return s
	}
	return fmt.Sprintf("Network(%d)", int32(n))
}

// IsValid reports whether n is a defined enumerator (NONE included).
func (n Network) IsValid() bool {
	_, ok := networkNames[n]
	return ok
}

// ParseNetwork accepts "mainnet", "MAINNET" or "FARCASTER_NETWORK_MAINNET"
// (and likewise for the other networks).
func ParseNetwork(s string) (Network, error) {
	u := strings.ToUpper(strings.TrimSpace(s))
	u = strings.TrimPrefix(u, "FARCASTER_NETWORK_")
	for n, name := range networkNames {
		if n == NetworkNone {
			continue
		}
		if strings.TrimPrefix(name, "FARCASTER_NETWORK_") == u {
			return n, nil
		}
	}
	return NetworkNone, fmt.Errorf("protocol: unknown network %q", s)
}

// HashScheme identifies the hash function used for Message.Hash.
type HashScheme int32

const (
	HashSchemeNone   HashScheme = 0
	HashSchemeBlake3 HashScheme = 1
)

func (h HashScheme) String() string {
	switch h {
	case HashSchemeNone:
		return "HASH_SCHEME_NONE"
	case HashSchemeBlake3:
		return "HASH_SCHEME_BLAKE3"
	default:
		return fmt.Sprintf("HashScheme(%d)", int32(h))
	}
}

// SignatureScheme identifies the algorithm used for Message.Signature.
type SignatureScheme int32

const (
	SignatureSchemeNone    SignatureScheme = 0
	SignatureSchemeEd25519 SignatureScheme = 1
	SignatureSchemeEip712  SignatureScheme = 2
)

func (s SignatureScheme) String() string {
	switch s {
	case SignatureSchemeNone:
		return "SIGNATURE_SCHEME_NONE"
	case SignatureSchemeEd25519:
		return "SIGNATURE_SCHEME_ED25519"
	case SignatureSchemeEip712:
		return "SIGNATURE_SCHEME_EIP712"
	default:
		return fmt.Sprintf("SignatureScheme(%d)", int32(s))
	}
}

type ReactionType int32

const (
	ReactionTypeNone   ReactionType = 0
	ReactionTypeLike   ReactionType = 1
	ReactionTypeRecast ReactionType = 2
)

// ParseReactionType accepts "like" or "recast".
func ParseReactionType(s string) (ReactionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "like":
		return ReactionTypeLike, nil
	case "recast":
		return ReactionTypeRecast, nil
	default:
		return ReactionTypeNone, fmt.Errorf("protocol: unknown reaction type %q", s)
	}
}

type UserDataType int32

const (
	UserDataTypeNone     UserDataType = 0
	UserDataTypePfp      UserDataType = 1
	UserDataTypeDisplay  UserDataType = 2
	UserDataTypeBio      UserDataType = 3
	UserDataTypeURL      UserDataType = 5
	UserDataTypeUsername UserDataType = 6
)

// ParseUserDataType accepts "pfp", "display", "bio", "url" or "username".
func ParseUserDataType(s string) (UserDataType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pfp":
		return UserDataTypePfp, nil
	case "display":
		return UserDataTypeDisplay, nil
	case "bio":
		return UserDataTypeBio, nil
	case "url":
		return UserDataTypeURL, nil
	case "username":
		return UserDataTypeUsername, nil
	default:
		return UserDataTypeNone, fmt.Errorf("protocol: unknown user data type %q", s)
	}
}

type UserNameType int32

const (
	UserNameTypeNone  UserNameType = 0
	UserNameTypeFname UserNameType = 1
	UserNameTypeEnsL1 UserNameType = 2
)
